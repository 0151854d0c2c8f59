// Package game implements the Top Trumps round engine.
//
// A Game seats players holding ordered hands of deck.Card values. Each round
// the chooser (the previous round's winner, or a random active player before
// the first win) names the best category on their top card, every active
// player reveals a card into the pot, and the highest score takes the pot.
// Equal top scores go to the tie-break, which keeps revealing cards from the
// tied players until one is ahead.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	d, _ := deck.Synthesize(rng, deck.DefaultSynthOptions())
//	g, _ := game.Deal(rng, d, game.PlayerNames(4))
//	result, err := game.NewGameEngine(g, logger).Play(ctx)
//
// # Safety Limits
//
// Config caps both the number of rounds in a game and the number of
// iterations in a tie-break. A capped tie goes to the tied player with the
// most cards; a capped game stops with OutcomeSafetyLimit and reports the
// leader. Repeated tied states force a random tie-break category.
//
// Tie history is game-wide and is never reset between rounds: a signature
// recorded in an earlier round counts as a repeat in every later one.
// Narrowing it to a single round changes which tie-breaks go random and
// therefore the outcome of seeded games.
//
// # Observability
//
// Every step is published as a GameEvent on the game's EventBus.
// NarrationSubscriber turns them into log lines.
package game
