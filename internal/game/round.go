package game

import (
	"fmt"
	"math"
	"time"
)

// RoundResult summarises one settled round
type RoundResult struct {
	Round         int
	Chooser       PlayerID
	Category      string
	Winner        PlayerID
	PotSize       int
	Tied          bool
	TieIterations int
	TieCapped     bool
	LoopBreaks    int
}

// reveal is one player's card in the current comparison
type reveal struct {
	player *Player
	score  int
}

// noCardScore ranks a tied player who cannot play below any real score
const noCardScore = math.MinInt

// PlayRound runs one round: the chooser names a category, every active player
// reveals a card into the pot, and the highest score takes it. Equal top
// scores go to the tie-break. It returns ErrNoActivePlayer, leaving the game
// untouched, when the chooser holds no cards.
func (g *Game) PlayRound() (RoundResult, error) {
	chooser, random, err := g.selectChooser()
	if err != nil {
		return RoundResult{}, err
	}

	category, ok := chooser.ChooseCategory()
	if !ok {
		g.logger.Warn("Chooser has no cards", "player", chooser.Name, "round", g.roundCount+1)
		return RoundResult{}, fmt.Errorf("%w: %s holds no cards", ErrNoActivePlayer, chooser.Name)
	}
	categoryIndex, _ := g.categories.Index(category)

	g.roundCount++
	g.categoryChoices[category]++
	result := RoundResult{
		Round:    g.roundCount,
		Chooser:  chooser.ID,
		Category: category,
	}

	g.logger.Debug("Category chosen", "round", result.Round, "chooser", chooser.Name, "category", category)
	g.bus.Publish(CategoryChosenEvent{
		Round:         result.Round,
		Chooser:       chooser.ID,
		ChooserName:   chooser.Name,
		Category:      category,
		RandomChooser: random,
		timestamp:     time.Now(),
	})

	pot := NewPot()
	revealed := g.reveal(g.ActivePlayers(), categoryIndex, pot, result.Round, false)
	leaders, top := topScorers(revealed)

	winner := leaders[0]
	if len(leaders) > 1 {
		g.tieCount++
		result.Tied = true
		g.logger.Debug("Tie detected", "round", result.Round, "players", len(leaders), "score", top)
		g.bus.Publish(TieEvent{
			Round:     result.Round,
			Players:   names(leaders),
			Score:     top,
			PotSize:   pot.Size(),
			timestamp: time.Now(),
		})
		winner = g.breakTie(leaders, categoryIndex, pot, &result)
	}

	result.Winner = winner.ID
	result.PotSize = pot.Size()
	if err := g.settle(winner, pot); err != nil {
		return result, err
	}

	g.logger.Debug("Round won", "round", result.Round, "winner", winner.Name, "pot", result.PotSize, "tied", result.Tied)
	g.bus.Publish(RoundWonEvent{
		Round:      result.Round,
		Winner:     winner.ID,
		WinnerName: winner.Name,
		PotSize:    result.PotSize,
		ViaTie:     result.Tied,
		timestamp:  time.Now(),
	})
	return result, nil
}

// selectChooser returns the previous round's winner, or a random active
// player when nobody has won a round yet.
func (g *Game) selectChooser() (*Player, bool, error) {
	if g.hasChooser {
		return g.players[g.chooser], false, nil
	}

	active := g.ActivePlayers()
	if len(active) == 0 {
		return nil, false, fmt.Errorf("%w: every hand is empty", ErrNoActivePlayer)
	}
	return active[g.rng.IntN(len(active))], true, nil
}

// resetChooser forgets the chooser so the next round draws one at random
func (g *Game) resetChooser() {
	g.hasChooser = false
	g.recoveries++
}

// reveal has each player with cards play their top card into the pot and
// score it in the given category. Players without cards are skipped.
func (g *Game) reveal(players []*Player, category int, pot *Pot, round int, tieBreak bool) []reveal {
	revealed := make([]reveal, 0, len(players))
	for _, p := range players {
		card, ok := p.PlayTopCard()
		if !ok {
			continue
		}
		pot.Add(card)
		score := card.ScoreAt(category)
		revealed = append(revealed, reveal{player: p, score: score})

		g.bus.Publish(CardPlayedEvent{
			Round:      round,
			Player:     p.ID,
			PlayerName: p.Name,
			Card:       card,
			Category:   g.categories.Name(category),
			Score:      score,
			TieBreak:   tieBreak,
			timestamp:  time.Now(),
		})
	}
	return revealed
}

// settle hands the whole pot to the winner, makes them the next chooser and
// checks that no card was lost or duplicated on the way.
func (g *Game) settle(winner *Player, pot *Pot) error {
	winner.Receive(pot.Take()...)
	g.chooser = winner.ID
	g.hasChooser = true

	if err := g.CheckConservation(); err != nil {
		g.logger.Error("Card conservation violation detected!", "error", err, "round", g.roundCount)
		return fmt.Errorf("round %d: %w", g.roundCount, err)
	}
	return nil
}

// topScorers returns every revealed player sharing the highest score, in
// reveal order, and that score.
func topScorers(revealed []reveal) ([]*Player, int) {
	top := noCardScore
	var leaders []*Player
	for _, r := range revealed {
		switch {
		case r.score > top:
			top = r.score
			leaders = append(leaders[:0], r.player)
		case r.score == top:
			leaders = append(leaders, r.player)
		}
	}
	return leaders, top
}

func names(players []*Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}
