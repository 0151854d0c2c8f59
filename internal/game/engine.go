package game

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/charmbracelet/log"
)

// Outcome describes how a game ended
type Outcome string

const (
	// OutcomeWin means one player holds every card
	OutcomeWin Outcome = "win"
	// OutcomeSafetyLimit means the round cap stopped the game
	OutcomeSafetyLimit Outcome = "safety_limit"
	// OutcomeAborted means the game could not continue or was cancelled
	OutcomeAborted Outcome = "aborted"
)

// Result is the outcome of a complete game. Winner is authoritative only for
// OutcomeWin; otherwise it is the player holding the most cards when the game
// stopped.
type Result struct {
	GameID          string
	Winner          PlayerID
	WinnerName      string
	Outcome         Outcome
	Reason          string
	Rounds          int
	Ties            int
	TieIterations   int
	TieCapTriggers  int
	LoopBreaks      int
	Recoveries      int
	CategoryChoices map[string]int
	FinalCounts     []int
}

// Authoritative reports whether the winner holds every card
func (r *Result) Authoritative() bool {
	return r.Outcome == OutcomeWin
}

// Err returns nil for a clean win and an error describing why the result is
// non-authoritative otherwise. Safety-limit stops wrap ErrSafetyLimit.
func (r *Result) Err() error {
	switch r.Outcome {
	case OutcomeWin:
		return nil
	case OutcomeSafetyLimit:
		return fmt.Errorf("%w: %s", ErrSafetyLimit, r.Reason)
	default:
		return fmt.Errorf("game aborted: %s", r.Reason)
	}
}

// GameEngine drives a game from the deal until one player holds every card
// or a safety limit stops it.
type GameEngine struct {
	game   *Game
	logger *log.Logger
}

// NewGameEngine creates an engine for g
func NewGameEngine(g *Game, logger *log.Logger) *GameEngine {
	return &GameEngine{game: g, logger: logger}
}

// Game returns the game being played
func (ge *GameEngine) Game() *Game {
	return ge.game
}

// Play runs rounds until one active player remains. It stops early with a
// non-authoritative result when MaxRounds is reached, when the chooser
// repeatedly cannot act, or when ctx is done. The returned error is reserved
// for defects such as a conservation violation.
func (ge *GameEngine) Play(ctx context.Context) (*Result, error) {
	g := ge.game

	ge.logger.Debug("Starting game", "gameID", g.id, "players", len(g.players), "cards", g.totalCards)
	g.bus.Publish(GameStartEvent{
		GameID:     g.id,
		Players:    names(g.players),
		CardCounts: cardCounts(g.players),
		Categories: g.categories.Names(),
		timestamp:  time.Now(),
	})

	stalled := false
	for {
		if err := ctx.Err(); err != nil {
			return ge.finish(OutcomeAborted, g.Leader(), fmt.Sprintf("stopped after %d rounds: %v", g.roundCount, err)), nil
		}

		active := g.ActivePlayers()
		switch len(active) {
		case 0:
			return nil, fmt.Errorf("%w: no player holds any cards", ErrConservation)
		case 1:
			return ge.finish(OutcomeWin, active[0], ""), nil
		}

		if g.roundCount >= g.cfg.MaxRounds {
			reason := fmt.Sprintf("no winner after %d rounds", g.cfg.MaxRounds)
			ge.logger.Warn("Stopping game due to too many rounds", "gameID", g.id, "rounds", g.roundCount)
			g.bus.Publish(SafetyLimitEvent{Round: g.roundCount, Limit: LimitMaxRounds, Message: reason, timestamp: time.Now()})
			return ge.finish(OutcomeSafetyLimit, g.Leader(), reason), nil
		}

		result, err := g.PlayRound()
		switch {
		case errors.Is(err, ErrNoActivePlayer):
			if stalled {
				reason := "chooser could not act twice in a row"
				g.bus.Publish(SafetyLimitEvent{Round: g.roundCount, Limit: LimitStalled, Message: reason, timestamp: time.Now()})
				return ge.finish(OutcomeAborted, g.Leader(), reason), nil
			}
			ge.logger.Warn("Re-selecting chooser", "gameID", g.id, "error", err)
			stalled = true
			g.resetChooser()
			continue
		case err != nil:
			return nil, err
		}
		stalled = false

		ge.logger.Debug("Round complete",
			"gameID", g.id,
			"round", result.Round,
			"category", result.Category,
			"winner", g.players[result.Winner].Name,
			"pot", result.PotSize,
			"tieIterations", result.TieIterations)
	}
}

func (ge *GameEngine) finish(outcome Outcome, winner *Player, reason string) *Result {
	g := ge.game
	result := &Result{
		GameID:          g.id,
		Winner:          winner.ID,
		WinnerName:      winner.Name,
		Outcome:         outcome,
		Reason:          reason,
		Rounds:          g.roundCount,
		Ties:            g.tieCount,
		TieIterations:   g.tieIterations,
		TieCapTriggers:  g.tieCapTriggers,
		LoopBreaks:      g.loopBreaks,
		Recoveries:      g.recoveries,
		CategoryChoices: maps.Clone(g.categoryChoices),
		FinalCounts:     cardCounts(g.players),
	}

	ge.logger.Debug("Game over", "gameID", g.id, "winner", winner.Name, "outcome", outcome, "rounds", g.roundCount)
	g.bus.Publish(GameOverEvent{
		GameID:     g.id,
		Winner:     winner.ID,
		WinnerName: winner.Name,
		Outcome:    outcome,
		Rounds:     g.roundCount,
		timestamp:  time.Now(),
	})
	return result
}

func cardCounts(players []*Player) []int {
	counts := make([]int, len(players))
	for i, p := range players {
		counts[i] = p.CardCount()
	}
	return counts
}
