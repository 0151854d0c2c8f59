package game

import (
	"fmt"
	"strings"
	"time"
)

// TieSignature identifies a tied state: the tied players in seating order and
// the card each would play next. Equal signatures mean the tie-break is about
// to replay a comparison it has already made.
type TieSignature string

// NewTieSignature builds the signature for the given tied players
func NewTieSignature(tied []*Player) TieSignature {
	var b strings.Builder
	for _, p := range tied {
		top := -1
		if card, ok := p.TopCard(); ok {
			top = card.ID
		}
		fmt.Fprintf(&b, "%d:%d;", p.ID, top)
	}
	return TieSignature(b.String())
}

// breakTie narrows the tied players by repeatedly revealing their next cards
// into the pot until one player has the top score. It always returns a
// winner within MaxTieRounds+1 iterations:
//   - an iteration uses the round category unless its tied state was seen
//     before or RandomCategoryAfter iterations have already failed, in which
//     case the category is drawn at random;
//   - a tied player without cards scores below every card;
//   - after MaxTieRounds iterations, or when no tied player can play, the
//     player with the most cards left wins, lowest ID on equal counts.
func (g *Game) breakTie(tied []*Player, category int, pot *Pot, result *RoundResult) *Player {
	for iteration := 1; ; iteration++ {
		if iteration > g.cfg.MaxTieRounds {
			return g.capTie(tied, result, LimitMaxTieRounds,
				fmt.Sprintf("tie unresolved after %d iterations, awarding pot by hand size", g.cfg.MaxTieRounds))
		}

		result.TieIterations = iteration
		g.tieIterations++

		tieCategory, random := category, false
		signature := NewTieSignature(tied)
		if g.seenTieState(signature) {
			result.LoopBreaks++
			g.loopBreaks++
			g.logger.Debug("Looped tie state detected", "round", result.Round, "signature", signature)
			g.bus.Publish(LoopDetectedEvent{Round: result.Round, Signature: signature, timestamp: time.Now()})
			tieCategory, random = g.rng.IntN(g.categories.Len()), true
		} else if g.cfg.RandomCategoryAfter > 0 && iteration > g.cfg.RandomCategoryAfter {
			tieCategory, random = g.rng.IntN(g.categories.Len()), true
		}

		g.bus.Publish(TieIterationEvent{
			Round:          result.Round,
			Iteration:      iteration,
			Players:        names(tied),
			Category:       g.categories.Name(tieCategory),
			RandomCategory: random,
			timestamp:      time.Now(),
		})

		revealed := g.reveal(tied, tieCategory, pot, result.Round, true)
		if len(revealed) == 0 {
			return g.capTie(tied, result, LimitTieExhausted, "no tied player has cards left, awarding pot by hand size")
		}

		// Tied players who could not play keep the sentinel score
		scored := make([]reveal, len(tied))
		for i, p := range tied {
			scored[i] = reveal{player: p, score: noCardScore}
			for _, r := range revealed {
				if r.player == p {
					scored[i].score = r.score
					break
				}
			}
		}

		tied, _ = topScorers(scored)
		if len(tied) == 1 {
			g.logger.Debug("Tie resolved", "round", result.Round, "winner", tied[0].Name, "iterations", iteration)
			return tied[0]
		}
	}
}

// seenTieState records signature and reports whether it had been seen before
// in this game. The history deliberately spans all rounds.
func (g *Game) seenTieState(signature TieSignature) bool {
	if _, ok := g.tieHistory[signature]; ok {
		return true
	}
	g.tieHistory[signature] = struct{}{}
	return false
}

func (g *Game) capTie(tied []*Player, result *RoundResult, limit SafetyLimit, message string) *Player {
	winner := mostCards(tied)
	result.TieCapped = true
	g.tieCapTriggers++

	g.logger.Warn("Tie-break safety limit reached", "round", result.Round, "limit", limit, "winner", winner.Name)
	g.bus.Publish(SafetyLimitEvent{
		Round:     result.Round,
		Limit:     limit,
		Message:   message,
		timestamp: time.Now(),
	})
	return winner
}
