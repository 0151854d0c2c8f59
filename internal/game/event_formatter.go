package game

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// FormattingOptions controls how events are narrated
type FormattingOptions struct {
	ShowCards    bool // Include every card's full score line
	ShowTieSteps bool // Include tie-break iteration headers
}

// EventFormatter turns game events into human-readable narration
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns the narration line for event, or "" for events the options
// hide.
func (ef *EventFormatter) Format(event GameEvent) string {
	switch e := event.(type) {
	case GameStartEvent:
		return ef.FormatGameStart(e)
	case CategoryChosenEvent:
		if e.RandomChooser {
			return fmt.Sprintf("Round %d: %s (drawn at random) chooses %s", e.Round, e.ChooserName, e.Category)
		}
		return fmt.Sprintf("Round %d: %s chooses %s", e.Round, e.ChooserName, e.Category)
	case CardPlayedEvent:
		return ef.FormatCardPlayed(e)
	case TieEvent:
		return fmt.Sprintf("Tie detected! %s all score %d", strings.Join(e.Players, ", "), e.Score)
	case TieIterationEvent:
		if !ef.opts.ShowTieSteps {
			return ""
		}
		how := "same category"
		if e.RandomCategory {
			how = "random category"
		}
		return fmt.Sprintf("Resolving tie (iteration %d, %s %s): %s", e.Iteration, how, e.Category, strings.Join(e.Players, ", "))
	case LoopDetectedEvent:
		return "Detected looped tie state, breaking tie with random category choice"
	case RoundWonEvent:
		if e.ViaTie {
			return fmt.Sprintf("%s wins the tie and takes %d cards", e.WinnerName, e.PotSize)
		}
		return fmt.Sprintf("%s wins the round and takes %d cards", e.WinnerName, e.PotSize)
	case SafetyLimitEvent:
		return fmt.Sprintf("Safety limit %s: %s", e.Limit, e.Message)
	case GameOverEvent:
		return ef.FormatGameOver(e)
	default:
		return fmt.Sprintf("%s event", event.EventType())
	}
}

// FormatGameStart formats the deal summary
func (ef *EventFormatter) FormatGameStart(e GameStartEvent) string {
	seats := make([]string, len(e.Players))
	for i, name := range e.Players {
		seats[i] = fmt.Sprintf("%s (%d)", name, e.CardCounts[i])
	}
	return fmt.Sprintf("Game %s: %s • categories: %s", e.GameID, strings.Join(seats, ", "), strings.Join(e.Categories, ", "))
}

// FormatCardPlayed formats a revealed card
func (ef *EventFormatter) FormatCardPlayed(e CardPlayedEvent) string {
	card := e.Card.Name
	if ef.opts.ShowCards {
		card = e.Card.String()
	}
	if e.TieBreak {
		return fmt.Sprintf("%s plays %s with score %d in tie-break category %s", e.PlayerName, card, e.Score, e.Category)
	}
	return fmt.Sprintf("%s plays %s with score %d in category %s", e.PlayerName, card, e.Score, e.Category)
}

// FormatGameOver formats the final result
func (ef *EventFormatter) FormatGameOver(e GameOverEvent) string {
	switch e.Outcome {
	case OutcomeWin:
		return fmt.Sprintf("%s wins the game after %d rounds!", e.WinnerName, e.Rounds)
	default:
		return fmt.Sprintf("Game ended early (%s) after %d rounds; %s leads with the most cards", e.Outcome, e.Rounds, e.WinnerName)
	}
}

// NarrationSubscriber logs formatted events, one line per event
type NarrationSubscriber struct {
	logger    *log.Logger
	formatter *EventFormatter
}

// NewNarrationSubscriber creates a subscriber that narrates to logger
func NewNarrationSubscriber(logger *log.Logger, opts FormattingOptions) *NarrationSubscriber {
	return &NarrationSubscriber{logger: logger, formatter: NewEventFormatter(opts)}
}

// OnEvent implements EventSubscriber
func (n *NarrationSubscriber) OnEvent(event GameEvent) {
	line := n.formatter.Format(event)
	if line == "" {
		return
	}
	switch event.EventType() {
	case EventTypeSafetyLimit:
		n.logger.Warn(line)
	default:
		n.logger.Info(line)
	}
}
