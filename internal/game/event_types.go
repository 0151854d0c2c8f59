package game

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameStart      EventType = "game_start"
	EventTypeCategoryChosen EventType = "category_chosen"
	EventTypeCardPlayed     EventType = "card_played"
	EventTypeTie            EventType = "tie"
	EventTypeTieIteration   EventType = "tie_iteration"
	EventTypeLoopDetected   EventType = "loop_detected"
	EventTypeRoundWon       EventType = "round_won"
	EventTypeSafetyLimit    EventType = "safety_limit"
	EventTypeGameOver       EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// SafetyLimit names the cap that fired
type SafetyLimit string

const (
	// LimitMaxRounds stops a game that has run too many rounds
	LimitMaxRounds SafetyLimit = "max_rounds"
	// LimitMaxTieRounds settles a tie that survived too many iterations
	LimitMaxTieRounds SafetyLimit = "max_tie_rounds"
	// LimitTieExhausted settles a tie where no tied player can play a card
	LimitTieExhausted SafetyLimit = "tie_exhausted"
	// LimitStalled stops a game whose chooser repeatedly cannot act
	LimitStalled SafetyLimit = "stalled"
)
