package game

import (
	"time"

	"github.com/lox/toptrumps/internal/deck"
)

// GameEvent represents anything that happens during a game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartEvent is published once the cards have been dealt
type GameStartEvent struct {
	GameID     string
	Players    []string
	CardCounts []int
	Categories []string
	timestamp  time.Time
}

func (e GameStartEvent) EventType() EventType { return EventTypeGameStart }
func (e GameStartEvent) Timestamp() time.Time { return e.timestamp }

// CategoryChosenEvent is published when the chooser names the round category
type CategoryChosenEvent struct {
	Round         int
	Chooser       PlayerID
	ChooserName   string
	Category      string
	RandomChooser bool // no previous winner, chooser drawn at random
	timestamp     time.Time
}

func (e CategoryChosenEvent) EventType() EventType { return EventTypeCategoryChosen }
func (e CategoryChosenEvent) Timestamp() time.Time { return e.timestamp }

// CardPlayedEvent is published for every card revealed into the pot
type CardPlayedEvent struct {
	Round      int
	Player     PlayerID
	PlayerName string
	Card       deck.Card
	Category   string
	Score      int
	TieBreak   bool
	timestamp  time.Time
}

func (e CardPlayedEvent) EventType() EventType { return EventTypeCardPlayed }
func (e CardPlayedEvent) Timestamp() time.Time { return e.timestamp }

// TieEvent is published when the reveal produces more than one top score
type TieEvent struct {
	Round     int
	Players   []string
	Score     int
	PotSize   int
	timestamp time.Time
}

func (e TieEvent) EventType() EventType { return EventTypeTie }
func (e TieEvent) Timestamp() time.Time { return e.timestamp }

// TieIterationEvent is published at the start of each tie-break iteration
type TieIterationEvent struct {
	Round          int
	Iteration      int
	Players        []string
	Category       string
	RandomCategory bool
	timestamp      time.Time
}

func (e TieIterationEvent) EventType() EventType { return EventTypeTieIteration }
func (e TieIterationEvent) Timestamp() time.Time { return e.timestamp }

// LoopDetectedEvent is published when a tied state repeats
type LoopDetectedEvent struct {
	Round     int
	Signature TieSignature
	timestamp time.Time
}

func (e LoopDetectedEvent) EventType() EventType { return EventTypeLoopDetected }
func (e LoopDetectedEvent) Timestamp() time.Time { return e.timestamp }

// RoundWonEvent is published when a pot is settled
type RoundWonEvent struct {
	Round      int
	Winner     PlayerID
	WinnerName string
	PotSize    int
	ViaTie     bool
	timestamp  time.Time
}

func (e RoundWonEvent) EventType() EventType { return EventTypeRoundWon }
func (e RoundWonEvent) Timestamp() time.Time { return e.timestamp }

// SafetyLimitEvent is published when a cap forces a fallback decision
type SafetyLimitEvent struct {
	Round     int
	Limit     SafetyLimit
	Message   string
	timestamp time.Time
}

func (e SafetyLimitEvent) EventType() EventType { return EventTypeSafetyLimit }
func (e SafetyLimitEvent) Timestamp() time.Time { return e.timestamp }

// GameOverEvent is published when the game loop stops
type GameOverEvent struct {
	GameID     string
	Winner     PlayerID
	WinnerName string
	Outcome    Outcome
	Rounds     int
	timestamp  time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in subscription order
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

