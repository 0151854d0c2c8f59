package game

import (
	"fmt"

	"github.com/lox/toptrumps/internal/deck"
)

// PlayerID is a player's stable index in the game's seating order
type PlayerID int

// Player holds an ordered hand of cards. A player with an empty hand is
// eliminated until it is awarded a pot.
type Player struct {
	ID   PlayerID
	Name string
	hand []deck.Card
}

// NewPlayer creates a player holding a copy of cards, top card first
func NewPlayer(id PlayerID, name string, cards []deck.Card) *Player {
	hand := make([]deck.Card, len(cards))
	copy(hand, cards)
	return &Player{ID: id, Name: name, hand: hand}
}

// IsActive returns true if the player still holds cards
func (p *Player) IsActive() bool {
	return len(p.hand) > 0
}

// CardCount returns the number of cards in hand
func (p *Player) CardCount() int {
	return len(p.hand)
}

// Cards returns a copy of the hand, top card first
func (p *Player) Cards() []deck.Card {
	cards := make([]deck.Card, len(p.hand))
	copy(cards, p.hand)
	return cards
}

// TopCard returns the next card to be played without removing it
func (p *Player) TopCard() (deck.Card, bool) {
	if len(p.hand) == 0 {
		return deck.Card{}, false
	}
	return p.hand[0], true
}

// ChooseCategory picks the best category on the top card. It returns false
// when the hand is empty.
func (p *Player) ChooseCategory() (string, bool) {
	top, ok := p.TopCard()
	if !ok {
		return "", false
	}
	return top.BestCategory(), true
}

// PlayTopCard removes and returns the top card
func (p *Player) PlayTopCard() (deck.Card, bool) {
	if len(p.hand) == 0 {
		return deck.Card{}, false
	}
	card := p.hand[0]
	p.hand[0] = deck.Card{}
	p.hand = p.hand[1:]
	return card, true
}

// Receive appends cards to the bottom of the hand in the given order
func (p *Player) Receive(cards ...deck.Card) {
	p.hand = append(p.hand, cards...)
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%d cards)", p.Name, len(p.hand))
}
