package game

import "github.com/lox/toptrumps/internal/deck"

// Pot collects the cards revealed during a round, including any tie-break
// iterations. It only grows until Take hands the whole pot to the winner.
type Pot struct {
	cards []deck.Card
}

// NewPot creates an empty pot
func NewPot() *Pot {
	return &Pot{}
}

// Add appends a revealed card
func (p *Pot) Add(card deck.Card) {
	p.cards = append(p.cards, card)
}

// Size returns the number of cards in the pot
func (p *Pot) Size() int {
	return len(p.cards)
}

// Cards returns a copy of the pot contents in reveal order
func (p *Pot) Cards() []deck.Card {
	cards := make([]deck.Card, len(p.cards))
	copy(cards, p.cards)
	return cards
}

// Take empties the pot and returns its contents in reveal order
func (p *Pot) Take() []deck.Card {
	cards := p.cards
	p.cards = nil
	return cards
}
