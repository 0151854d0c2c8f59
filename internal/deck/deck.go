package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// Deck is the full set of cards for one game
type Deck struct {
	cards      []Card
	categories *Categories
}

// New creates a deck from cards that share the given category set
func New(categories *Categories, cards []Card) (*Deck, error) {
	if len(cards) == 0 {
		return nil, errors.New("deck requires at least one card")
	}

	seen := make(map[int]bool, len(cards))
	for _, card := range cards {
		if !card.Categories().Equal(categories) {
			return nil, fmt.Errorf("card %q uses categories [%s], want [%s]", card.Name, card.Categories(), categories)
		}
		if seen[card.ID] {
			return nil, fmt.Errorf("duplicate card id %d", card.ID)
		}
		seen[card.ID] = true
	}

	c := make([]Card, len(cards))
	copy(c, cards)
	return &Deck{cards: c, categories: categories}, nil
}

// Categories returns the category set shared by every card
func (d *Deck) Categories() *Categories {
	return d.categories
}

// Len returns the number of cards in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the cards in their current order
func (d *Deck) Cards() []Card {
	c := make([]Card, len(d.cards))
	copy(c, d.cards)
	return c
}

// Clone returns an independent copy of the deck. Cards are immutable so only
// the ordering is copied.
func (d *Deck) Clone() *Deck {
	return &Deck{cards: d.Cards(), categories: d.categories}
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal splits the deck round-robin into n hands, preserving dealt order
// within each hand. Hand sizes differ by at most one.
func (d *Deck) Deal(n int) ([][]Card, error) {
	if n < 1 {
		return nil, fmt.Errorf("cannot deal to %d hands", n)
	}

	hands := make([][]Card, n)
	for i, card := range d.cards {
		hands[i%n] = append(hands[i%n], card)
	}
	return hands, nil
}

// SynthOptions configures a randomly generated deck
type SynthOptions struct {
	Size       int
	Categories int
	MinScore   int
	MaxScore   int
}

// DefaultSynthOptions returns the classic 28 card, 6 category deck
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{
		Size:       28,
		Categories: 6,
		MinScore:   1,
		MaxScore:   10,
	}
}

// Synthesize builds a deck with uniformly random scores in
// [MinScore, MaxScore]. Cards are named "Card 1".."Card N" and categories
// "Category 1".."Category K".
func Synthesize(rng *rand.Rand, opts SynthOptions) (*Deck, error) {
	if opts.Size < 1 {
		return nil, fmt.Errorf("deck size must be positive, got %d", opts.Size)
	}
	if opts.Categories < 1 {
		return nil, fmt.Errorf("category count must be positive, got %d", opts.Categories)
	}
	if opts.MinScore > opts.MaxScore {
		return nil, fmt.Errorf("min score %d exceeds max score %d", opts.MinScore, opts.MaxScore)
	}

	names := make([]string, opts.Categories)
	for i := range names {
		names[i] = fmt.Sprintf("Category %d", i+1)
	}
	categories, err := NewCategories(names...)
	if err != nil {
		return nil, err
	}

	span := opts.MaxScore - opts.MinScore + 1
	cards := make([]Card, opts.Size)
	for i := range cards {
		values := make([]int, opts.Categories)
		for j := range values {
			values[j] = opts.MinScore + rng.IntN(span)
		}
		cards[i] = Card{ID: i, Name: fmt.Sprintf("Card %d", i+1), categories: categories, values: values}
	}

	return &Deck{cards: cards, categories: categories}, nil
}
