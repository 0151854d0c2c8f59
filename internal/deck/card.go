package deck

import (
	"errors"
	"fmt"
	"strings"
)

// Categories is the ordered set of category names shared by every card in a
// game. Order is significant: it decides which category wins when a card has
// more than one maximum score.
type Categories struct {
	names []string
	index map[string]int
}

// NewCategories creates a category set from the given names in order
func NewCategories(names ...string) (*Categories, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one category is required")
	}

	c := &Categories{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("category %d has an empty name", i)
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		c.names[i] = name
		c.index[name] = i
	}
	return c, nil
}

// Len returns the number of categories
func (c *Categories) Len() int {
	return len(c.names)
}

// Name returns the category name at index i
func (c *Categories) Name(i int) string {
	return c.names[i]
}

// Names returns a copy of the category names in order
func (c *Categories) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Index returns the position of the named category
func (c *Categories) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Equal reports whether both sets hold the same names in the same order
func (c *Categories) Equal(other *Categories) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil || len(c.names) != len(other.names) {
		return false
	}
	for i := range c.names {
		if c.names[i] != other.names[i] {
			return false
		}
	}
	return true
}

// String returns the category names joined by commas
func (c *Categories) String() string {
	return strings.Join(c.names, ", ")
}

// Card is an immutable card carrying one score per category. ID is the
// card's identity within a game and is unique across the deck.
type Card struct {
	ID         int
	Name       string
	categories *Categories
	values     []int
}

// NewCard creates a card. values must hold one score per category, in
// category order.
func NewCard(id int, name string, categories *Categories, values []int) (Card, error) {
	if categories == nil {
		return Card{}, errors.New("card requires a category set")
	}
	if len(values) != categories.Len() {
		return Card{}, fmt.Errorf("card %q has %d scores, want %d", name, len(values), categories.Len())
	}

	v := make([]int, len(values))
	copy(v, values)
	return Card{ID: id, Name: name, categories: categories, values: v}, nil
}

// Categories returns the category set the card was built against
func (c Card) Categories() *Categories {
	return c.categories
}

// ScoreAt returns the score for the category at index i
func (c Card) ScoreAt(i int) int {
	return c.values[i]
}

// Score returns the score for the named category
func (c Card) Score(category string) (int, bool) {
	i, ok := c.categories.Index(category)
	if !ok {
		return 0, false
	}
	return c.values[i], true
}

// BestCategoryIndex returns the index of the highest score. Equal maxima
// resolve to the earliest category.
func (c Card) BestCategoryIndex() int {
	best := 0
	for i := 1; i < len(c.values); i++ {
		if c.values[i] > c.values[best] {
			best = i
		}
	}
	return best
}

// BestCategory returns the name of the highest-scoring category
func (c Card) BestCategory() string {
	return c.categories.Name(c.BestCategoryIndex())
}

// String returns a compact representation, e.g. "Ferrari{speed:9 power:7}"
func (c Card) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('{')
	for i, v := range c.values {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s:%d", c.categories.Name(i), v)
	}
	b.WriteByte('}')
	return b.String()
}
