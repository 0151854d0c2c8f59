package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/toptrumps/internal/deck"
	"github.com/lox/toptrumps/internal/randutil"
	"github.com/stretchr/testify/require"
)

// handBuilder hands out cards with unique IDs against one category set
type handBuilder struct {
	t          *testing.T
	categories *deck.Categories
	nextID     int
}

func newHandBuilder(t *testing.T, categories ...string) *handBuilder {
	t.Helper()
	c, err := deck.NewCategories(categories...)
	require.NoError(t, err)
	return &handBuilder{t: t, categories: c}
}

// hand builds one card per score row; each row lists a score per category
func (b *handBuilder) hand(rows ...[]int) []deck.Card {
	cards := make([]deck.Card, len(rows))
	for i, row := range rows {
		card, err := deck.NewCard(b.nextID, cardName(b.nextID), b.categories, row)
		require.NoError(b.t, err)
		cards[i] = card
		b.nextID++
	}
	return cards
}

// scores builds a single-category hand
func (b *handBuilder) scores(values ...int) []deck.Card {
	rows := make([][]int, len(values))
	for i, v := range values {
		rows[i] = []int{v}
	}
	return b.hand(rows...)
}

func cardName(id int) string {
	return "C" + string(rune('A'+id%26)) + string(rune('0'+id/26))
}

func (b *handBuilder) game(hands [][]deck.Card, opts ...Option) *Game {
	b.t.Helper()
	g, err := New(randutil.New(1), b.categories, PlayerNames(len(hands)), hands, opts...)
	require.NoError(b.t, err)
	return g
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// eventRecorder captures published events in order
type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func (r *eventRecorder) ofType(et EventType) []GameEvent {
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}

func recordEvents(g *Game) *eventRecorder {
	r := &eventRecorder{}
	bus := NewEventBus()
	bus.Subscribe(r)
	g.bus = bus
	return r
}

func cardIDs(cards []deck.Card) []int {
	ids := make([]int, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}
