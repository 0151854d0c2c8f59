package game

import (
	"errors"
	"fmt"
	"io"
	"maps"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/toptrumps/internal/deck"
)

// Config holds the game's safety caps and tie-break policy
type Config struct {
	// MaxRounds stops the game loop after this many rounds
	MaxRounds int
	// MaxTieRounds settles a tie by hand size after this many iterations
	MaxTieRounds int
	// RandomCategoryAfter switches tie-break iterations to a random
	// category once this many iterations have failed. Zero disables it.
	RandomCategoryAfter int
}

// DefaultConfig returns the standard caps
func DefaultConfig() Config {
	return Config{
		MaxRounds:           1000,
		MaxTieRounds:        10,
		RandomCategoryAfter: 4,
	}
}

// Validate checks the caps are usable
func (c Config) Validate() error {
	if c.MaxRounds < 1 {
		return fmt.Errorf("max rounds must be positive, got %d", c.MaxRounds)
	}
	if c.MaxTieRounds < 1 {
		return fmt.Errorf("max tie rounds must be positive, got %d", c.MaxTieRounds)
	}
	if c.RandomCategoryAfter < 0 {
		return fmt.Errorf("random category threshold cannot be negative, got %d", c.RandomCategoryAfter)
	}
	return nil
}

// Option configures a Game during creation
type Option func(*Game)

// WithConfig overrides DefaultConfig
func WithConfig(cfg Config) Option {
	return func(g *Game) { g.cfg = cfg }
}

// WithEventBus publishes game events to bus
func WithEventBus(bus EventBus) Option {
	return func(g *Game) { g.bus = bus }
}

// WithLogger sets the logger used for debug tracing
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// WithID sets the game identifier reported in events and results
func WithID(id string) Option {
	return func(g *Game) { g.id = id }
}

// Game is the state of one Top Trumps game: the seated players, the player
// due to choose the next category, and the per-game counters. A Game is not
// safe for concurrent use; independent games share nothing.
type Game struct {
	id         string
	cfg        Config
	rng        *rand.Rand
	bus        EventBus
	logger     *log.Logger
	categories *deck.Categories
	players    []*Player
	totalCards int

	chooser    PlayerID
	hasChooser bool

	roundCount      int
	tieCount        int
	tieIterations   int
	tieCapTriggers  int
	loopBreaks      int
	recoveries      int
	categoryChoices map[string]int
	tieHistory      map[TieSignature]struct{}
}

// New seats one player per name with the matching hand. The rng drives the
// first chooser and random tie-break categories; pass a seeded one for
// reproducible games.
func New(rng *rand.Rand, categories *deck.Categories, names []string, hands [][]deck.Card, opts ...Option) (*Game, error) {
	if rng == nil {
		return nil, errors.New("rng is required")
	}
	if categories == nil {
		return nil, errors.New("category set is required")
	}
	if len(names) < 2 {
		return nil, fmt.Errorf("at least 2 players required, got %d", len(names))
	}
	if len(hands) != len(names) {
		return nil, fmt.Errorf("got %d hands for %d players", len(hands), len(names))
	}

	g := &Game{
		cfg:             DefaultConfig(),
		rng:             rng,
		bus:             NewEventBus(),
		logger:          log.NewWithOptions(io.Discard, log.Options{}),
		categories:      categories,
		players:         make([]*Player, len(names)),
		categoryChoices: make(map[string]int),
		tieHistory:      make(map[TieSignature]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[int]string)
	for i, name := range names {
		for _, card := range hands[i] {
			if !card.Categories().Equal(categories) {
				return nil, fmt.Errorf("card %q dealt to %s does not use the game's categories", card.Name, name)
			}
			if owner, dup := seen[card.ID]; dup {
				return nil, fmt.Errorf("card %q (id %d) dealt to both %s and %s", card.Name, card.ID, owner, name)
			}
			seen[card.ID] = name
		}
		g.players[i] = NewPlayer(PlayerID(i), name, hands[i])
		g.totalCards += len(hands[i])
	}
	if g.totalCards == 0 {
		return nil, errors.New("no cards dealt")
	}

	return g, nil
}

// Deal shuffles a copy of d with rng and deals it round-robin to the named
// players before creating the game.
func Deal(rng *rand.Rand, d *deck.Deck, names []string, opts ...Option) (*Game, error) {
	if rng == nil {
		return nil, errors.New("rng is required")
	}
	if len(names) > d.Len() {
		return nil, fmt.Errorf("%d players need at least %d cards, deck has %d", len(names), len(names), d.Len())
	}

	shuffled := d.Clone()
	shuffled.Shuffle(rng)
	hands, err := shuffled.Deal(len(names))
	if err != nil {
		return nil, err
	}
	return New(rng, d.Categories(), names, hands, opts...)
}

// PlayerNames returns n default seat names, "Player 1".."Player n"
func PlayerNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Player %d", i+1)
	}
	return names
}

// ID returns the game identifier, which may be empty
func (g *Game) ID() string { return g.id }

// Config returns the game's caps
func (g *Game) Config() Config { return g.cfg }

// Categories returns the category set every card uses
func (g *Game) Categories() *deck.Categories { return g.categories }

// Players returns every seated player in seating order, eliminated or not
func (g *Game) Players() []*Player {
	players := make([]*Player, len(g.players))
	copy(players, g.players)
	return players
}

// Player returns the player with the given ID
func (g *Game) Player(id PlayerID) (*Player, bool) {
	if id < 0 || int(id) >= len(g.players) {
		return nil, false
	}
	return g.players[id], true
}

// ActivePlayers returns the players still holding cards, in seating order
func (g *Game) ActivePlayers() []*Player {
	var active []*Player
	for _, p := range g.players {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	return active
}

// Chooser returns the player who picks the next category. It is false
// before the first round has been settled.
func (g *Game) Chooser() (PlayerID, bool) {
	return g.chooser, g.hasChooser
}

// Leader returns the player holding the most cards, lowest ID on equal counts
func (g *Game) Leader() *Player {
	return mostCards(g.players)
}

// TotalCards returns the number of cards in play, fixed for the whole game
func (g *Game) TotalCards() int { return g.totalCards }

// RoundCount returns the number of rounds played so far
func (g *Game) RoundCount() int { return g.roundCount }

// TieCount returns the number of rounds that needed a tie-break
func (g *Game) TieCount() int { return g.tieCount }

// CategoryChoices returns how often each category was chosen
func (g *Game) CategoryChoices() map[string]int {
	return maps.Clone(g.categoryChoices)
}

// CheckConservation verifies that the hands plus inFlight hold every card
// exactly once.
func (g *Game) CheckConservation(inFlight ...deck.Card) error {
	seen := make(map[int]bool, g.totalCards)
	count := 0
	check := func(card deck.Card, where string) error {
		if seen[card.ID] {
			return fmt.Errorf("%w: card %q (id %d) duplicated in %s", ErrConservation, card.Name, card.ID, where)
		}
		seen[card.ID] = true
		count++
		return nil
	}

	for _, p := range g.players {
		for _, card := range p.hand {
			if err := check(card, p.Name); err != nil {
				return err
			}
		}
	}
	for _, card := range inFlight {
		if err := check(card, "pot"); err != nil {
			return err
		}
	}

	if count != g.totalCards {
		return fmt.Errorf("%w: counted %d cards, want %d", ErrConservation, count, g.totalCards)
	}
	return nil
}

// mostCards picks the player with the largest hand. Equal hands go to the
// earliest player in the slice.
func mostCards(players []*Player) *Player {
	var best *Player
	for _, p := range players {
		if best == nil || p.CardCount() > best.CardCount() {
			best = p
		}
	}
	return best
}
