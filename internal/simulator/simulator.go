package simulator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/toptrumps/internal/deck"
	"github.com/lox/toptrumps/internal/game"
	"github.com/lox/toptrumps/internal/gameid"
	"github.com/lox/toptrumps/internal/randutil"
	"github.com/lox/toptrumps/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Games       int
	Players     int
	Concurrency int
	Seed        int64
	Timeout     time.Duration // Per game; zero disables it

	// Deck is dealt in every game. When nil each game synthesises its own
	// deck from Synth with the game's seed.
	Deck  *deck.Deck
	Synth deck.SynthOptions

	Game        game.Config
	Logger      *log.Logger
	Clock       quartz.Clock
	Subscribers []game.EventSubscriber // Receive every game's events, possibly concurrently
}

// Validate checks the configuration can run
func (c Config) Validate() error {
	if c.Games < 1 {
		return fmt.Errorf("games must be positive, got %d", c.Games)
	}
	if c.Players < 2 {
		return fmt.Errorf("at least 2 players required, got %d", c.Players)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %v", c.Timeout)
	}
	if c.Deck == nil && c.Synth.Size < c.Players {
		return fmt.Errorf("%d players need at least %d cards, deck size is %d", c.Players, c.Players, c.Synth.Size)
	}
	if c.Deck != nil && c.Deck.Len() < c.Players {
		return fmt.Errorf("%d players need at least %d cards, deck has %d", c.Players, c.Players, c.Deck.Len())
	}
	return c.Game.Validate()
}

// GameRecord is the outcome of one simulated game, as written to reports
type GameRecord struct {
	Index           int            `json:"index"`
	GameID          string         `json:"game_id"`
	Seed            int64          `json:"seed"`
	Winner          string         `json:"winner"`
	WinnerSeat      int            `json:"winner_seat"`
	Outcome         game.Outcome   `json:"outcome"`
	Reason          string         `json:"reason,omitempty"`
	Rounds          int            `json:"rounds"`
	Ties            int            `json:"ties"`
	TieIterations   int            `json:"tie_iterations"`
	TieCapTriggers  int            `json:"tie_cap_triggers"`
	LoopBreaks      int            `json:"loop_breaks"`
	Recoveries      int            `json:"recoveries"`
	CategoryChoices map[string]int `json:"category_choices"`
	FinalCounts     []int          `json:"final_counts"`
	Duration        time.Duration  `json:"duration_ns"`
}

// Report is the result of a simulation run
type Report struct {
	Seed    int64                  `json:"seed"`
	Players int                    `json:"players"`
	Games   []GameRecord           `json:"games"`
	Stats   *statistics.Statistics `json:"-"`
}

// Simulator runs many independent Top Trumps games
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration. A nil Logger
// discards output and a nil Clock uses the real clock.
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	return &Simulator{config: config}
}

// Run plays every game and aggregates the results. Games run concurrently,
// but each game's seed depends only on the base seed and its index, so a
// run is reproducible regardless of scheduling.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	records := make([]GameRecord, s.config.Games)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.config.Concurrency)

	for i := range s.config.Games {
		eg.Go(func() error {
			record, err := s.playGame(ctx, i)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i+1, record.Seed, err)
			}
			records[i] = record
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	stats := statistics.New(s.config.Players)
	for _, r := range records {
		stats.Add(statistics.GameResult{
			Seed:            r.Seed,
			Winner:          r.WinnerSeat,
			Outcome:         string(r.Outcome),
			Rounds:          r.Rounds,
			Ties:            r.Ties,
			TieIterations:   r.TieIterations,
			TieCapTriggers:  r.TieCapTriggers,
			LoopBreaks:      r.LoopBreaks,
			Recoveries:      r.Recoveries,
			CategoryChoices: r.CategoryChoices,
			Duration:        r.Duration,
		})
	}

	// Validate statistics before returning
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	return &Report{
		Seed:    s.config.Seed,
		Players: s.config.Players,
		Games:   records,
		Stats:   stats,
	}, nil
}

// playGame deals and plays the index-th game under its own seed and timeout
func (s *Simulator) playGame(ctx context.Context, index int) (GameRecord, error) {
	seed := randutil.Derive(s.config.Seed, index)
	record := GameRecord{Index: index, Seed: seed}
	rng := randutil.New(seed)

	d := s.config.Deck
	if d == nil {
		var err error
		if d, err = deck.Synthesize(rng, s.config.Synth); err != nil {
			return record, err
		}
	}

	// IDs come from their own stream so they never perturb the game
	now := func() time.Time { return s.config.Clock.Now() }
	ids := gameid.NewGenerator(now, randutil.New(^seed))
	record.GameID = ids.Generate()

	bus := game.NewEventBus()
	for _, sub := range s.config.Subscribers {
		bus.Subscribe(sub)
	}

	g, err := game.Deal(rng, d, game.PlayerNames(s.config.Players),
		game.WithConfig(s.config.Game),
		game.WithEventBus(bus),
		game.WithLogger(s.config.Logger),
		game.WithID(record.GameID),
	)
	if err != nil {
		return record, err
	}

	gameCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.config.Timeout > 0 {
		timer := s.config.Clock.AfterFunc(s.config.Timeout, cancel)
		defer timer.Stop()
	}

	start := s.config.Clock.Now()
	result, err := game.NewGameEngine(g, s.config.Logger).Play(gameCtx)
	if err != nil {
		return record, err
	}
	record.Duration = s.config.Clock.Since(start)

	// A cancelled parent fails the run; a fired timeout only aborts this game
	if result.Outcome == game.OutcomeAborted && ctx.Err() != nil {
		return record, ctx.Err()
	}
	if result.Outcome == game.OutcomeAborted && gameCtx.Err() != nil {
		s.config.Logger.Warn("Game timed out",
			"gameID", record.GameID,
			"seed", seed,
			"timeout", s.config.Timeout,
			"rounds", result.Rounds)
	}

	record.Winner = result.WinnerName
	record.WinnerSeat = int(result.Winner)
	record.Outcome = result.Outcome
	record.Reason = result.Reason
	record.Rounds = result.Rounds
	record.Ties = result.Ties
	record.TieIterations = result.TieIterations
	record.TieCapTriggers = result.TieCapTriggers
	record.LoopBreaks = result.LoopBreaks
	record.Recoveries = result.Recoveries
	record.CategoryChoices = result.CategoryChoices
	record.FinalCounts = result.FinalCounts

	s.config.Logger.Debug("Game finished",
		"gameID", record.GameID,
		"index", index,
		"outcome", result.Outcome,
		"winner", result.WinnerName,
		"rounds", result.Rounds)
	return record, nil
}
