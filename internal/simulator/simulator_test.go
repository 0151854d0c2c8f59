package simulator

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/toptrumps/internal/deck"
	"github.com/lox/toptrumps/internal/game"
	"github.com/lox/toptrumps/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	return Config{
		Games:       20,
		Players:     4,
		Concurrency: 4,
		Seed:        12345,
		Timeout:     5 * time.Second,
		Synth:       deck.DefaultSynthOptions(),
		Game:        game.DefaultConfig(),
		Logger:      log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
		Clock:       quartz.NewMock(t),
	}
}

// sequentialDeck has one category and distinct scores, so rounds never tie
func sequentialDeck(t *testing.T, size int) *deck.Deck {
	cats, err := deck.NewCategories("speed")
	require.NoError(t, err)
	cards := make([]deck.Card, size)
	for i := range cards {
		card, err := deck.NewCard(i, string(rune('A'+i)), cats, []int{i + 1})
		require.NoError(t, err)
		cards[i] = card
	}
	d, err := deck.New(cats, cards)
	require.NoError(t, err)
	return d
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"no games", func(c *Config) { c.Games = 0 }},
		{"one player", func(c *Config) { c.Players = 1 }},
		{"no concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"synthetic deck too small", func(c *Config) { c.Synth.Size = 3 }},
		{"bad game caps", func(c *Config) { c.Game.MaxRounds = 0 }},
	}

	require.NoError(t, testConfig(t).Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())

			_, err := New(cfg).Run(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestSimulator_Run(t *testing.T) {
	cfg := testConfig(t)
	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Games, cfg.Games)
	assert.Equal(t, cfg.Seed, report.Seed)
	assert.Equal(t, cfg.Players, report.Players)
	assert.Equal(t, cfg.Games, report.Stats.Games)
	require.NoError(t, report.Stats.Validate())

	seeds := make(map[int64]bool)
	for i, r := range report.Games {
		assert.Equal(t, i, r.Index)
		assert.NotEmpty(t, r.GameID)
		assert.False(t, seeds[r.Seed], "seed %d reused", r.Seed)
		seeds[r.Seed] = true

		total := 0
		for _, n := range r.FinalCounts {
			total += n
		}
		assert.Equal(t, 28, total, "game %d lost cards", i)
		assert.LessOrEqual(t, r.Rounds, cfg.Game.MaxRounds)
		if r.Outcome == game.OutcomeWin {
			assert.Equal(t, 28, r.FinalCounts[r.WinnerSeat])
		}
	}
}

func TestSimulator_Reproducible(t *testing.T) {
	cfg := testConfig(t)
	first, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	cfg.Concurrency = 1
	second, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Games, second.Games)
	assert.Equal(t, first.Stats, second.Stats)

	cfg.Seed++
	third, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.Games, third.Games)
}

func TestSimulator_FixedDeck(t *testing.T) {
	cfg := testConfig(t)
	cfg.Deck = sequentialDeck(t, 8)
	cfg.Players = 2
	cfg.Games = 5

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	for _, r := range report.Games {
		assert.Equal(t, 0, r.Ties, "distinct scores cannot tie")
		assert.Equal(t, map[string]int{"speed": r.Rounds}, r.CategoryChoices)
	}
}

func TestSimulator_TimeoutAbortsGame(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mClock := quartz.NewMock(t)
	cfg := testConfig(t)
	cfg.Clock = mClock
	cfg.Timeout = time.Second
	cfg.Deck = sequentialDeck(t, 8)
	cfg.Players = 2
	cfg.Games = 1
	cfg.Concurrency = 1

	// Expire the game's timer as soon as the first round is settled
	var once sync.Once
	cfg.Subscribers = []game.EventSubscriber{game.EventSubscriberFunc(func(e game.GameEvent) {
		if e.EventType() == game.EventTypeRoundWon {
			once.Do(func() { mClock.Advance(time.Second).MustWait(ctx) })
		}
	})}

	report, err := New(cfg).Run(ctx)
	require.NoError(t, err)

	r := report.Games[0]
	assert.Equal(t, game.OutcomeAborted, r.Outcome)
	assert.Equal(t, 1, r.Rounds)
	assert.Equal(t, time.Second, r.Duration)
	assert.Equal(t, 1, report.Stats.Outcomes["aborted"])
}

func TestSimulator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(t)).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulator_FeedsMetrics(t *testing.T) {
	collector := metrics.NewCollector()
	cfg := testConfig(t)
	cfg.Subscribers = []game.EventSubscriber{collector}

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	games := 0.0
	for _, outcome := range []game.Outcome{game.OutcomeWin, game.OutcomeSafetyLimit, game.OutcomeAborted} {
		games += testutil.ToFloat64(collector.Games.WithLabelValues(string(outcome)))
	}
	assert.Equal(t, float64(cfg.Games), games)
	assert.Equal(t, report.Stats.SumRounds, testutil.ToFloat64(collector.Rounds))
	assert.Equal(t, float64(report.Stats.Ties), testutil.ToFloat64(collector.Ties))
}

func TestNew_Defaults(t *testing.T) {
	sim := New(Config{})
	assert.NotNil(t, sim.config.Logger)
	assert.NotNil(t, sim.config.Clock)
}
