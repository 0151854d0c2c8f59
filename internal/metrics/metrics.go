// Package metrics exposes game activity as Prometheus collectors. A Collector
// subscribes to game events, so one instance can observe many concurrent
// games.
package metrics

import (
	"github.com/lox/toptrumps/internal/game"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector counts rounds, ties and game outcomes from game events
type Collector struct {
	registry *prometheus.Registry

	Rounds          prometheus.Counter
	CategoryChoices *prometheus.CounterVec
	Ties            prometheus.Counter
	TieIterations   prometheus.Counter
	LoopBreaks      prometheus.Counter
	SafetyLimits    *prometheus.CounterVec
	Games           *prometheus.CounterVec
	GameRounds      prometheus.Histogram
}

// NewCollector creates a collector registered on its own registry
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toptrumps_rounds_total",
			Help: "Total rounds played",
		}),
		CategoryChoices: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toptrumps_category_choices_total",
				Help: "Rounds played per chosen category",
			},
			[]string{"category"},
		),
		Ties: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toptrumps_ties_total",
			Help: "Rounds that needed a tie-break",
		}),
		TieIterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toptrumps_tie_iterations_total",
			Help: "Tie-break iterations across all rounds",
		}),
		LoopBreaks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toptrumps_tie_loop_breaks_total",
			Help: "Repeated tie states broken with a random category",
		}),
		SafetyLimits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toptrumps_safety_limits_total",
				Help: "Safety limits triggered, by limit",
			},
			[]string{"limit"},
		),
		Games: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toptrumps_games_total",
				Help: "Games finished, by outcome",
			},
			[]string{"outcome"},
		),
		GameRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "toptrumps_game_rounds",
			Help:    "Rounds per finished game",
			Buckets: prometheus.ExponentialBuckets(8, 2, 8),
		}),
	}

	c.registry.MustRegister(
		c.Rounds,
		c.CategoryChoices,
		c.Ties,
		c.TieIterations,
		c.LoopBreaks,
		c.SafetyLimits,
		c.Games,
		c.GameRounds,
	)
	return c
}

// Registry returns the registry holding the collector's metrics
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// OnEvent implements game.EventSubscriber
func (c *Collector) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.CategoryChosenEvent:
		c.Rounds.Inc()
		c.CategoryChoices.WithLabelValues(e.Category).Inc()
	case game.TieEvent:
		c.Ties.Inc()
	case game.TieIterationEvent:
		c.TieIterations.Inc()
	case game.LoopDetectedEvent:
		c.LoopBreaks.Inc()
	case game.SafetyLimitEvent:
		c.SafetyLimits.WithLabelValues(string(e.Limit)).Inc()
	case game.GameOverEvent:
		c.Games.WithLabelValues(string(e.Outcome)).Inc()
		c.GameRounds.Observe(float64(e.Rounds))
	}
}

// WriteTextfile writes every metric in the text exposition format, for the
// node exporter textfile collector
func (c *Collector) WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, c.registry)
}
