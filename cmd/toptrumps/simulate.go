package main

import (
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/toptrumps/internal/config"
	"github.com/lox/toptrumps/internal/deck"
	"github.com/lox/toptrumps/internal/fileutil"
	"github.com/lox/toptrumps/internal/game"
	"github.com/lox/toptrumps/internal/metrics"
	"github.com/lox/toptrumps/internal/randutil"
	"github.com/lox/toptrumps/internal/simulator"
)

type SimulateCmd struct {
	Games       int           `short:"n" help:"Number of games to play (overrides config)"`
	Players     int           `short:"p" help:"Number of players (overrides config)"`
	Concurrency int           `short:"j" help:"Games played in parallel (overrides config)"`
	Cards       string        `type:"existingfile" help:"Card-set JSON file (overrides config)"`
	Seed        *int64        `help:"Base random seed for a reproducible run (overrides config)"`
	Timeout     time.Duration `help:"Per-game timeout (overrides config)"`
	MetricsFile string        `help:"Write Prometheus metrics to this file in textfile format"`
	Report      string        `help:"Write per-game results to this JSON file"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	logger, err := globals.logger()
	if err != nil {
		return err
	}
	globals.setupOutput()

	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	d, err := cfg.LoadDeck()
	if err != nil {
		return err
	}
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}

	seed := randutil.TimeSeed()
	if cfg.Simulation.Seed != nil {
		seed = *cfg.Simulation.Seed
	}

	collector := metrics.NewCollector()
	sim := simulator.New(simulator.Config{
		Games:       cfg.Simulation.Games,
		Players:     cfg.Game.Players,
		Concurrency: cfg.Simulation.Concurrency,
		Seed:        seed,
		Timeout:     timeout,
		Deck:        d,
		Synth:       cfg.SynthOptions(),
		Game:        cfg.GameConfig(),
		Logger:      logger,
		Clock:       quartz.NewReal(),
		Subscribers: []game.EventSubscriber{collector},
	})

	ctx, cancel := notifyContext(globals.context(), logger)
	defer cancel()

	logger.Info("Starting simulation",
		"games", cfg.Simulation.Games,
		"players", cfg.Game.Players,
		"concurrency", cfg.Simulation.Concurrency,
		"seed", seed)

	start := time.Now()
	report, err := sim.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	elapsed := time.Since(start)

	renderSimulation(globals.stdout, report, game.PlayerNames(cfg.Game.Players), deckSummary(cfg, d), elapsed)

	if c.MetricsFile != "" {
		if err := collector.WriteTextfile(c.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Info("Wrote metrics", "file", c.MetricsFile)
	}
	if c.Report != "" {
		if err := fileutil.WriteJSONAtomic(c.Report, report, 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		logger.Info("Wrote report", "file", c.Report, "games", len(report.Games))
	}
	return nil
}

func (c *SimulateCmd) applyOverrides(cfg *config.Config) {
	if c.Games > 0 {
		cfg.Simulation.Games = c.Games
	}
	if c.Players > 0 {
		cfg.Game.Players = c.Players
	}
	if c.Concurrency > 0 {
		cfg.Simulation.Concurrency = c.Concurrency
	}
	if c.Cards != "" {
		cfg.Deck.File = c.Cards
	}
	if c.Seed != nil {
		seed := *c.Seed
		cfg.Simulation.Seed = &seed
	}
	if c.Timeout > 0 {
		cfg.Simulation.Timeout = c.Timeout.String()
	}
}

// deckSummary describes the deck a run uses, for the report header
func deckSummary(cfg *config.Config, d *deck.Deck) string {
	if d != nil {
		return fmt.Sprintf("%s (%d cards, %d categories)", cfg.Deck.File, d.Len(), d.Categories().Len())
	}
	opts := cfg.SynthOptions()
	return fmt.Sprintf("generated (%d cards, %d categories, scores %d-%d)", opts.Size, opts.Categories, opts.MinScore, opts.MaxScore)
}
