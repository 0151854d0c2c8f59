package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/toptrumps/internal/config"
	"github.com/lox/toptrumps/internal/deck"
	"github.com/lox/toptrumps/internal/game"
	"github.com/lox/toptrumps/internal/gameid"
	"github.com/lox/toptrumps/internal/randutil"
)

type PlayCmd struct {
	Players      int    `short:"p" help:"Number of players (overrides config)"`
	Cards        string `type:"existingfile" help:"Card-set JSON file (overrides config)"`
	Seed         *int64 `help:"Random seed for a reproducible game"`
	GameID       string `name:"game-id" help:"Label the game with this ID instead of a generated one"`
	MaxRounds    int    `help:"Stop after this many rounds (overrides config)"`
	ShowCards    bool   `help:"Show every revealed card's full scores"`
	ShowTieSteps bool   `help:"Narrate each tie-break iteration"`
	Quiet        bool   `short:"q" help:"Only print the final result"`
}

func (c *PlayCmd) Run(globals *Globals) error {
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

	id := c.GameID
	if id == "" {
		id = gameid.Generate()
	} else if err := gameid.Validate(id); err != nil {
		return fmt.Errorf("invalid --game-id: %w", err)
	}

	seed := randutil.TimeSeed()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)

	d, err := cfg.LoadDeck()
	if err != nil {
		return err
	}
	if d == nil {
		if d, err = deck.Synthesize(rng, cfg.SynthOptions()); err != nil {
			return err
		}
	}

	bus := game.NewEventBus()
	if !c.Quiet {
		narrator := log.NewWithOptions(globals.stdout, log.Options{Level: log.InfoLevel})
		bus.Subscribe(game.NewNarrationSubscriber(narrator, game.FormattingOptions{
			ShowCards:    c.ShowCards,
			ShowTieSteps: c.ShowTieSteps,
		}))
	}

	g, err := game.Deal(rng, d, game.PlayerNames(cfg.Game.Players),
		game.WithConfig(cfg.GameConfig()),
		game.WithEventBus(bus),
		game.WithLogger(logger),
		game.WithID(id),
	)
	if err != nil {
		return err
	}

	ctx, cancel := notifyContext(globals.context(), logger)
	defer cancel()

	logger.Debug("Starting game", "id", id, "seed", seed, "players", cfg.Game.Players, "cards", d.Len())
	result, err := game.NewGameEngine(g, logger).Play(ctx)
	if err != nil {
		return err
	}

	renderGameResult(globals.stdout, result, seed)
	return nil
}

func (c *PlayCmd) applyOverrides(cfg *config.Config) {
	if c.Players > 0 {
		cfg.Game.Players = c.Players
	}
	if c.Cards != "" {
		cfg.Deck.File = c.Cards
	}
	if c.MaxRounds > 0 {
		cfg.Game.MaxRounds = c.MaxRounds
	}
}
