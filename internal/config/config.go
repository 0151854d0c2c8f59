// Package config loads the optional toptrumps.hcl file that sets game caps,
// deck generation and simulation parameters.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/toptrumps/internal/deck"
	"github.com/lox/toptrumps/internal/game"
)

// DefaultFile is the config file looked up when none is given
const DefaultFile = "toptrumps.hcl"

// Config represents the complete toptrumps configuration
type Config struct {
	Game       *GameSettings       `hcl:"game,block"`
	Deck       *DeckSettings       `hcl:"deck,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// GameSettings contains the table size and safety caps
type GameSettings struct {
	Players             int  `hcl:"players,optional"`
	MaxRounds           int  `hcl:"max_rounds,optional"`
	MaxTieRounds        int  `hcl:"max_tie_rounds,optional"`
	RandomCategoryAfter *int `hcl:"random_category_after,optional"`
}

// DeckSettings selects a card-set file or the shape of a generated deck
type DeckSettings struct {
	File       string `hcl:"file,optional"`
	Size       int    `hcl:"size,optional"`
	Categories int    `hcl:"categories,optional"`
	MinScore   *int   `hcl:"min_score,optional"`
	MaxScore   *int   `hcl:"max_score,optional"`
}

// SimulationSettings contains batch run parameters
type SimulationSettings struct {
	Games       int    `hcl:"games,optional"`
	Concurrency int    `hcl:"concurrency,optional"`
	Timeout     string `hcl:"timeout,optional"`
	Seed        *int64 `hcl:"seed,optional"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	return decode(file, diags)
}

// Parse reads configuration from HCL source; filename is used in messages
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	return decode(file, diags)
}

func decode(file *hcl.File, diags hcl.Diagnostics) (*Config, error) {
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills every block and zero value not set in the file
func (c *Config) applyDefaults() {
	gameDefaults := game.DefaultConfig()
	synthDefaults := deck.DefaultSynthOptions()

	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.RandomCategoryAfter == nil {
		after := gameDefaults.RandomCategoryAfter
		c.Game.RandomCategoryAfter = &after
	}
	if c.Game.Players == 0 {
		c.Game.Players = 4
	}
	if c.Game.MaxRounds == 0 {
		c.Game.MaxRounds = gameDefaults.MaxRounds
	}
	if c.Game.MaxTieRounds == 0 {
		c.Game.MaxTieRounds = gameDefaults.MaxTieRounds
	}

	if c.Deck == nil {
		c.Deck = &DeckSettings{}
	}
	if c.Deck.Size == 0 {
		c.Deck.Size = synthDefaults.Size
	}
	if c.Deck.Categories == 0 {
		c.Deck.Categories = synthDefaults.Categories
	}
	if c.Deck.MinScore == nil {
		minScore := synthDefaults.MinScore
		c.Deck.MinScore = &minScore
	}
	if c.Deck.MaxScore == nil {
		maxScore := synthDefaults.MaxScore
		c.Deck.MaxScore = &maxScore
	}

	if c.Simulation == nil {
		c.Simulation = &SimulationSettings{}
	}
	if c.Simulation.Games == 0 {
		c.Simulation.Games = 10
	}
	if c.Simulation.Concurrency == 0 {
		c.Simulation.Concurrency = 4
	}
	if c.Simulation.Timeout == "" {
		c.Simulation.Timeout = "5s"
	}
}

// Validate checks ranges and cross-field constraints
func (c *Config) Validate() error {
	if err := c.GameConfig().Validate(); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if c.Game.Players < 2 {
		return fmt.Errorf("game: at least 2 players required, got %d", c.Game.Players)
	}

	if c.Deck.File == "" {
		if c.Deck.Size < c.Game.Players {
			return fmt.Errorf("deck: size %d is smaller than %d players", c.Deck.Size, c.Game.Players)
		}
		if c.Deck.Categories < 1 {
			return fmt.Errorf("deck: at least one category required, got %d", c.Deck.Categories)
		}
		if *c.Deck.MinScore > *c.Deck.MaxScore {
			return fmt.Errorf("deck: min_score %d is greater than max_score %d", *c.Deck.MinScore, *c.Deck.MaxScore)
		}
	}

	if c.Simulation.Games < 1 {
		return fmt.Errorf("simulation: games must be positive, got %d", c.Simulation.Games)
	}
	if c.Simulation.Concurrency < 1 {
		return fmt.Errorf("simulation: concurrency must be positive, got %d", c.Simulation.Concurrency)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	return nil
}

// GameConfig returns the game caps
func (c *Config) GameConfig() game.Config {
	return game.Config{
		MaxRounds:           c.Game.MaxRounds,
		MaxTieRounds:        c.Game.MaxTieRounds,
		RandomCategoryAfter: *c.Game.RandomCategoryAfter,
	}
}

// SynthOptions returns the shape of a generated deck
func (c *Config) SynthOptions() deck.SynthOptions {
	return deck.SynthOptions{
		Size:       c.Deck.Size,
		Categories: c.Deck.Categories,
		MinScore:   *c.Deck.MinScore,
		MaxScore:   *c.Deck.MaxScore,
	}
}

// TimeoutDuration parses the per-game simulation timeout. "0" disables it.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Simulation.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Simulation.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout cannot be negative, got %v", d)
	}
	return d, nil
}

// LoadDeck returns the configured card set: the deck file when set,
// otherwise nil so callers generate one per game from SynthOptions.
func (c *Config) LoadDeck() (*deck.Deck, error) {
	if c.Deck.File == "" {
		return nil, nil
	}
	d, err := deck.LoadFile(c.Deck.File)
	if err != nil {
		return nil, err
	}
	if d.Len() < c.Game.Players {
		return nil, fmt.Errorf("deck %s has %d cards, need at least %d for %d players", c.Deck.File, d.Len(), c.Game.Players, c.Game.Players)
	}
	return d, nil
}
