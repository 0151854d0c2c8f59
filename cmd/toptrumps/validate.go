package main

import (
	"fmt"
	"strings"

	"github.com/lox/toptrumps/internal/deck"
)

type ValidateCmd struct {
	Cards []string `arg:"" optional:"" type:"existingfile" help:"Card-set JSON files (defaults to the config's deck file)"`
}

func (c *ValidateCmd) Run(globals *Globals) error {
	globals.setupOutput()

	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(globals.stdout, "%s %s: %v\n", warnStyle.Render("✗"), globals.Config, err)
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Fprintf(globals.stdout, "%s %s\n", winStyle.Render("✓"), globals.Config)

	files := c.Cards
	if len(files) == 0 && cfg.Deck.File != "" {
		files = []string{cfg.Deck.File}
	}

	invalid := 0
	for _, file := range files {
		d, err := deck.LoadFile(file)
		if err != nil {
			invalid++
			fmt.Fprintf(globals.stdout, "%s %s: %v\n", warnStyle.Render("✗"), file, err)
			continue
		}
		fmt.Fprintf(globals.stdout, "%s %s: %d cards, categories %s\n",
			winStyle.Render("✓"), file, d.Len(), strings.Join(d.Categories().Names(), ", "))
		if d.Len() < cfg.Game.Players {
			fmt.Fprintf(globals.stdout, "  %s\n", warnStyle.Render(
				fmt.Sprintf("only %d cards for %d configured players", d.Len(), cfg.Game.Players)))
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d card sets invalid", invalid, len(files))
	}
	return nil
}
