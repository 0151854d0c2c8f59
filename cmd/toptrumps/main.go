package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/lox/toptrumps/internal/config"
	"github.com/muesli/termenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"${config_file}" env:"TOPTRUMPS_CONFIG" help:"HCL config file (defaults apply when missing)"`
	LogLevel string `default:"info" enum:"debug,info,warn,error" env:"TOPTRUMPS_LOG_LEVEL" help:"Log level (debug|info|warn|error)"`
	NoColor  bool   `env:"NO_COLOR" help:"Disable colored output"`

	ctx    context.Context `kong:"-"`
	stdout io.Writer       `kong:"-"`
	stderr io.Writer       `kong:"-"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play one narrated game"`
	Simulate SimulateCmd      `cmd:"" help:"Play many games and summarise the results"`
	Validate ValidateCmd      `cmd:"" help:"Check a card-set file and the config file"`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	cli := CLI{Globals: Globals{stdout: os.Stdout, stderr: os.Stderr}}
	ctx := kong.Parse(&cli,
		kong.Name("toptrumps"),
		kong.Description("Top Trumps card game simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// logger builds the diagnostic logger on stderr
func (g *Globals) logger() (*log.Logger, error) {
	level, err := log.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", g.LogLevel, err)
	}
	return log.NewWithOptions(g.stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	}), nil
}

// setupOutput applies --no-color to lipgloss rendering
func (g *Globals) setupOutput() {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// loadConfig reads the config file and validates it
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", g.Config, err)
	}
	return cfg, nil
}

func (g *Globals) context() context.Context {
	if g.ctx != nil {
		return g.ctx
	}
	return context.Background()
}
