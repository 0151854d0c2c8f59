package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/lox/toptrumps/internal/config"
	"github.com/lox/toptrumps/internal/simulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGlobals(t *testing.T) (*Globals, *bytes.Buffer) {
	t.Helper()
	var stdout bytes.Buffer
	return &Globals{
		Config:   filepath.Join(t.TempDir(), "missing.hcl"),
		LogLevel: "error",
		NoColor:  true,
		ctx:      context.Background(),
		stdout:   &stdout,
		stderr:   io.Discard,
	}, &stdout
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return filename
}

const cardSet = `[
	{"name": "Falcon", "categories": {"speed": 9, "power": 4, "range": 6}},
	{"name": "Tiger",  "categories": {"speed": 7, "power": 8, "range": 2}},
	{"name": "Whale",  "categories": {"speed": 2, "power": 10, "range": 9}},
	{"name": "Hare",   "categories": {"speed": 8, "power": 1, "range": 3}},
	{"name": "Eagle",  "categories": {"speed": 8, "power": 3, "range": 10}},
	{"name": "Bear",   "categories": {"speed": 4, "power": 9, "range": 4}}
]`

func TestCLI_Parse(t *testing.T) {
	t.Setenv("TOPTRUMPS_LOG_LEVEL", "debug")

	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test", "config_file": config.DefaultFile})
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"simulate", "-n", "50", "-p", "3", "--seed", "9", "--timeout", "2s", "--report", "out.json"})
	require.NoError(t, err)

	assert.Equal(t, "simulate", ctx.Command())
	assert.Equal(t, config.DefaultFile, cli.Config)
	assert.Equal(t, "debug", cli.LogLevel)
	assert.Equal(t, 50, cli.Simulate.Games)
	assert.Equal(t, 3, cli.Simulate.Players)
	require.NotNil(t, cli.Simulate.Seed)
	assert.Equal(t, int64(9), *cli.Simulate.Seed)
	assert.Equal(t, "2s", cli.Simulate.Timeout.String())
	assert.Equal(t, "out.json", cli.Simulate.Report)

	_, err = parser.Parse([]string{"play", "--log-level", "loud"})
	assert.Error(t, err)
}

func TestPlayCmd_Run(t *testing.T) {
	globals, stdout := testGlobals(t)
	seed := int64(7)

	cmd := &PlayCmd{Players: 3, Seed: &seed}
	require.NoError(t, cmd.Run(globals))

	out := stdout.String()
	assert.Contains(t, out, "Round 1:")
	assert.Contains(t, out, "=== GAME OVER ===")
	assert.Contains(t, out, "Seed:")
}

func TestPlayCmd_QuietWithCardFile(t *testing.T) {
	globals, stdout := testGlobals(t)
	seed := int64(3)

	cmd := &PlayCmd{Players: 2, Seed: &seed, Cards: writeFile(t, "cards.json", cardSet), Quiet: true}
	require.NoError(t, cmd.Run(globals))

	out := stdout.String()
	assert.NotContains(t, out, "Round 1:")
	assert.Contains(t, out, "=== GAME OVER ===")
}

func TestPlayCmd_GameID(t *testing.T) {
	seed := int64(5)

	globals, stdout := testGlobals(t)
	cmd := &PlayCmd{Players: 2, Seed: &seed, Quiet: true, GameID: "g0123456789abcdefghjkmn"}
	require.NoError(t, cmd.Run(globals))
	assert.Contains(t, stdout.String(), "g0123456789abcdefghjkmn")

	globals, _ = testGlobals(t)
	cmd = &PlayCmd{Players: 2, Seed: &seed, Quiet: true, GameID: "game-1"}
	err := cmd.Run(globals)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--game-id")
}

func TestPlayCmd_InvalidConfig(t *testing.T) {
	globals, _ := testGlobals(t)
	cmd := &PlayCmd{Players: 40}
	assert.Error(t, cmd.Run(globals))
}

func TestSimulateCmd_Run(t *testing.T) {
	globals, stdout := testGlobals(t)
	dir := t.TempDir()
	seed := int64(42)

	cmd := &SimulateCmd{
		Games:       8,
		Players:     4,
		Concurrency: 2,
		Seed:        &seed,
		MetricsFile: filepath.Join(dir, "toptrumps.prom"),
		Report:      filepath.Join(dir, "report.json"),
	}
	require.NoError(t, cmd.Run(globals))

	out := stdout.String()
	assert.Contains(t, out, "=== 8 GAMES, 4 PLAYERS ===")
	assert.Contains(t, out, "=== CATEGORIES ===")
	assert.Contains(t, out, "Player 4")

	data, err := os.ReadFile(cmd.Report)
	require.NoError(t, err)
	var report simulator.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, int64(42), report.Seed)
	assert.Len(t, report.Games, 8)

	prom, err := os.ReadFile(cmd.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "toptrumps_games_total")
}

func TestSimulateCmd_UsesConfigFile(t *testing.T) {
	globals, stdout := testGlobals(t)
	globals.Config = writeFile(t, "toptrumps.hcl", `
game {
  players = 2
}
simulation {
  games = 3
  seed  = 5
}
`)

	require.NoError(t, (&SimulateCmd{}).Run(globals))
	assert.Contains(t, stdout.String(), "=== 3 GAMES, 2 PLAYERS ===")
}

func TestValidateCmd_Run(t *testing.T) {
	t.Run("valid card set", func(t *testing.T) {
		globals, stdout := testGlobals(t)
		cmd := &ValidateCmd{Cards: []string{writeFile(t, "cards.json", cardSet)}}
		require.NoError(t, cmd.Run(globals))
		assert.Contains(t, stdout.String(), "6 cards, categories speed, power, range")
	})

	t.Run("mismatched categories", func(t *testing.T) {
		globals, stdout := testGlobals(t)
		bad := writeFile(t, "bad.json", `[
			{"name": "A", "categories": {"speed": 1, "power": 2}},
			{"name": "B", "categories": {"power": 2, "speed": 1}}
		]`)
		cmd := &ValidateCmd{Cards: []string{bad}}
		assert.Error(t, cmd.Run(globals))
		assert.Contains(t, stdout.String(), "record 1")
	})

	t.Run("invalid config", func(t *testing.T) {
		globals, _ := testGlobals(t)
		globals.Config = writeFile(t, "toptrumps.hcl", "game {\n  players = 1\n}\n")
		assert.Error(t, (&ValidateCmd{}).Run(globals))
	})
}
