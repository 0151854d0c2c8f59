package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/toptrumps/internal/game"
	"github.com/lox/toptrumps/internal/simulator"
	"github.com/lox/toptrumps/internal/statistics"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	winStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func line(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label+":")), value)
}

// renderGameResult prints the outcome of a single game
func renderGameResult(w io.Writer, r *game.Result, seed int64) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("=== GAME OVER ==="))

	if r.Authoritative() {
		line(w, "Winner", winStyle.Render(r.WinnerName))
	} else {
		line(w, "Leader", warnStyle.Render(r.WinnerName)+dimStyle.Render(" (not authoritative)"))
		line(w, "Stopped", warnStyle.Render(r.Err().Error()))
	}
	line(w, "Game", r.GameID)
	line(w, "Seed", fmt.Sprintf("%d", seed))
	line(w, "Rounds", fmt.Sprintf("%d", r.Rounds))
	line(w, "Ties", fmt.Sprintf("%d (%d iterations, %d capped, %d loops broken)",
		r.Ties, r.TieIterations, r.TieCapTriggers, r.LoopBreaks))
	line(w, "Final cards", joinInts(r.FinalCounts))
}

// renderSimulation prints the aggregated results of a simulation run
func renderSimulation(w io.Writer, report *simulator.Report, names []string, deck string, elapsed time.Duration) {
	stats := report.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("=== %d GAMES, %d PLAYERS ===", stats.Games, report.Players)))
	line(w, "Seed", fmt.Sprintf("%d", report.Seed))
	line(w, "Deck", deck)
	line(w, "Elapsed", elapsed.Round(time.Millisecond).String())
	line(w, "Per game", stats.MeanDuration().String())

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("=== OUTCOMES ==="))
	line(w, "Won outright", fmt.Sprintf("%d (%.1f%%)", stats.Outcomes[statistics.OutcomeWin], stats.AuthoritativeRate()*100))
	if n := stats.Outcomes[statistics.OutcomeSafetyLimit]; n > 0 {
		line(w, "Round cap", warnStyle.Render(fmt.Sprintf("%d", n)))
	}
	if n := stats.Outcomes[statistics.OutcomeAborted]; n > 0 {
		line(w, "Aborted", warnStyle.Render(fmt.Sprintf("%d", n)))
	}
	for seat, name := range names {
		value := fmt.Sprintf("%d wins (%.1f%%)", stats.Wins[seat], stats.WinRate(seat)*100)
		if stats.Leads[seat] > 0 {
			value += dimStyle.Render(fmt.Sprintf(", led %d stopped games", stats.Leads[seat]))
		}
		line(w, name, value)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("=== ROUNDS ==="))
	line(w, "Mean", fmt.Sprintf("%.1f (95%% CI %.1f-%.1f)", stats.Mean(), low, high))
	line(w, "Median", fmt.Sprintf("%.1f", stats.Median()))
	line(w, "Std dev", fmt.Sprintf("%.1f", stats.StdDev()))
	line(w, "Percentiles", fmt.Sprintf("P5=%.0f P25=%.0f P75=%.0f P95=%.0f",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95)))
	line(w, "Longest", fmt.Sprintf("%d rounds (seed %d)", stats.LongestRounds, stats.LongestSeed))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("=== TIES ==="))
	line(w, "Tied rounds", fmt.Sprintf("%d (%.1f%% of rounds)", stats.Ties, stats.TieRate()*100))
	line(w, "Iterations", fmt.Sprintf("%d", stats.TieIterations))
	line(w, "Capped", fmt.Sprintf("%d", stats.TieCapTriggers))
	line(w, "Loops broken", fmt.Sprintf("%d", stats.LoopBreaks))
	if stats.Recoveries > 0 {
		line(w, "Recoveries", warnStyle.Render(fmt.Sprintf("%d", stats.Recoveries)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("=== CATEGORIES ==="))
	for _, category := range stats.CategoryRanking() {
		n := stats.CategoryChoices[category]
		line(w, category, fmt.Sprintf("%d (%.1f%%)", n, float64(n)/stats.SumRounds*100))
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, " / ")
}
