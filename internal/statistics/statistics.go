package statistics

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"
)

// Outcome kinds as reported by the game engine
const (
	OutcomeWin         = "win"
	OutcomeSafetyLimit = "safety_limit"
	OutcomeAborted     = "aborted"
)

// GameResult represents the outcome of a single simulated game
type GameResult struct {
	Seed            int64          // RNG seed for this game (for replay)
	Winner          int            // Seat of the winner, or of the leader when not authoritative
	Outcome         string         // win, safety_limit or aborted
	Rounds          int            // Rounds played
	Ties            int            // Rounds that needed a tie-break
	TieIterations   int            // Tie-break iterations across all rounds
	TieCapTriggers  int            // Ties settled by hand size
	LoopBreaks      int            // Looped tie states broken with a random category
	Recoveries      int            // Chooser re-selections
	CategoryChoices map[string]int // Rounds per chosen category
	Duration        time.Duration  // Wall time spent playing
}

// Statistics aggregates many game results
type Statistics struct {
	Games      int
	SumRounds  float64
	SumRounds2 float64   // Sum of squares for variance calculation
	Values     []float64 // Rounds per game for median/percentile calculation

	// Wins counts authoritative wins per seat; Leads counts the seats that
	// were ahead when a game stopped early.
	Wins  []int
	Leads []int

	Outcomes map[string]int

	Ties            int
	TieIterations   int
	TieCapTriggers  int
	LoopBreaks      int
	Recoveries      int
	CategoryChoices map[string]int

	TotalDuration time.Duration
	LongestRounds int   // Most rounds in a single game
	LongestSeed   int64 // Seed of that game
}

// New returns empty statistics for a table of the given size
func New(players int) *Statistics {
	return &Statistics{
		Wins:            make([]int, players),
		Leads:           make([]int, players),
		Outcomes:        make(map[string]int),
		CategoryChoices: make(map[string]int),
	}
}

// Add incorporates a new game result into the statistics
func (s *Statistics) Add(result GameResult) {
	if s.Outcomes == nil {
		s.Outcomes = make(map[string]int)
	}
	if s.CategoryChoices == nil {
		s.CategoryChoices = make(map[string]int)
	}
	for result.Winner >= len(s.Wins) {
		s.Wins = append(s.Wins, 0)
		s.Leads = append(s.Leads, 0)
	}

	rounds := float64(result.Rounds)
	s.Games++
	s.SumRounds += rounds
	s.SumRounds2 += rounds * rounds
	s.Values = append(s.Values, rounds)

	s.Outcomes[result.Outcome]++
	if result.Outcome == OutcomeWin {
		s.Wins[result.Winner]++
	} else {
		s.Leads[result.Winner]++
	}

	s.Ties += result.Ties
	s.TieIterations += result.TieIterations
	s.TieCapTriggers += result.TieCapTriggers
	s.LoopBreaks += result.LoopBreaks
	s.Recoveries += result.Recoveries
	for category, n := range result.CategoryChoices {
		s.CategoryChoices[category] += n
	}

	s.TotalDuration += result.Duration
	if result.Rounds > s.LongestRounds || s.Games == 1 {
		s.LongestRounds = result.Rounds
		s.LongestSeed = result.Seed
	}
}

// Mean returns the mean number of rounds per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumRounds / float64(s.Games)
}

// Variance returns the sample variance of rounds per game
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumRounds2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

// StdDev returns the sample standard deviation of rounds per game
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median number of rounds
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sortedValues()

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the round count at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sortedValues()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sortedValues() []float64 {
	sorted := slices.Clone(s.Values)
	sort.Float64s(sorted)
	return sorted
}

// WinRate returns the share of all games the seat won outright
func (s *Statistics) WinRate(seat int) float64 {
	if s.Games == 0 || seat < 0 || seat >= len(s.Wins) {
		return 0
	}
	return float64(s.Wins[seat]) / float64(s.Games)
}

// AuthoritativeRate returns the share of games that ended with one player
// holding every card
func (s *Statistics) AuthoritativeRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Outcomes[OutcomeWin]) / float64(s.Games)
}

// TieRate returns the share of rounds that needed a tie-break
func (s *Statistics) TieRate() float64 {
	if s.SumRounds == 0 {
		return 0
	}
	return float64(s.Ties) / s.SumRounds
}

// MeanDuration returns the average wall time per game
func (s *Statistics) MeanDuration() time.Duration {
	if s.Games == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Games)
}

// CategoryRanking returns the chosen categories, most chosen first and
// alphabetical on equal counts
func (s *Statistics) CategoryRanking() []string {
	categories := make([]string, 0, len(s.CategoryChoices))
	for category := range s.CategoryChoices {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		a, b := s.CategoryChoices[categories[i]], s.CategoryChoices[categories[j]]
		if a != b {
			return a > b
		}
		return categories[i] < categories[j]
	})
	return categories
}

// Validate performs consistency checks on the aggregated data
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}

	outcomes := 0
	for _, n := range s.Outcomes {
		outcomes += n
	}
	if outcomes != s.Games {
		return fmt.Errorf("outcome total (%d) does not match games count (%d)", outcomes, s.Games)
	}

	wins, leads := 0, 0
	for seat := range s.Wins {
		wins += s.Wins[seat]
		leads += s.Leads[seat]
	}
	if wins != s.Outcomes[OutcomeWin] {
		return fmt.Errorf("seat wins (%d) do not match authoritative outcomes (%d)", wins, s.Outcomes[OutcomeWin])
	}
	if wins+leads != s.Games {
		return fmt.Errorf("wins plus leads (%d) does not match games count (%d)", wins+leads, s.Games)
	}

	choices := 0
	for _, n := range s.CategoryChoices {
		choices += n
	}
	if float64(choices) != s.SumRounds {
		return fmt.Errorf("category choices (%d) do not match rounds played (%.0f)", choices, s.SumRounds)
	}

	if s.TieCapTriggers > s.Ties {
		return fmt.Errorf("tie cap triggers (%d) exceed ties (%d)", s.TieCapTriggers, s.Ties)
	}
	return nil
}
