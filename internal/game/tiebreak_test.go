package game

import (
	"testing"

	"github.com/lox/toptrumps/internal/deck"
	"github.com/lox/toptrumps/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTieSignature(t *testing.T) {
	b := newHandBuilder(t, "speed")
	p1 := NewPlayer(0, "a", b.scores(1, 2))
	p2 := NewPlayer(3, "b", nil)

	sig := NewTieSignature([]*Player{p1, p2})
	assert.Equal(t, TieSignature("0:0;3:-1;"), sig)
	assert.Equal(t, sig, NewTieSignature([]*Player{p1, p2}))

	p1.PlayTopCard()
	assert.NotEqual(t, sig, NewTieSignature([]*Player{p1, p2}))
}

func TestBreakTie_RoundCapAwardsByHandSize(t *testing.T) {
	b := newHandBuilder(t, "speed")
	p1 := b.scores(5, 5, 5, 1)
	p2 := b.scores(5, 5, 5)
	g := b.game([][]deck.Card{p1, p2}, WithConfig(Config{MaxRounds: 10, MaxTieRounds: 2}))
	rec := recordEvents(g)

	result, err := g.PlayRound()
	require.NoError(t, err)

	assert.True(t, result.TieCapped)
	assert.Equal(t, 2, result.TieIterations)
	assert.Equal(t, PlayerID(0), result.Winner)
	assert.Equal(t, 6, result.PotSize)
	assert.Equal(t, 7, g.Players()[0].CardCount())

	limits := rec.ofType(EventTypeSafetyLimit)
	require.Len(t, limits, 1)
	assert.Equal(t, LimitMaxTieRounds, limits[0].(SafetyLimitEvent).Limit)
}

func TestBreakTie_EqualHandSizesGoToLowestID(t *testing.T) {
	b := newHandBuilder(t, "speed")
	g := b.game([][]deck.Card{b.scores(2), b.scores(5, 5, 5), b.scores(5, 5, 5)},
		WithConfig(Config{MaxRounds: 10, MaxTieRounds: 2}))

	result, err := g.PlayRound()
	require.NoError(t, err)

	assert.True(t, result.TieCapped)
	assert.Equal(t, PlayerID(1), result.Winner)
	assert.Equal(t, 7, g.Players()[1].CardCount())
	require.NoError(t, g.CheckConservation())
}

func TestBreakTie_AllTiedPlayersExhausted(t *testing.T) {
	b := newHandBuilder(t, "speed")
	g := b.game([][]deck.Card{b.scores(7), b.scores(7), b.scores(1, 1)})
	rec := recordEvents(g)

	result, err := g.PlayRound()
	require.NoError(t, err)

	assert.True(t, result.TieCapped)
	assert.Equal(t, 1, result.TieIterations)
	assert.Equal(t, PlayerID(0), result.Winner)
	assert.Equal(t, 3, g.Players()[0].CardCount())

	limits := rec.ofType(EventTypeSafetyLimit)
	require.Len(t, limits, 1)
	assert.Equal(t, LimitTieExhausted, limits[0].(SafetyLimitEvent).Limit)
}

func TestBreakTie_LoopDetectionForcesRandomCategory(t *testing.T) {
	b := newHandBuilder(t, "speed", "power")
	p1 := b.hand([]int{5, 0}, []int{1, 9})
	p2 := b.hand([]int{5, 0}, []int{1, 2})
	g := b.game([][]deck.Card{p1, p2})
	rec := recordEvents(g)

	// The state after the first reveal has been seen before
	seen := NewTieSignature([]*Player{NewPlayer(0, "", p1[1:]), NewPlayer(1, "", p2[1:])})
	g.tieHistory[seen] = struct{}{}

	result, err := g.PlayRound()
	require.NoError(t, err)

	assert.Equal(t, 1, result.LoopBreaks)
	assert.Equal(t, PlayerID(0), result.Winner)
	assert.Len(t, rec.ofType(EventTypeLoopDetected), 1)

	iterations := rec.ofType(EventTypeTieIteration)
	require.NotEmpty(t, iterations)
	assert.True(t, iterations[0].(TieIterationEvent).RandomCategory)
}

func TestBreakTie_TieStatesRememberedAcrossRounds(t *testing.T) {
	b := newHandBuilder(t, "speed")
	g := b.game([][]deck.Card{b.scores(5, 1), b.scores(5, 3)})

	_, err := g.PlayRound()
	require.NoError(t, err)

	require.Len(t, g.tieHistory, 1)
	assert.Contains(t, g.tieHistory, TieSignature("0:1;1:3;"))
	assert.True(t, g.seenTieState("0:1;1:3;"))
	assert.False(t, g.seenTieState("0:-1;1:-1;"))
}

func TestBreakTie_RandomCategoryAfterThreshold(t *testing.T) {
	b := newHandBuilder(t, "speed", "power")
	p1 := b.hand([]int{5, 5}, []int{3, 3}, []int{8, 1})
	p2 := b.hand([]int{5, 5}, []int{3, 3}, []int{1, 8})
	g := b.game([][]deck.Card{p1, p2}, WithConfig(Config{MaxRounds: 10, MaxTieRounds: 5, RandomCategoryAfter: 1}))
	rec := recordEvents(g)

	result, err := g.PlayRound()
	require.NoError(t, err)
	assert.Equal(t, 2, result.TieIterations)
	assert.Equal(t, 0, result.LoopBreaks)

	iterations := rec.ofType(EventTypeTieIteration)
	require.Len(t, iterations, 2)
	assert.False(t, iterations[0].(TieIterationEvent).RandomCategory)
	assert.True(t, iterations[1].(TieIterationEvent).RandomCategory)
}

func TestBreakTie_Converges(t *testing.T) {
	cfg := Config{MaxRounds: 1000, MaxTieRounds: 3, RandomCategoryAfter: 2}

	for seed := int64(0); seed < 200; seed++ {
		rng := randutil.New(seed)
		// Few distinct scores so ties are common
		d, err := deck.Synthesize(rng, deck.SynthOptions{Size: 24, Categories: 2, MinScore: 1, MaxScore: 2})
		require.NoError(t, err)

		g, err := Deal(rng, d, PlayerNames(2+int(seed%4)), WithConfig(cfg))
		require.NoError(t, err)
		rec := recordEvents(g)

		for i := 0; i < 50 && len(g.ActivePlayers()) > 1; i++ {
			result, err := g.PlayRound()
			require.NoError(t, err)
			assert.LessOrEqual(t, result.TieIterations, cfg.MaxTieRounds)
		}

		for _, e := range rec.ofType(EventTypeTieIteration) {
			assert.LessOrEqual(t, e.(TieIterationEvent).Iteration, cfg.MaxTieRounds)
		}
	}
}
