package backtest

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/pkg/logger"
)

// revertingPair builds a pair whose price ratio follows a seeded AR(1)
// process, so the strategy has something to trade.
func revertingPair(seed int64, n int) *contracts.PricePair {
	rng := rand.New(rand.NewSource(seed))
	dates := make([]time.Time, n)
	a := make([]float64, n)
	b := make([]float64, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	level := 0.0
	spread := 0.0
	for i := 0; i < n; i++ {
		dates[i] = start.AddDate(0, 0, i)
		level += rng.NormFloat64() * 0.01
		spread = 0.9*spread + rng.NormFloat64()*0.02
		b[i] = 100 * math.Exp(level)
		a[i] = b[i] * math.Exp(spread)
	}

	return &contracts.PricePair{SymbolA: "A", SymbolB: "B", Dates: dates, A: a, B: b}
}

func TestSimConfig_Validate(t *testing.T) {
	assert.NoError(t, SimConfig{EntryZ: 2, ExitZ: 0.5}.Validate())
	assert.ErrorIs(t, SimConfig{EntryZ: 0.5, ExitZ: 2}.Validate(), contracts.ErrInvalidConfiguration)
	assert.ErrorIs(t, SimConfig{EntryZ: 1, ExitZ: 1}.Validate(), contracts.ErrInvalidConfiguration)
	assert.ErrorIs(t, SimConfig{EntryZ: 2, ExitZ: -0.1}.Validate(), contracts.ErrInvalidConfiguration)
	assert.ErrorIs(t, SimConfig{EntryZ: 2, ExitZ: 0.5, Window: -1}.Validate(), contracts.ErrInvalidConfiguration)
}

func TestDerivePositions_Hysteresis(t *testing.T) {
	z := []float64{0, 2.5, 2.5, 0.2, -2.5, 0.2}
	got := derivePositions(z, 2.0, 0.5)
	assert.Equal(t, []int{0, -1, -1, 0, 1, 0}, got)
}

func TestDerivePositions_DeadZoneHolds(t *testing.T) {
	// 1.0 sits between exit and entry: position carries through.
	z := []float64{2.5, 1.0, 1.0, 0.1}
	got := derivePositions(z, 2.0, 0.5)
	assert.Equal(t, []int{-1, -1, -1, 0}, got)

	z = []float64{-2.5, -1.0, 1.5, 0.4}
	got = derivePositions(z, 2.0, 0.5)
	assert.Equal(t, []int{1, 1, 1, 0}, got)
}

func TestDerivePositions_NaNKeepsState(t *testing.T) {
	z := []float64{math.NaN(), math.NaN(), 2.5, math.NaN(), 0.1}
	got := derivePositions(z, 2.0, 0.5)
	assert.Equal(t, []int{0, 0, -1, -1, 0}, got)
}

func TestLabelSignals(t *testing.T) {
	z := []float64{math.NaN(), 0.2, -2.5, 2.5, 1.0, -0.5}
	got := labelSignals(z, 2.0, 0.5)
	want := []contracts.Signal{
		contracts.SignalHold,
		contracts.SignalExit,
		contracts.SignalBuy,
		contracts.SignalSell,
		contracts.SignalHold,
		contracts.SignalHold, // |-0.5| is not strictly below exit
	}
	assert.Equal(t, want, got)
}

func TestRollingZScore(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}
	z := rollingZScore(series, 3)

	assert.True(t, math.IsNaN(z[0]))
	assert.True(t, math.IsNaN(z[1]))
	// window {1,2,3}: mean 2, std 1
	assert.InDelta(t, 1.0, z[2], 1e-9)
	assert.InDelta(t, 1.0, z[3], 1e-9)
}

func TestRollingZScore_ZeroVariance(t *testing.T) {
	series := []float64{2, 2, 2, 2, 2}
	z := rollingZScore(series, 3)
	for i, v := range z {
		assert.True(t, math.IsNaN(v), "index %d", i)
	}
}

func TestSimulator_Run(t *testing.T) {
	pair := revertingPair(7, 400)
	sim := NewSimulator(logger.NewNop())

	result, err := sim.Run(pair, DefaultSimConfig())
	require.NoError(t, err)

	n := pair.Len()
	assert.Equal(t, 60, result.Window)
	assert.Len(t, result.Ratio, n)
	assert.Len(t, result.ZScore, n)
	assert.Len(t, result.Signals, n)
	assert.Len(t, result.Positions, n)
	assert.Len(t, result.Returns, n)
	assert.Len(t, result.Cumulative, n)

	for i := 0; i < result.Window-1; i++ {
		assert.True(t, math.IsNaN(result.ZScore[i]), "z-score %d should be NaN", i)
	}
	assert.Zero(t, result.Returns[0])
	assert.InDelta(t, result.Cumulative[n-1]-1, result.Summary.TotalReturn, 1e-12)
	assert.Equal(t, n-1, result.Summary.ReturnPeriods)
	assert.LessOrEqual(t, result.Summary.MaxDrawdown, 0.0)
}

func TestSimulator_WindowHeuristic(t *testing.T) {
	pair := revertingPair(7, 100)
	sim := NewSimulator(logger.NewNop())

	result, err := sim.Run(pair, DefaultSimConfig())
	require.NoError(t, err)
	assert.Equal(t, 25, result.Window) // min(60, 100/4)
}

func TestSimulator_TooFewObservations(t *testing.T) {
	pair := revertingPair(7, 10)
	sim := NewSimulator(logger.NewNop())

	result, err := sim.Run(pair, DefaultSimConfig())
	require.NoError(t, err)

	assert.Empty(t, result.Signals)
	assert.Empty(t, result.Positions)
	assert.Zero(t, result.Summary.TotalReturn)
	assert.Zero(t, result.Summary.SharpeRatio)
	assert.Zero(t, result.Summary.ReturnPeriods)
}

func TestSimulator_Deterministic(t *testing.T) {
	pair := revertingPair(9, 300)
	sim := NewSimulator(logger.NewNop())

	r1, err := sim.Run(pair, DefaultSimConfig())
	require.NoError(t, err)
	r2, err := sim.Run(pair, DefaultSimConfig())
	require.NoError(t, err)

	assert.Equal(t, r1.Summary, r2.Summary)
	assert.Equal(t, r1.Positions, r2.Positions)
}

// Truncating the input must not change any output before the cut: the
// simulation sees only trailing data at each step.
func TestSimulator_NoLookAhead(t *testing.T) {
	full := revertingPair(11, 300)
	cut := 200
	truncated := &contracts.PricePair{
		SymbolA: full.SymbolA,
		SymbolB: full.SymbolB,
		Dates:   full.Dates[:cut],
		A:       full.A[:cut],
		B:       full.B[:cut],
	}

	sim := NewSimulator(logger.NewNop())
	cfg := SimConfig{EntryZ: 2, ExitZ: 0.5, Window: 30}

	rFull, err := sim.Run(full, cfg)
	require.NoError(t, err)
	rCut, err := sim.Run(truncated, cfg)
	require.NoError(t, err)

	for i := 0; i < cut; i++ {
		assert.Equal(t, rFull.Positions[i], rCut.Positions[i], "position %d", i)
		if math.IsNaN(rFull.ZScore[i]) {
			assert.True(t, math.IsNaN(rCut.ZScore[i]), "z-score %d", i)
		} else {
			assert.Equal(t, rFull.ZScore[i], rCut.ZScore[i], "z-score %d", i)
		}
		assert.Equal(t, rFull.Returns[i], rCut.Returns[i], "return %d", i)
	}
}

func TestSimulator_RunResultEncodesAsJSON(t *testing.T) {
	pair := revertingPair(7, 400)
	sim := NewSimulator(logger.NewNop())

	result, err := sim.Run(pair, DefaultSimConfig())
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"z_score":[null`)

	var decoded contracts.BacktestResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, math.IsNaN(decoded.ZScore[0]))
	assert.Equal(t, result.Summary, decoded.Summary)
}
