package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxDrawdown(t *testing.T) {
	// peak 1.1, trough 0.9: 0.9/1.1 - 1
	assert.InDelta(t, -0.18181818, maxDrawdown([]float64{1.0, 1.1, 0.9, 1.2}), 1e-6)
	assert.Zero(t, maxDrawdown([]float64{1.0, 1.1, 1.2}))
	assert.Zero(t, maxDrawdown(nil))
}

func TestAnnualize(t *testing.T) {
	// one trading year compounds to itself
	assert.InDelta(t, 0.10, annualize(0.10, 252), 1e-9)
	// half a year doubles the compounding
	assert.InDelta(t, math.Pow(1.10, 2)-1, annualize(0.10, 126), 1e-9)
	assert.Zero(t, annualize(0.10, 0))
	assert.Zero(t, annualize(-1, 252))
}

func TestSharpeRatio(t *testing.T) {
	assert.Zero(t, sharpeRatio([]float64{0.01, 0.01, 0.01}), "zero volatility must not divide by zero")

	returns := []float64{0.01, -0.005, 0.02, 0.0, -0.01}
	got := sharpeRatio(returns)
	assert.False(t, math.IsNaN(got))
	assert.Greater(t, got, 0.0)
}

func TestWinRate(t *testing.T) {
	// zero returns (flat days) are excluded from the denominator
	assert.InDelta(t, 2.0/3.0, winRate([]float64{0.01, 0, -0.005, 0, 0.02}), 1e-9)
	assert.Zero(t, winRate([]float64{0, 0, 0}))
	assert.Zero(t, winRate(nil))
}

func TestComputeSummary(t *testing.T) {
	returns := []float64{0.10, -0.05}
	equity := []float64{1.0, 1.10, 1.045}

	s := computeSummary(returns, equity)

	assert.InDelta(t, 0.045, s.TotalReturn, 1e-9)
	assert.Equal(t, 2, s.ReturnPeriods)
	assert.InDelta(t, -0.05, s.MaxDrawdown, 1e-9)
	assert.InDelta(t, 0.5, s.WinRate, 1e-9)
}
