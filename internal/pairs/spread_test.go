package pairs

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// geometricWalk generates a positive price path from a seeded log walk.
func geometricWalk(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	prices := make([]float64, n)
	level := 0.0
	for i := range prices {
		level += rng.NormFloat64() * 0.01
		prices[i] = 100 * math.Exp(level)
	}
	return prices
}

// meanRevertingPartner builds a partner series whose log price tracks
// the base with an AR(1) spread, so the pair cointegrates.
func meanRevertingPartner(base []float64, seed int64, phi float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, len(base))
	spread := 0.0
	for i := range base {
		spread = phi*spread + rng.NormFloat64()*0.005
		out[i] = base[i] * math.Exp(spread)
	}
	return out
}

func TestComputeSpreadProfile_ScaledPair(t *testing.T) {
	a := geometricWalk(1, 200)
	b := make([]float64, len(a))
	for i, v := range a {
		b[i] = 2 * v
	}

	// log(b) = log(2) + log(a): hedge ratio 1, constant spread.
	profile := ComputeSpreadProfile(b, a, SpreadOptions{})

	assert.InDelta(t, 1.0, profile.HedgeRatio, 1e-9)
	assert.InDelta(t, math.Log(2), profile.SpreadMean, 1e-9)
	assert.InDelta(t, 0.0, profile.SpreadStd, 1e-9)
}

func TestComputeSpreadProfile_MeanRevertingPair(t *testing.T) {
	a := geometricWalk(2, 300)
	b := meanRevertingPartner(a, 3, 0.5)

	profile := ComputeSpreadProfile(a, b, SpreadOptions{})

	assert.InDelta(t, 1.0, profile.HedgeRatio, 0.15)
	assert.False(t, math.IsNaN(profile.HalfLifeDays), "mean-reverting spread should have a half-life")
	assert.Greater(t, profile.HalfLifeDays, 0.0)
	assert.LessOrEqual(t, profile.HalfLifeDays, 252.0)
	assert.Greater(t, profile.StationarityScore, 0.5)
	assert.LessOrEqual(t, profile.StationarityScore, 1.0)
}

func TestComputeSpreadProfile_HalfLifeCap(t *testing.T) {
	a := geometricWalk(2, 300)
	b := meanRevertingPartner(a, 3, 0.5)

	profile := ComputeSpreadProfile(a, b, SpreadOptions{HalfLifeCapDays: 1e-6})

	if !math.IsNaN(profile.HalfLifeDays) {
		assert.LessOrEqual(t, profile.HalfLifeDays, 1e-6)
	}
}

func TestHalfLife_NoMeanReversion(t *testing.T) {
	// Trending spread: the AR(1) slope is non-negative.
	spread := make([]float64, 100)
	for i := range spread {
		spread[i] = float64(i) * 0.1
	}
	assert.True(t, math.IsNaN(halfLife(spread, 252)))
}

func TestHalfLife_ShortSeries(t *testing.T) {
	assert.True(t, math.IsNaN(halfLife([]float64{1, 2, 1, 2, 1}, 252)))
}
