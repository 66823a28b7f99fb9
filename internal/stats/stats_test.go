package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomWalk returns a seeded random walk starting at 0.
func randomWalk(seed int64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		out[i] = out[i-1] + rng.NormFloat64()
	}
	return out
}

// ar1 returns a seeded stationary AR(1) series with the given phi.
func ar1(seed int64, n int, phi float64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		out[i] = phi*out[i-1] + rng.NormFloat64()
	}
	return out
}

func TestMeanStd(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 3.0, Mean(xs), 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), Std(xs), 1e-12)

	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Std([]float64{7}))
}

func TestCorrelation_Symmetry(t *testing.T) {
	a := []float64{1, 2, 4, 3, 5, 7, 6}
	b := []float64{2, 1, 3, 5, 4, 6, 8}

	ab := Correlation(a, b)
	ba := Correlation(b, a)
	assert.Equal(t, ab, ba)

	// Perfectly scaled series
	doubled := make([]float64, len(a))
	for i, v := range a {
		doubled[i] = 2 * v
	}
	assert.InDelta(t, 1.0, Correlation(a, doubled), 1e-12)
}

func TestLogReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	rets := LogReturns(prices)
	require.Len(t, rets, 2)
	assert.InDelta(t, math.Log(1.1), rets[0], 1e-12)
	assert.InDelta(t, math.Log(0.9), rets[1], 1e-12)

	assert.Nil(t, LogReturns([]float64{100}))
}

func TestOLS_RecoversCoefficients(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 200
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) / 10
		y[i] = 2.0 + 3.0*x[i] + 0.1*rng.NormFloat64()
	}

	fit, err := OLS(y, x)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fit.Coeffs[0], 0.1)
	assert.InDelta(t, 3.0, fit.Coeffs[1], 0.05)
	assert.Greater(t, fit.TStat(1), 10.0)
}

func TestOLS_Degenerate(t *testing.T) {
	// Constant regressor collinear with the intercept
	y := []float64{1, 2, 3, 4, 5, 6}
	x := []float64{1, 1, 1, 1, 1, 1}
	_, err := OLS(y, x)
	assert.ErrorIs(t, err, ErrDegenerate)

	// Too few observations
	_, err = OLS([]float64{1, 2}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestSlopeIntercept(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{2.1, 4.0, 6.2, 7.9, 10.1, 12.0}

	slope, intercept, err := SlopeIntercept(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, slope, 0.1)
	assert.InDelta(t, 0.0, intercept, 0.3)
}

func TestADF_StationarySeries(t *testing.T) {
	series := ar1(42, 300, 0.5)

	res, err := ADF(series, 0)
	require.NoError(t, err)
	assert.Less(t, res.Statistic, -3.43)
	assert.Less(t, res.PValue, 0.05)
}

func TestADF_RandomWalk(t *testing.T) {
	series := randomWalk(42, 300)

	res, err := ADF(series, 0)
	require.NoError(t, err)
	// A unit-root series should not be rejected at the 1% level
	assert.Greater(t, res.PValue, 0.01)
}

func TestADF_ShortSeries(t *testing.T) {
	_, err := ADF([]float64{1, 2, 3}, 0)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestPValueTable_Monotonic(t *testing.T) {
	prev := 0.0
	for _, stat := range []float64{-6, -4, -3.43, -3.0, -2.86, -2.7, -2.57, -1.5, 0, 2} {
		p := adfCriticalValues.interpolate(stat)
		assert.GreaterOrEqual(t, p, prev, "p-value must be non-decreasing in the statistic")
		assert.Greater(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		prev = p
	}

	// Anchors map exactly
	assert.InDelta(t, 0.05, adfCriticalValues.interpolate(-2.86), 1e-12)
	assert.InDelta(t, 0.01, egCriticalValues.interpolate(-3.90), 1e-12)
}

func TestJohansenTrace_CointegratedPair(t *testing.T) {
	walk := randomWalk(11, 400)
	noise := ar1(12, 400, 0.3)

	a := make([]float64, len(walk))
	b := make([]float64, len(walk))
	for i := range walk {
		a[i] = walk[i]
		b[i] = walk[i] + noise[i]
	}

	res, err := JohansenTrace(a, b)
	require.NoError(t, err)
	assert.True(t, res.Cointegrated, "trace stat %.2f should exceed %.2f", res.Statistic, res.Critical95)
}

func TestJohansenTrace_IndependentWalks(t *testing.T) {
	a := randomWalk(21, 400)
	b := randomWalk(22, 400)

	res, err := JohansenTrace(a, b)
	require.NoError(t, err)
	// Independent walks should not clear the 99% critical value
	assert.Less(t, res.Statistic, res.Critical99)
}

func TestJohansenTrace_Degenerate(t *testing.T) {
	flat := make([]float64, 50)
	_, err := JohansenTrace(flat, flat)
	assert.ErrorIs(t, err, ErrDegenerate)

	_, err = JohansenTrace([]float64{1, 2}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrDegenerate)
}
