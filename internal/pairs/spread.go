package pairs

import (
	"math"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/stats"
)

// SpreadOptions tunes the spread statistics. Zero values fall back to
// the documented defaults.
type SpreadOptions struct {
	HalfLifeCapDays float64 // default 252
	MaxLag          int     // unit-root test lag order, 0 = heuristic
}

const defaultHalfLifeCap = 252.0

// ComputeSpreadProfile derives the mean-reversion profile of a price
// pair. Numerical failures never propagate: each stage degrades to its
// sentinel (hedge ratio 1.0, NaN half-life, zero stationarity score).
func ComputeSpreadProfile(a, b []float64, opts SpreadOptions) contracts.SpreadProfile {
	capDays := opts.HalfLifeCapDays
	if capDays <= 0 {
		capDays = defaultHalfLifeCap
	}

	profile := contracts.SpreadProfile{
		HedgeRatio:        1.0,
		HalfLifeDays:      math.NaN(),
		StationarityScore: 0.0,
	}

	logA := stats.Log(a)
	logB := stats.Log(b)

	if slope, _, err := stats.SlopeIntercept(logB, logA); err == nil {
		profile.HedgeRatio = slope
	}

	spread := make([]float64, len(logA))
	for i := range logA {
		spread[i] = logA[i] - profile.HedgeRatio*logB[i]
	}

	profile.SpreadMean = stats.Mean(spread)
	profile.SpreadStd = stats.Std(spread)
	profile.HalfLifeDays = halfLife(spread, capDays)

	if adf, err := stats.ADF(spread, opts.MaxLag); err == nil {
		score := 1 - adf.PValue
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		profile.StationarityScore = score
	}

	return profile
}

// halfLife estimates the mean-reversion half-life from the AR(1)
// regression Δs_t = α + β·s_{t-1}. β >= 0 means no mean reversion: NaN.
func halfLife(spread []float64, capDays float64) float64 {
	diff := stats.Diff(spread)
	if len(diff) < 10 {
		return math.NaN()
	}

	lag := spread[:len(spread)-1]

	beta, _, err := stats.SlopeIntercept(lag, diff)
	if err != nil || beta >= 0 {
		return math.NaN()
	}

	hl := math.Log(2) / -beta
	if hl > capDays {
		return capDays
	}
	return hl
}
