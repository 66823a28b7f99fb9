package pairs

import (
	"math"

	"github.com/wonny/pairscan/internal/contracts"
)

// Filter narrows a pair table by additional criteria after a scan.
// Zero values disable the corresponding criterion. A NaN half-life
// passes the half-life cap (no detected mean reversion is not evidence
// of a slow one).
type Filter struct {
	MinAbsCorrelation float64
	MaxPValue         float64
	MinStationarity   float64
	MaxHalfLifeDays   float64
}

// Apply returns the records that satisfy every enabled criterion,
// preserving order.
func (f Filter) Apply(records []contracts.PairRecord) []contracts.PairRecord {
	out := make([]contracts.PairRecord, 0, len(records))
	for _, r := range records {
		if f.MinAbsCorrelation > 0 && math.Abs(r.Correlation) < f.MinAbsCorrelation {
			continue
		}
		if f.MaxPValue > 0 && r.Coint.PValue > f.MaxPValue {
			continue
		}
		if f.MinStationarity > 0 && r.Spread.StationarityScore < f.MinStationarity {
			continue
		}
		if f.MaxHalfLifeDays > 0 && !math.IsNaN(r.Spread.HalfLifeDays) && r.Spread.HalfLifeDays > f.MaxHalfLifeDays {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Summary aggregates a pair table for reporting.
type Summary struct {
	TotalPairs      int     `json:"total_pairs"`
	AvgCorrelation  float64 `json:"avg_correlation"`
	AvgPValue       float64 `json:"avg_p_value"`
	MinPValue       float64 `json:"min_p_value"`
	MaxPValue       float64 `json:"max_p_value"`
	AvgHalfLife     float64 `json:"avg_half_life"` // over finite half-lives only
	AvgStationarity float64 `json:"avg_stationarity"`
}

// Summarize computes summary statistics over a pair table.
func Summarize(records []contracts.PairRecord) Summary {
	s := Summary{TotalPairs: len(records)}
	if len(records) == 0 {
		return s
	}

	s.MinPValue = math.Inf(1)
	s.MaxPValue = math.Inf(-1)

	var corrSum, pSum, stSum, hlSum float64
	hlCount := 0
	for _, r := range records {
		corrSum += r.Correlation
		pSum += r.Coint.PValue
		stSum += r.Spread.StationarityScore
		if r.Coint.PValue < s.MinPValue {
			s.MinPValue = r.Coint.PValue
		}
		if r.Coint.PValue > s.MaxPValue {
			s.MaxPValue = r.Coint.PValue
		}
		if !math.IsNaN(r.Spread.HalfLifeDays) {
			hlSum += r.Spread.HalfLifeDays
			hlCount++
		}
	}

	n := float64(len(records))
	s.AvgCorrelation = corrSum / n
	s.AvgPValue = pSum / n
	s.AvgStationarity = stSum / n
	if hlCount > 0 {
		s.AvgHalfLife = hlSum / float64(hlCount)
	} else {
		s.AvgHalfLife = math.NaN()
	}

	return s
}
