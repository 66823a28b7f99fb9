package contracts

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// CandidatePair is a pair that survived the correlation pre-filter.
// 공적분 검정 입력으로만 쓰이고 버려진다.
type CandidatePair struct {
	SymbolA     string  `json:"symbol_a"`
	SymbolB     string  `json:"symbol_b"`
	Correlation float64 `json:"correlation"`
}

// SpreadProfile describes the mean-reversion character of a pair's spread.
// HalfLifeDays is NaN when no mean reversion was detected.
type SpreadProfile struct {
	HedgeRatio        float64 `json:"hedge_ratio"`
	SpreadMean        float64 `json:"spread_mean"`
	SpreadStd         float64 `json:"spread_std"`
	HalfLifeDays      float64 `json:"half_life_days"`
	StationarityScore float64 `json:"stationarity_score"` // 0.0 ~ 1.0
}

// spreadProfileJSON mirrors SpreadProfile with a nullable half-life so the
// NaN sentinel survives JSON round-trips (cache, API).
type spreadProfileJSON struct {
	HedgeRatio        float64  `json:"hedge_ratio"`
	SpreadMean        float64  `json:"spread_mean"`
	SpreadStd         float64  `json:"spread_std"`
	HalfLifeDays      *float64 `json:"half_life_days"`
	StationarityScore float64  `json:"stationarity_score"`
}

// MarshalJSON encodes a NaN half-life as null.
func (s SpreadProfile) MarshalJSON() ([]byte, error) {
	out := spreadProfileJSON{
		HedgeRatio:        s.HedgeRatio,
		SpreadMean:        s.SpreadMean,
		SpreadStd:         s.SpreadStd,
		StationarityScore: s.StationarityScore,
	}
	if !math.IsNaN(s.HalfLifeDays) {
		hl := s.HalfLifeDays
		out.HalfLifeDays = &hl
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null half-life back to NaN.
func (s *SpreadProfile) UnmarshalJSON(data []byte) error {
	var in spreadProfileJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.HedgeRatio = in.HedgeRatio
	s.SpreadMean = in.SpreadMean
	s.SpreadStd = in.SpreadStd
	s.StationarityScore = in.StationarityScore
	if in.HalfLifeDays != nil {
		s.HalfLifeDays = *in.HalfLifeDays
	} else {
		s.HalfLifeDays = math.NaN()
	}
	return nil
}

// CointegrationResult holds the combined two-test decision for a pair.
type CointegrationResult struct {
	PValue         float64 `json:"p_value"` // min(EG p-value, trace proxy p-value)
	IsCointegrated bool    `json:"is_cointegrated"`

	EGStatistic float64 `json:"eg_statistic"`
	EGPValue    float64 `json:"eg_p_value"`

	TraceStatistic    float64 `json:"trace_statistic"`
	TraceCritical95   float64 `json:"trace_critical_95"`
	TraceCointegrated bool    `json:"trace_cointegrated"`
	// Proxy p-value for the trace test: 0.01 when cointegrated, 0.05
	// otherwise. Approximation carried over from the decision rule, not
	// an asymptotic p-value.
	TracePValue float64 `json:"trace_p_value"`
}

// cointegrationResultJSON mirrors CointegrationResult with nullable test
// statistics. EGStatistic is -Inf for an exactly collinear pair and NaN
// when one test errored while the other passed; neither survives
// encoding/json as a raw float64.
type cointegrationResultJSON struct {
	PValue         float64 `json:"p_value"`
	IsCointegrated bool    `json:"is_cointegrated"`

	EGStatistic *float64 `json:"eg_statistic"`
	EGPValue    float64  `json:"eg_p_value"`

	TraceStatistic    *float64 `json:"trace_statistic"`
	TraceCritical95   float64  `json:"trace_critical_95"`
	TraceCointegrated bool     `json:"trace_cointegrated"`
	TracePValue       float64  `json:"trace_p_value"`
}

// MarshalJSON encodes non-finite test statistics as null.
func (c CointegrationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(cointegrationResultJSON{
		PValue:            c.PValue,
		IsCointegrated:    c.IsCointegrated,
		EGStatistic:       nullableFinite(c.EGStatistic),
		EGPValue:          c.EGPValue,
		TraceStatistic:    nullableFinite(c.TraceStatistic),
		TraceCritical95:   c.TraceCritical95,
		TraceCointegrated: c.TraceCointegrated,
		TracePValue:       c.TracePValue,
	})
}

// UnmarshalJSON decodes null statistics back to the NaN sentinel.
func (c *CointegrationResult) UnmarshalJSON(data []byte) error {
	var in cointegrationResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.PValue = in.PValue
	c.IsCointegrated = in.IsCointegrated
	c.EGStatistic = finiteOrNaN(in.EGStatistic)
	c.EGPValue = in.EGPValue
	c.TraceStatistic = finiteOrNaN(in.TraceStatistic)
	c.TraceCritical95 = in.TraceCritical95
	c.TraceCointegrated = in.TraceCointegrated
	c.TracePValue = in.TracePValue
	return nil
}

// nullableFinite returns &v, or nil when v is NaN or infinite.
func nullableFinite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// finiteOrNaN returns *p, or NaN for nil.
func finiteOrNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// PairRecord is the persisted unit of a scan: candidate + test + spread.
type PairRecord struct {
	SymbolA     string              `json:"symbol_a"`
	SymbolB     string              `json:"symbol_b"`
	Correlation float64             `json:"correlation"`
	Coint       CointegrationResult `json:"cointegration"`
	Spread      SpreadProfile       `json:"spread"`
}

// EmptyReason explains why a scan produced no pairs. An empty scan is a
// valid outcome, distinct from a computation fault.
type EmptyReason string

const (
	ReasonNone            EmptyReason = ""
	ReasonTooFewAssets    EmptyReason = "panel has fewer than 2 assets"
	ReasonNoCandidates    EmptyReason = "no pair cleared the correlation filter"
	ReasonNoCointegration EmptyReason = "no candidate cleared the cointegration filter"
)

// ScanReport is the full output of one pair scan.
type ScanReport struct {
	Date                 time.Time    `json:"date"`
	TotalAssets          int          `json:"total_assets"`
	CandidateCount       int          `json:"candidate_count"`
	CorrelationThreshold float64      `json:"correlation_threshold"`
	PValueThreshold      float64      `json:"p_value_threshold"`
	Pairs                []PairRecord `json:"pairs"`
	EmptyReason          EmptyReason  `json:"empty_reason,omitempty"`
}

// IsEmpty reports whether the scan found nothing.
func (r *ScanReport) IsEmpty() bool {
	return len(r.Pairs) == 0
}

// SortPairRecords orders records by p-value ascending, then |correlation|
// descending. Presentation contract for every pair table.
func SortPairRecords(records []PairRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Coint.PValue != records[j].Coint.PValue {
			return records[i].Coint.PValue < records[j].Coint.PValue
		}
		return math.Abs(records[i].Correlation) > math.Abs(records[j].Correlation)
	})
}
