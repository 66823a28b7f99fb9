package contracts

import (
	"encoding/json"
	"time"
)

// Signal labels the z-score relative to the thresholds at one date.
// Pure function of z_t; Position is the stateful derivative.
type Signal string

const (
	SignalBuy  Signal = "buy"  // z < -entry: long A / short B
	SignalSell Signal = "sell" // z > entry: short A / long B
	SignalExit Signal = "exit" // |z| < exit: force flat
	SignalHold Signal = "hold" // dead zone: keep prior position
)

// Position states of the spread strategy.
const (
	PositionLong  = 1 // long A / short B
	PositionFlat  = 0
	PositionShort = -1 // short A / long B
)

// BacktestSummary holds the scalar performance metrics of one run.
type BacktestSummary struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"` // always <= 0
	WinRate          float64 `json:"win_rate"`
	ReturnPeriods    int     `json:"return_periods"`
}

// BacktestResult is the full outcome of simulating one pair with one
// threshold configuration. Immutable once computed.
type BacktestResult struct {
	SymbolA string  `json:"symbol_a"`
	SymbolB string  `json:"symbol_b"`
	EntryZ  float64 `json:"entry_z"`
	ExitZ   float64 `json:"exit_z"`
	Window  int     `json:"window"`

	Dates      []time.Time `json:"dates"`
	Ratio      []float64   `json:"ratio"`
	ZScore     []float64   `json:"z_score"` // NaN for the first window-1 points
	Signals    []Signal    `json:"signals"`
	Positions  []int       `json:"positions"`
	Returns    []float64   `json:"returns"`
	Cumulative []float64   `json:"cumulative"`

	Summary BacktestSummary `json:"summary"`
}

// backtestResultJSON mirrors BacktestResult with a nullable z-score
// series. The first window-1 z-scores are NaN by contract, so every
// valid run would otherwise fail to encode.
type backtestResultJSON struct {
	SymbolA string  `json:"symbol_a"`
	SymbolB string  `json:"symbol_b"`
	EntryZ  float64 `json:"entry_z"`
	ExitZ   float64 `json:"exit_z"`
	Window  int     `json:"window"`

	Dates      []time.Time `json:"dates"`
	Ratio      []float64   `json:"ratio"`
	ZScore     []*float64  `json:"z_score"`
	Signals    []Signal    `json:"signals"`
	Positions  []int       `json:"positions"`
	Returns    []float64   `json:"returns"`
	Cumulative []float64   `json:"cumulative"`

	Summary BacktestSummary `json:"summary"`
}

// MarshalJSON encodes undefined (NaN) z-scores as null.
func (r BacktestResult) MarshalJSON() ([]byte, error) {
	out := backtestResultJSON{
		SymbolA:    r.SymbolA,
		SymbolB:    r.SymbolB,
		EntryZ:     r.EntryZ,
		ExitZ:      r.ExitZ,
		Window:     r.Window,
		Dates:      r.Dates,
		Ratio:      r.Ratio,
		Signals:    r.Signals,
		Positions:  r.Positions,
		Returns:    r.Returns,
		Cumulative: r.Cumulative,
		Summary:    r.Summary,
	}
	if r.ZScore != nil {
		out.ZScore = make([]*float64, len(r.ZScore))
		for i, z := range r.ZScore {
			out.ZScore[i] = nullableFinite(z)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes null z-scores back to NaN.
func (r *BacktestResult) UnmarshalJSON(data []byte) error {
	var in backtestResultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.SymbolA = in.SymbolA
	r.SymbolB = in.SymbolB
	r.EntryZ = in.EntryZ
	r.ExitZ = in.ExitZ
	r.Window = in.Window
	r.Dates = in.Dates
	r.Ratio = in.Ratio
	r.Signals = in.Signals
	r.Positions = in.Positions
	r.Returns = in.Returns
	r.Cumulative = in.Cumulative
	r.Summary = in.Summary
	r.ZScore = nil
	if in.ZScore != nil {
		r.ZScore = make([]float64, len(in.ZScore))
		for i, z := range in.ZScore {
			r.ZScore[i] = finiteOrNaN(z)
		}
	}
	return nil
}

// OptimizationCell is one grid point of a threshold sweep.
type OptimizationCell struct {
	EntryZ      float64 `json:"entry_z"`
	ExitZ       float64 `json:"exit_z"`
	TotalReturn float64 `json:"total_return"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// OptimizationResult is the outcome of a threshold grid sweep. An empty
// grid (no entry > exit pair in the candidate set) is reportable, not an
// error.
type OptimizationResult struct {
	Best   *OptimizationCell  `json:"best,omitempty"`
	Grid   []OptimizationCell `json:"grid"`
	Reason string             `json:"reason,omitempty"`
}

// IsEmpty reports whether the sweep evaluated no configuration.
func (r *OptimizationResult) IsEmpty() bool {
	return len(r.Grid) == 0
}
