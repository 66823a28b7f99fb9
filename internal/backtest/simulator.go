package backtest

import (
	"fmt"
	"math"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/stats"
	"github.com/wonny/pairscan/pkg/logger"
)

const (
	defaultEntryZ = 2.0
	defaultExitZ  = 0.5
	maxWindow     = 60

	// Below this many observations the simulation is statistically
	// meaningless; the result is zeroed instead of misleading.
	minObservations = 30
)

// SimConfig holds the threshold and window parameters of one run.
type SimConfig struct {
	EntryZ float64 // |z| above this opens a position
	ExitZ  float64 // |z| below this forces flat
	Window int     // rolling z-score window, 0 = min(60, n/4)
}

// DefaultSimConfig returns the documented defaults.
func DefaultSimConfig() SimConfig {
	return SimConfig{EntryZ: defaultEntryZ, ExitZ: defaultExitZ}
}

// Validate rejects threshold configurations with no dead zone.
func (c SimConfig) Validate() error {
	if c.ExitZ < 0 {
		return fmt.Errorf("%w: exit threshold %v is negative", contracts.ErrInvalidConfiguration, c.ExitZ)
	}
	if c.EntryZ <= c.ExitZ {
		return fmt.Errorf("%w: entry threshold %v must exceed exit threshold %v",
			contracts.ErrInvalidConfiguration, c.EntryZ, c.ExitZ)
	}
	if c.Window < 0 {
		return fmt.Errorf("%w: window %d is negative", contracts.ErrInvalidConfiguration, c.Window)
	}
	return nil
}

// Simulator runs the z-score threshold strategy over a price pair.
// ⭐ SSOT: 백테스트 시뮬레이션은 여기서만
type Simulator struct {
	logger *logger.Logger
}

// NewSimulator creates a simulator.
func NewSimulator(log *logger.Logger) *Simulator {
	return &Simulator{logger: log}
}

// Run simulates one pair with one configuration. The input pair is
// never mutated; repeated runs on the same input yield identical
// results. Fewer than 30 observations produce a zeroed result, not an
// error.
func (s *Simulator) Run(pair *contracts.PricePair, cfg SimConfig) (*contracts.BacktestResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := pair.Len()
	window := cfg.Window
	if window == 0 {
		window = maxWindow
		if n/4 < window {
			window = n / 4
		}
	}

	result := &contracts.BacktestResult{
		SymbolA: pair.SymbolA,
		SymbolB: pair.SymbolB,
		EntryZ:  cfg.EntryZ,
		ExitZ:   cfg.ExitZ,
		Window:  window,
	}

	if n < minObservations {
		s.logger.WithFields(map[string]interface{}{
			"pair":         pair.SymbolA + "/" + pair.SymbolB,
			"observations": n,
		}).Warn("Too few observations for backtest, returning zeroed result")
		return result, nil
	}

	ratio := make([]float64, n)
	for i := 0; i < n; i++ {
		ratio[i] = pair.A[i] / pair.B[i]
	}

	zScore := rollingZScore(ratio, window)
	signals := labelSignals(zScore, cfg.EntryZ, cfg.ExitZ)
	positions := derivePositions(zScore, cfg.EntryZ, cfg.ExitZ)
	returns := strategyReturns(pair.A, pair.B, positions)

	cumulative := make([]float64, n)
	equity := 1.0
	for i, r := range returns {
		equity *= 1 + r
		cumulative[i] = equity
	}

	result.Dates = pair.Dates
	result.Ratio = ratio
	result.ZScore = zScore
	result.Signals = signals
	result.Positions = positions
	result.Returns = returns
	result.Cumulative = cumulative
	result.Summary = computeSummary(returns[1:], cumulative)

	s.logger.WithFields(map[string]interface{}{
		"pair":         pair.SymbolA + "/" + pair.SymbolB,
		"entry_z":      cfg.EntryZ,
		"exit_z":       cfg.ExitZ,
		"window":       window,
		"total_return": result.Summary.TotalReturn,
		"sharpe":       result.Summary.SharpeRatio,
	}).Info("Backtest completed")

	return result, nil
}

// rollingZScore standardizes each point against the trailing window
// ending at that point. The first window-1 points have no full window:
// NaN. A zero-variance window also yields NaN.
func rollingZScore(series []float64, window int) []float64 {
	z := make([]float64, len(series))
	for i := range z {
		if i < window-1 {
			z[i] = math.NaN()
			continue
		}
		win := series[i-window+1 : i+1]
		mean := stats.Mean(win)
		std := stats.Std(win)
		if std == 0 || math.IsNaN(std) {
			z[i] = math.NaN()
			continue
		}
		z[i] = (series[i] - mean) / std
	}
	return z
}

// labelSignals maps each z-score to its threshold region. Stateless;
// position state is handled separately.
func labelSignals(zScore []float64, entryZ, exitZ float64) []contracts.Signal {
	signals := make([]contracts.Signal, len(zScore))
	for i, z := range zScore {
		switch {
		case math.IsNaN(z):
			signals[i] = contracts.SignalHold
		case math.Abs(z) < exitZ:
			signals[i] = contracts.SignalExit
		case z < -entryZ:
			signals[i] = contracts.SignalBuy
		case z > entryZ:
			signals[i] = contracts.SignalSell
		default:
			signals[i] = contracts.SignalHold
		}
	}
	return signals
}

// derivePositions runs the hysteresis state machine over the z-score
// path. Exit takes precedence over entry; the dead zone between the
// thresholds holds the prior position.
func derivePositions(zScore []float64, entryZ, exitZ float64) []int {
	positions := make([]int, len(zScore))
	pos := contracts.PositionFlat
	for i, z := range zScore {
		switch {
		case math.IsNaN(z):
			// no window yet, stay put
		case math.Abs(z) < exitZ:
			pos = contracts.PositionFlat
		case z < -entryZ:
			pos = contracts.PositionLong
		case z > entryZ:
			pos = contracts.PositionShort
		}
		positions[i] = pos
	}
	return positions
}

// strategyReturns applies yesterday's position to today's return
// spread. Using the prior position keeps the simulation free of
// look-ahead.
func strategyReturns(a, b []float64, positions []int) []float64 {
	returns := make([]float64, len(a))
	for t := 1; t < len(a); t++ {
		retA := a[t]/a[t-1] - 1
		retB := b[t]/b[t-1] - 1
		returns[t] = float64(positions[t-1]) * (retA - retB)
	}
	return returns
}
