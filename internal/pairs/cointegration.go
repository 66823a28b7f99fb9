package pairs

import (
	"math"

	"github.com/wonny/pairscan/internal/contracts"
	"github.com/wonny/pairscan/internal/stats"
)

// Trace test proxy p-values. The trace statistic only yields a
// boolean at the 5% level; the proxy keeps the combined min() decision
// well-defined. Documented approximation.
const (
	tracePValueCointegrated = 0.01
	tracePValueRejected     = 0.05
)

// Tester combines the Engle-Granger residual test and the Johansen
// trace test into a single cointegration decision.
// ⭐ SSOT: 공적분 판정은 여기서만
type Tester struct {
	pValueThreshold float64
	maxLag          int
}

// NewTester creates a tester with the given Engle-Granger p-value
// threshold (<= 0 falls back to 0.05).
func NewTester(pValueThreshold float64) *Tester {
	if pValueThreshold <= 0 {
		pValueThreshold = 0.05
	}
	return &Tester{pValueThreshold: pValueThreshold}
}

// Test runs both tests on an aligned price pair. A pair passes when the
// residual test p-value clears the threshold or the trace test signals
// cointegration. Computation failures yield p-value 1.0 / not
// cointegrated; they never propagate.
func (t *Tester) Test(a, b []float64) contracts.CointegrationResult {
	result := contracts.CointegrationResult{
		PValue:         1.0,
		EGStatistic:    math.NaN(),
		EGPValue:       1.0,
		TraceStatistic: math.NaN(),
		TracePValue:    1.0,
	}

	if eg, err := t.engleGranger(a, b); err == nil {
		result.EGStatistic = eg.Statistic
		result.EGPValue = eg.PValue
	}

	if trace, err := stats.JohansenTrace(stats.Log(a), stats.Log(b)); err == nil {
		result.TraceStatistic = trace.Statistic
		result.TraceCritical95 = trace.Critical95
		result.TraceCointegrated = trace.Cointegrated
		if trace.Cointegrated {
			result.TracePValue = tracePValueCointegrated
		} else {
			result.TracePValue = tracePValueRejected
		}
	}

	result.PValue = math.Min(result.EGPValue, result.TracePValue)
	result.IsCointegrated = result.EGPValue < t.pValueThreshold || result.TraceCointegrated

	return result
}

// engleGranger regresses one series on the other and unit-root tests
// the residual with 2-variable critical values. A flat residual (the
// series are an exact linear combination) is trivially stationary; the
// unit-root regression would be degenerate there.
func (t *Tester) engleGranger(a, b []float64) (*stats.ADFResult, error) {
	fit, err := stats.OLS(a, b)
	if err != nil {
		return nil, err
	}
	if stats.Std(fit.Residuals) < 1e-8*math.Abs(stats.Mean(a)) {
		return &stats.ADFResult{Statistic: math.Inf(-1), PValue: 0.001}, nil
	}
	return stats.EngleGrangerResidualTest(fit.Residuals, t.maxLag)
}
