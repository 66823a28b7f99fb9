package stats

import (
	"math"
)

// Critical values (asymptotic, regression with constant) for the
// augmented Dickey-Fuller tau statistic and for the Engle-Granger
// residual test on a 2-variable system. The p-value is approximated by
// piecewise-linear interpolation over these anchors; good enough for
// ranking pairs, documented as an approximation.
var (
	adfCriticalValues = pValueTable{
		{-3.43, 0.01},
		{-2.86, 0.05},
		{-2.57, 0.10},
		{0.0, 0.95},
	}

	egCriticalValues = pValueTable{
		{-3.90, 0.01},
		{-3.34, 0.05},
		{-3.04, 0.10},
		{0.0, 0.95},
	}
)

type pValueAnchor struct {
	stat   float64
	pValue float64
}

type pValueTable []pValueAnchor

// interpolate maps a tau statistic to an approximate p-value, clamped to
// (0, 1].
func (t pValueTable) interpolate(stat float64) float64 {
	const pMin, pMax = 0.001, 0.999

	if math.IsNaN(stat) {
		return 1.0
	}
	if stat <= t[0].stat {
		// Extrapolate below the 1% anchor with the first segment slope
		slope := (t[1].pValue - t[0].pValue) / (t[1].stat - t[0].stat)
		p := t[0].pValue + slope*(stat-t[0].stat)
		return math.Max(p, pMin)
	}
	for i := 1; i < len(t); i++ {
		if stat <= t[i].stat {
			slope := (t[i].pValue - t[i-1].pValue) / (t[i].stat - t[i-1].stat)
			return t[i-1].pValue + slope*(stat-t[i-1].stat)
		}
	}
	return pMax
}

// ADFResult holds an augmented Dickey-Fuller unit-root test outcome.
type ADFResult struct {
	Statistic float64
	PValue    float64
	Lags      int
}

// ADF runs an augmented Dickey-Fuller test (regression with constant) on
// series. The lag order is chosen by AIC over 0..maxLag; maxLag <= 0
// applies the 12*(n/100)^0.25 heuristic. Returns ErrDegenerate when the
// series is too short or the regression is singular.
func ADF(series []float64, maxLag int) (*ADFResult, error) {
	return unitRootTest(series, maxLag, adfCriticalValues)
}

// EngleGrangerResidualTest runs the unit-root test on cointegrating
// regression residuals, using the 2-variable Engle-Granger critical
// values.
func EngleGrangerResidualTest(residuals []float64, maxLag int) (*ADFResult, error) {
	return unitRootTest(residuals, maxLag, egCriticalValues)
}

func unitRootTest(series []float64, maxLag int, table pValueTable) (*ADFResult, error) {
	n := len(series)
	if n < 10 {
		return nil, ErrDegenerate
	}

	if maxLag <= 0 {
		maxLag = int(12 * math.Pow(float64(n)/100, 0.25))
	}
	// Keep enough observations for the longest regression
	if maxLag > n/2-2 {
		maxLag = n/2 - 2
	}
	if maxLag < 0 {
		maxLag = 0
	}

	diff := Diff(series)

	bestLag := -1
	bestAIC := math.Inf(1)
	var bestFit *OLSResult

	for lag := 0; lag <= maxLag; lag++ {
		fit, err := dickeyFullerRegression(series, diff, lag)
		if err != nil {
			continue
		}
		if aic := fit.AIC(); aic < bestAIC {
			bestAIC = aic
			bestLag = lag
			bestFit = fit
		}
	}

	if bestFit == nil {
		return nil, ErrDegenerate
	}

	stat := bestFit.TStat(1) // gamma coefficient on y_{t-1}
	if math.IsNaN(stat) {
		return nil, ErrDegenerate
	}

	return &ADFResult{
		Statistic: stat,
		PValue:    table.interpolate(stat),
		Lags:      bestLag,
	}, nil
}

// dickeyFullerRegression fits
//
//	Δy_t = c + γ·y_{t-1} + Σ φ_i·Δy_{t-i} + ε_t
//
// over the largest sample the lag order allows.
func dickeyFullerRegression(series, diff []float64, lag int) (*OLSResult, error) {
	// diff[t] = series[t+1] - series[t]; usable t range: lag..len(diff)-1
	nObs := len(diff) - lag
	if nObs < lag+4 {
		return nil, ErrDegenerate
	}

	y := make([]float64, nObs)
	level := make([]float64, nObs)
	for i := 0; i < nObs; i++ {
		y[i] = diff[lag+i]
		level[i] = series[lag+i]
	}

	regressors := make([][]float64, 0, lag+1)
	regressors = append(regressors, level)
	for j := 1; j <= lag; j++ {
		lagged := make([]float64, nObs)
		for i := 0; i < nObs; i++ {
			lagged[i] = diff[lag+i-j]
		}
		regressors = append(regressors, lagged)
	}

	return OLS(y, regressors...)
}
