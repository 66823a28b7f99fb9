package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Trace test critical values for a 2-variable system with a constant
// term and one lagged difference (Osterwald-Lenum), rank r = 0.
// 90% / 95% / 99%.
var traceCriticalValues = [3]float64{13.4294, 15.4943, 19.9349}

// TraceResult holds a Johansen-style trace test outcome for a
// 2-variable system, testing rank 0 against rank >= 1.
type TraceResult struct {
	Statistic    float64
	Critical90   float64
	Critical95   float64
	Critical99   float64
	Cointegrated bool // statistic > 95% critical value
}

// JohansenTrace runs the trace variant of the Johansen rank test on two
// series (typically log prices) with one lagged difference and a
// constant. Returns ErrDegenerate on singular moment matrices or short
// input.
func JohansenTrace(a, b []float64) (*TraceResult, error) {
	n := len(a)
	if len(b) != n || n < 12 {
		return nil, ErrDegenerate
	}

	// Differences: d[t] = y[t+1] - y[t], t = 0..n-2
	da := Diff(a)
	db := Diff(b)

	// Samples use Δy_t with Δy_{t-1} available: t = 1..n-2
	T := n - 2
	if T < 8 {
		return nil, ErrDegenerate
	}

	// Regressors: constant + both components of Δy_{t-1}
	lagDA := make([]float64, T)
	lagDB := make([]float64, T)
	curDA := make([]float64, T)
	curDB := make([]float64, T)
	levA := make([]float64, T)
	levB := make([]float64, T)
	for i := 0; i < T; i++ {
		lagDA[i] = da[i]
		lagDB[i] = db[i]
		curDA[i] = da[i+1]
		curDB[i] = db[i+1]
		levA[i] = a[i+1] // y_{t-1}
		levB[i] = b[i+1]
	}

	r0a, err := residualize(curDA, lagDA, lagDB)
	if err != nil {
		return nil, err
	}
	r0b, err := residualize(curDB, lagDA, lagDB)
	if err != nil {
		return nil, err
	}
	r1a, err := residualize(levA, lagDA, lagDB)
	if err != nil {
		return nil, err
	}
	r1b, err := residualize(levB, lagDA, lagDB)
	if err != nil {
		return nil, err
	}

	s00 := momentMatrix(r0a, r0b, r0a, r0b)
	s01 := momentMatrix(r0a, r0b, r1a, r1b)
	s10 := momentMatrix(r1a, r1b, r0a, r0b)
	s11 := momentMatrix(r1a, r1b, r1a, r1b)

	var s00inv, s11inv mat.Dense
	if err := s00inv.Inverse(s00); err != nil {
		return nil, ErrDegenerate
	}
	if err := s11inv.Inverse(s11); err != nil {
		return nil, ErrDegenerate
	}

	// M = S11^-1 S10 S00^-1 S01; its eigenvalues drive the trace stat
	var m, tmp mat.Dense
	tmp.Mul(s10, &s00inv)
	tmp.Mul(&tmp, s01)
	m.Mul(&s11inv, &tmp)

	var eig mat.Eigen
	if ok := eig.Factorize(&m, mat.EigenNone); !ok {
		return nil, ErrDegenerate
	}

	values := eig.Values(nil)
	lambdas := make([]float64, 0, len(values))
	for _, v := range values {
		lambdas = append(lambdas, real(v))
	}

	trace := 0.0
	for _, l := range lambdas {
		if l >= 1 {
			return nil, ErrDegenerate
		}
		// Tiny negative eigenvalues are numerical noise
		if l < 0 {
			l = 0
		}
		trace += math.Log(1 - l)
	}
	trace *= -float64(T)

	if math.IsNaN(trace) || math.IsInf(trace, 0) {
		return nil, ErrDegenerate
	}

	return &TraceResult{
		Statistic:    trace,
		Critical90:   traceCriticalValues[0],
		Critical95:   traceCriticalValues[1],
		Critical99:   traceCriticalValues[2],
		Cointegrated: trace > traceCriticalValues[1],
	}, nil
}

// residualize regresses y on a constant plus the given regressors and
// returns the residual vector.
func residualize(y []float64, regressors ...[]float64) ([]float64, error) {
	fit, err := OLS(y, regressors...)
	if err != nil {
		return nil, err
	}
	return fit.Residuals, nil
}

// momentMatrix builds (1/T) * [x1;x2] [y1;y2]' for two 2-row residual
// blocks stored as separate vectors.
func momentMatrix(x1, x2, y1, y2 []float64) *mat.Dense {
	T := float64(len(x1))
	m := mat.NewDense(2, 2, nil)
	m.Set(0, 0, dot(x1, y1)/T)
	m.Set(0, 1, dot(x1, y2)/T)
	m.Set(1, 0, dot(x2, y1)/T)
	m.Set(1, 1, dot(x2, y2)/T)
	return m
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
