package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate marks a regression or test that could not be computed
// (singular design matrix, zero variance, too few observations). Callers
// convert it to documented sentinel values instead of propagating.
var ErrDegenerate = errors.New("degenerate statistic")

// OLSResult holds an ordinary least squares fit with an intercept.
// Coeffs[0] is the intercept, Coeffs[1:] follow the regressor order.
type OLSResult struct {
	Coeffs    []float64
	StdErrs   []float64
	Residuals []float64
	SSR       float64
	NObs      int
	NParams   int
}

// TStat returns the t-statistic of coefficient i.
func (r *OLSResult) TStat(i int) float64 {
	if r.StdErrs[i] == 0 {
		return math.NaN()
	}
	return r.Coeffs[i] / r.StdErrs[i]
}

// AIC returns the Akaike information criterion of the fit, as used for
// lag selection in the unit-root test.
func (r *OLSResult) AIC() float64 {
	n := float64(r.NObs)
	if r.SSR <= 0 {
		return math.Inf(-1)
	}
	return n*math.Log(r.SSR/n) + 2*float64(r.NParams)
}

// OLS fits y = b0 + b1*x1 + ... + bk*xk by least squares. All regressor
// slices must have the same length as y. Returns ErrDegenerate when the
// system is singular or under-determined.
func OLS(y []float64, regressors ...[]float64) (*OLSResult, error) {
	n := len(y)
	k := len(regressors) + 1 // plus intercept
	if n <= k {
		return nil, ErrDegenerate
	}
	for _, x := range regressors {
		if len(x) != n {
			return nil, ErrDegenerate
		}
	}

	X := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, x := range regressors {
			X.Set(i, j+1, x[i])
		}
	}

	yVec := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(X)

	coef := mat.NewVecDense(k, nil)
	if err := qr.SolveVecTo(coef, false, yVec); err != nil {
		return nil, ErrDegenerate
	}

	// Residuals and SSR
	fitted := mat.NewVecDense(n, nil)
	fitted.MulVec(X, coef)

	residuals := make([]float64, n)
	ssr := 0.0
	for i := 0; i < n; i++ {
		residuals[i] = y[i] - fitted.AtVec(i)
		ssr += residuals[i] * residuals[i]
	}

	// Coefficient covariance: sigma^2 (X'X)^-1
	sigma2 := ssr / float64(n-k)

	var gram mat.Dense
	gram.Mul(X.T(), X)

	var gramInv mat.Dense
	if err := gramInv.Inverse(&gram); err != nil {
		return nil, ErrDegenerate
	}

	coeffs := make([]float64, k)
	stdErrs := make([]float64, k)
	for i := 0; i < k; i++ {
		coeffs[i] = coef.AtVec(i)
		v := sigma2 * gramInv.At(i, i)
		if v < 0 {
			return nil, ErrDegenerate
		}
		stdErrs[i] = math.Sqrt(v)
	}

	return &OLSResult{
		Coeffs:    coeffs,
		StdErrs:   stdErrs,
		Residuals: residuals,
		SSR:       ssr,
		NObs:      n,
		NParams:   k,
	}, nil
}

// SlopeIntercept fits the simple regression y = a + b*x and returns
// (slope, intercept).
func SlopeIntercept(x, y []float64) (float64, float64, error) {
	res, err := OLS(y, x)
	if err != nil {
		return 0, 0, err
	}
	return res.Coeffs[1], res.Coeffs[0], nil
}
