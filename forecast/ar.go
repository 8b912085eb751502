package forecast

import (
	"fmt"
	"math"
)

// maxAROrder bounds the lag order the fitter will consider.
const maxAROrder = 3

// arModel is an autoregressive model with intercept,
// x_t = c + a_1*x_{t-1} + ... + a_p*x_{t-p}, fit by ordinary least
// squares. There is no ARIMA library in this codebase's dependency set;
// the normal-equations fit below is small enough to carry directly.
type arModel struct {
	order     int
	intercept float64
	coeffs    []float64
	sigma     float64
	aic       float64
}

// fitAR fits AR models of order 1..maxAROrder and keeps the one with the
// lowest AIC. A series whose design matrix is singular (a constant
// series, for instance) cannot be fit.
func fitAR(series []float64) (*arModel, error) {
	var best *arModel
	for p := 1; p <= maxAROrder; p++ {
		if len(series) < 2*p+2 {
			break
		}
		model, err := fitAROrder(series, p)
		if err != nil {
			continue
		}
		if best == nil || model.aic < best.aic {
			best = model
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no admissible ar order", ErrModelFit)
	}
	return best, nil
}

func fitAROrder(series []float64, p int) (*arModel, error) {
	n := len(series) - p
	// columns: intercept then p lags
	k := p + 1

	// normal equations X'X b = X'y
	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	xty := make([]float64, k)

	row := make([]float64, k)
	for t := p; t < len(series); t++ {
		row[0] = 1
		for j := 1; j <= p; j++ {
			row[j] = series[t-j]
		}
		y := series[t]
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * y
		}
	}

	beta, err := solve(xtx, xty)
	if err != nil {
		return nil, err
	}

	var rss float64
	for t := p; t < len(series); t++ {
		pred := beta[0]
		for j := 1; j <= p; j++ {
			pred += beta[j] * series[t-j]
		}
		resid := series[t] - pred
		rss += resid * resid
	}

	sigma := 0.0
	if n > k {
		sigma = math.Sqrt(rss / float64(n-k))
	}
	// Gaussian log-likelihood AIC, constants dropped.
	aic := float64(n)*math.Log(math.Max(rss/float64(n), 1e-12)) + 2*float64(k)

	return &arModel{
		order:     p,
		intercept: beta[0],
		coeffs:    beta[1:],
		sigma:     sigma,
		aic:       aic,
	}, nil
}

// predictor rolls the fitted model forward recursively, feeding each
// prediction back in as a lag for the next step.
func (m *arModel) predictor(series []float64, horizon int) (func(h int) float64, float64) {
	lags := make([]float64, m.order)
	for i := 0; i < m.order; i++ {
		lags[i] = series[len(series)-1-i]
	}

	path := make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		next := m.intercept
		for i, a := range m.coeffs {
			next += a * lags[i]
		}
		path[h] = next
		copy(lags[1:], lags[:len(lags)-1])
		lags[0] = next
	}

	return func(h int) float64 { return path[h-1] }, m.sigma
}

// solve runs Gaussian elimination with partial pivoting on a dense
// symmetric system. Near-zero pivots mean collinear regressors.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	m := make([][]float64, n)
	for i := range m {
		m[i] = append(append([]float64{}, a[i]...), b[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-10 {
			return nil, fmt.Errorf("%w: singular design matrix", ErrModelFit)
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < n; r++ {
			factor := m[r][col] / m[col][col]
			for c := col; c <= n; c++ {
				m[r][c] -= factor * m[col][c]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := m[i][n]
		for j := i + 1; j < n; j++ {
			sum -= m[i][j] * x[j]
		}
		x[i] = sum / m[i][i]
	}
	return x, nil
}
