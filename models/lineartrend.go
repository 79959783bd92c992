package models

import (
	"fmt"

	"github.com/panelcv/go-panelcv/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type LinearTrendOptions struct {
	Alias        string `json:"alias"`
	FitIntercept bool   `json:"fit_intercept"`
}

func NewDefaultLinearTrendOptions() *LinearTrendOptions {
	return &LinearTrendOptions{
		Alias:        "linear_trend",
		FitIntercept: true,
	}
}

// LinearTrend fits an ordinary least squares line per series over the
// observation index and extrapolates it over the horizon.
type LinearTrend struct {
	opt *LinearTrendOptions
}

func NewLinearTrend(opt *LinearTrendOptions) *LinearTrend {
	if opt == nil {
		opt = NewDefaultLinearTrendOptions()
	}
	return &LinearTrend{opt: opt}
}

func (m *LinearTrend) Alias() string {
	return m.opt.Alias
}

func (m *LinearTrend) Forecast(df *dataset.Table, h int, freq string, level, quantiles []float64) (*dataset.Table, error) {
	return runForecast(df, h, freq, m.opt.Alias, level, quantiles, 0, func(y []float64, _ int) (*seriesFit, error) {
		n := len(y)
		if n < 2 {
			return nil, fmt.Errorf("need at least 2 observations to fit a trend, got %d, %w", n, ErrShortSeries)
		}
		idx := make([]float64, n)
		for i := range idx {
			idx[i] = float64(i)
		}
		ols := &olsRegression{fitIntercept: m.opt.FitIntercept}
		if err := ols.fit(mat.NewDense(n, 1, idx), mat.NewDense(n, 1, y)); err != nil {
			return nil, err
		}

		fitted, err := ols.predict(mat.NewDense(n, 1, idx))
		if err != nil {
			return nil, err
		}
		resid := make([]float64, n)
		for i := range resid {
			resid[i] = y[i] - fitted[i]
		}
		sigma := residualStdDev(resid)

		return &seriesFit{
			point: func(step int) float64 {
				return ols.intercept + ols.coef[0]*float64(n-1+step)
			},
			sigma: func(int) float64 { return sigma },
		}, nil
	})
}

// olsRegression computes ordinary least squares using QR factorization.
type olsRegression struct {
	fitIntercept bool
	coef         []float64
	intercept    float64
}

func (o *olsRegression) fit(x, y mat.Matrix) error {
	if x == nil || y == nil {
		return ErrNoTrainingData
	}
	m, n := x.Dims()

	if o.fitIntercept {
		ones := make([]float64, m)
		floats.AddConst(1.0, ones)
		onesMx := mat.NewDense(1, m, ones)
		xT := x.T()

		var xWithOnes mat.Dense
		xWithOnes.Stack(onesMx, xT)
		x = xWithOnes.T()
		_, n = x.Dims()
	}

	yT := y.T()

	qr := new(mat.QR)
	qr.Factorize(x)

	q := new(mat.Dense)
	r := new(mat.Dense)

	qr.QTo(q)
	qr.RTo(r)
	yq := new(mat.Dense)
	yq.Mul(yT, q)

	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}

	if o.fitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
	} else {
		o.coef = c
	}

	return nil
}

func (o *olsRegression) predict(x mat.Matrix) ([]float64, error) {
	if x == nil {
		return nil, ErrNoTrainingData
	}

	coef := o.coef
	if o.fitIntercept {
		coef = append([]float64{o.intercept}, o.coef...)

		m, _ := x.Dims()
		ones := make([]float64, m)
		floats.AddConst(1.0, ones)
		onesMx := mat.NewDense(1, m, ones)
		xT := x.T()

		var xWithOnes mat.Dense
		xWithOnes.Stack(onesMx, xT)
		x = xWithOnes.T()
	}
	n := len(coef)
	coefMx := mat.NewDense(1, n, coef)

	var res mat.Dense
	res.Mul(coefMx, x.T())
	return res.RawRowView(0), nil
}
