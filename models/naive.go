package models

import (
	"math"

	"github.com/panelcv/go-panelcv/dataset"
)

type NaiveOptions struct {
	Alias string `json:"alias"`
}

func NewDefaultNaiveOptions() *NaiveOptions {
	return &NaiveOptions{
		Alias: "naive",
	}
}

// Naive repeats the last observed value of each series. The forecast error
// scale grows with the square root of the step.
type Naive struct {
	opt *NaiveOptions
}

func NewNaive(opt *NaiveOptions) *Naive {
	if opt == nil {
		opt = NewDefaultNaiveOptions()
	}
	return &Naive{opt: opt}
}

func (m *Naive) Alias() string {
	return m.opt.Alias
}

func (m *Naive) Forecast(df *dataset.Table, h int, freq string, level, quantiles []float64) (*dataset.Table, error) {
	return runForecast(df, h, freq, m.opt.Alias, level, quantiles, 0, func(y []float64, _ int) (*seriesFit, error) {
		last := y[len(y)-1]
		resid := make([]float64, 0, len(y)-1)
		for i := 1; i < len(y); i++ {
			resid = append(resid, y[i]-y[i-1])
		}
		sigma := residualStdDev(resid)
		return &seriesFit{
			point: func(int) float64 { return last },
			sigma: func(step int) float64 { return sigma * math.Sqrt(float64(step)) },
		}, nil
	})
}

type SeasonalNaiveOptions struct {
	Alias string `json:"alias"`
	// SeasonLength overrides the seasonal period implied by the panel
	// frequency when set to a positive value.
	SeasonLength int `json:"season_length"`
}

func NewDefaultSeasonalNaiveOptions() *SeasonalNaiveOptions {
	return &SeasonalNaiveOptions{
		Alias: "seasonal_naive",
	}
}

// SeasonalNaive repeats the value observed one seasonal period ago. A series
// shorter than the period wraps around its own history.
type SeasonalNaive struct {
	opt *SeasonalNaiveOptions
}

func NewSeasonalNaive(opt *SeasonalNaiveOptions) *SeasonalNaive {
	if opt == nil {
		opt = NewDefaultSeasonalNaiveOptions()
	}
	return &SeasonalNaive{opt: opt}
}

func (m *SeasonalNaive) Alias() string {
	return m.opt.Alias
}

func (m *SeasonalNaive) Forecast(df *dataset.Table, h int, freq string, level, quantiles []float64) (*dataset.Table, error) {
	return runForecast(df, h, freq, m.opt.Alias, level, quantiles, m.opt.SeasonLength, func(y []float64, season int) (*seriesFit, error) {
		n := len(y)
		if season > n {
			season = n
		}
		resid := make([]float64, 0, n-season)
		for i := season; i < n; i++ {
			resid = append(resid, y[i]-y[i-season])
		}
		sigma := residualStdDev(resid)
		period := season
		return &seriesFit{
			point: func(step int) float64 {
				return y[n-period+(step-1)%period]
			},
			sigma: func(step int) float64 {
				return sigma * math.Sqrt(float64((step-1)/period+1))
			},
		}, nil
	})
}
