package models

import (
	"fmt"
	"math"

	"github.com/panelcv/go-panelcv/dataset"
	"gonum.org/v1/gonum/stat"
)

type HistoricAverageOptions struct {
	Alias string `json:"alias"`
}

func NewDefaultHistoricAverageOptions() *HistoricAverageOptions {
	return &HistoricAverageOptions{
		Alias: "historic_average",
	}
}

// HistoricAverage forecasts the mean of each series' full history.
type HistoricAverage struct {
	opt *HistoricAverageOptions
}

func NewHistoricAverage(opt *HistoricAverageOptions) *HistoricAverage {
	if opt == nil {
		opt = NewDefaultHistoricAverageOptions()
	}
	return &HistoricAverage{opt: opt}
}

func (m *HistoricAverage) Alias() string {
	return m.opt.Alias
}

func (m *HistoricAverage) Forecast(df *dataset.Table, h int, freq string, level, quantiles []float64) (*dataset.Table, error) {
	return runForecast(df, h, freq, m.opt.Alias, level, quantiles, 0, func(y []float64, _ int) (*seriesFit, error) {
		mean := stat.Mean(y, nil)
		resid := make([]float64, len(y))
		for i, v := range y {
			resid[i] = v - mean
		}
		scale := residualStdDev(resid) * math.Sqrt(1.0+1.0/float64(len(y)))
		return &seriesFit{
			point: func(int) float64 { return mean },
			sigma: func(int) float64 { return scale },
		}, nil
	})
}

type WindowAverageOptions struct {
	Alias      string `json:"alias"`
	WindowSize int    `json:"window_size"`
}

func NewDefaultWindowAverageOptions() *WindowAverageOptions {
	return &WindowAverageOptions{
		Alias:      "window_average",
		WindowSize: 7,
	}
}

// WindowAverage forecasts the mean of the last WindowSize observations of
// each series. Series shorter than the window use their full history.
type WindowAverage struct {
	opt *WindowAverageOptions
}

func NewWindowAverage(opt *WindowAverageOptions) (*WindowAverage, error) {
	if opt == nil {
		opt = NewDefaultWindowAverageOptions()
	}
	if opt.WindowSize < 1 {
		return nil, fmt.Errorf("got window size %d, %w", opt.WindowSize, ErrInvalidWindow)
	}
	return &WindowAverage{opt: opt}, nil
}

func (m *WindowAverage) Alias() string {
	return m.opt.Alias
}

func (m *WindowAverage) Forecast(df *dataset.Table, h int, freq string, level, quantiles []float64) (*dataset.Table, error) {
	return runForecast(df, h, freq, m.opt.Alias, level, quantiles, 0, func(y []float64, _ int) (*seriesFit, error) {
		w := m.opt.WindowSize
		if w > len(y) {
			w = len(y)
		}
		window := y[len(y)-w:]
		mean := stat.Mean(window, nil)
		resid := make([]float64, len(window))
		for i, v := range window {
			resid[i] = v - mean
		}
		scale := residualStdDev(resid) * math.Sqrt(1.0+1.0/float64(w))
		return &seriesFit{
			point: func(int) float64 { return mean },
			sigma: func(int) float64 { return scale },
		}, nil
	})
}

type ZeroModelOptions struct {
	Alias string `json:"alias"`
}

func NewDefaultZeroModelOptions() *ZeroModelOptions {
	return &ZeroModelOptions{
		Alias: "zero_model",
	}
}

// ZeroModel forecasts zero for every future period. Useful as a floor when
// comparing model accuracy.
type ZeroModel struct {
	opt *ZeroModelOptions
}

func NewZeroModel(opt *ZeroModelOptions) *ZeroModel {
	if opt == nil {
		opt = NewDefaultZeroModelOptions()
	}
	return &ZeroModel{opt: opt}
}

func (m *ZeroModel) Alias() string {
	return m.opt.Alias
}

func (m *ZeroModel) Forecast(df *dataset.Table, h int, freq string, level, quantiles []float64) (*dataset.Table, error) {
	return runForecast(df, h, freq, m.opt.Alias, level, quantiles, 0, func(y []float64, _ int) (*seriesFit, error) {
		sigma := residualStdDev(y)
		return &seriesFit{
			point: func(int) float64 { return 0.0 },
			sigma: func(int) float64 { return sigma },
		}, nil
	})
}
