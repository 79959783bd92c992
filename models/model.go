// Package models defines the contract every pluggable forecasting backend
// implements, plus a set of baseline backends used for benchmarking and
// testing. The walk-forward backtest engine is built against the Forecaster
// interface; heavy statistical or neural forecasters live outside this module
// and plug in through the same contract.
package models

import (
	"github.com/panelcv/go-panelcv/dataset"
)

// Forecaster is the capability every forecasting backend exposes. Forecast
// produces forecasts for h future periods per series found in df; result rows
// must cover every (series_id, future_timestamp) pair for all ids present in
// the input. At most one of level/quantiles may be non-nil.
type Forecaster interface {
	Alias() string
	Forecast(df *dataset.Table, h int, freq string, level, quantiles []float64) (*dataset.Table, error)
}

// CrossValidator is optionally implemented by backends with a more efficient
// batched cross-validation path. Implementations must preserve the output
// semantics of the default walk-forward algorithm exactly.
type CrossValidator interface {
	CrossValidation(df *dataset.Table, h int, freq string, nWindows, stepSize int, level, quantiles []float64) (*dataset.Table, error)
}
