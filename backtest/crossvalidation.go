package backtest

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panelcv/go-panelcv/dataset"
	"github.com/panelcv/go-panelcv/freq"
	"github.com/panelcv/go-panelcv/models"
	"github.com/panelcv/go-panelcv/quantile"
)

var (
	ErrExogenousRegressors = errors.New("cross validation with exogenous regressors is not supported")
	ErrIncompleteResult    = errors.New("cross validation produced fewer rows than expected; verify that freq matches the series and that there are no missing periods")
	ErrNoWindows           = errors.New("number of windows must be at least 1")
)

type Options struct {
	// Concurrency bounds the number of in-flight per-window forecast
	// calls. Values below 2 run windows sequentially. Results are always
	// assembled in window order regardless of completion order.
	Concurrency int `json:"concurrency"`
}

func NewDefaultOptions() *Options {
	return &Options{}
}

// Run cross-validates a backend over the panel, dispatching to the backend's
// own batched implementation when it provides one and to the default
// walk-forward algorithm otherwise.
func Run(model models.Forecaster, df *dataset.Table, h int, freqStr string, nWindows, stepSize int, level, quantiles []float64, opt *Options) (*dataset.Table, error) {
	if cv, ok := model.(models.CrossValidator); ok {
		return cv.CrossValidation(df, h, freqStr, nWindows, stepSize, level, quantiles)
	}
	return CrossValidation(model, df, h, freqStr, nWindows, stepSize, level, quantiles, opt)
}

// CrossValidation is the default walk-forward algorithm: resolve the panel
// frequency, split into windows, forecast each training window, stamp the
// per-series cutoffs, inner-join against the validation slice and
// concatenate the per-window results in window order. A window whose join
// loses rows fails the whole run; a truncated result would silently corrupt
// any evaluation computed from it. stepSize values below 1 default to h.
func CrossValidation(model models.Forecaster, df *dataset.Table, h int, freqStr string, nWindows, stepSize int, level, quantiles []float64, opt *Options) (*dataset.Table, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if nWindows < 1 {
		return nil, fmt.Errorf("got %d, %w", nWindows, ErrNoWindows)
	}
	if h < 1 {
		return nil, fmt.Errorf("got %d, %w", h, models.ErrInvalidHorizon)
	}
	if stepSize < 1 {
		stepSize = h
	}
	if _, err := quantile.New(level, quantiles); err != nil {
		return nil, err
	}
	f, err := freq.Resolve(df, freqStr)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve frequency, %w", err)
	}
	if !df.HasColumn(dataset.ColValue) {
		return nil, fmt.Errorf("panel has no %s column, %w", dataset.ColValue, dataset.ErrMissingColumn)
	}
	if len(df.DataColumns()) > 1 {
		return nil, fmt.Errorf("panel has columns %v, %w", df.Columns(), ErrExogenousRegressors)
	}

	results := make([]*dataset.Table, nWindows)
	if opt.Concurrency > 1 {
		sem := make(chan struct{}, opt.Concurrency)
		var wg sync.WaitGroup
		var mu sync.Mutex
		var firstErr error
		for w := range Split(df, h, nWindows, f, stepSize) {
			wg.Add(1)
			sem <- struct{}{}
			go func(w Window) {
				defer wg.Done()
				defer func() { <-sem }()
				res, err := evalWindow(model, w, h, f, level, quantiles)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					return
				}
				results[w.Index] = res
			}(w)
		}
		wg.Wait()
		if firstErr != nil {
			return nil, firstErr
		}
	} else {
		for w := range Split(df, h, nWindows, f, stepSize) {
			res, err := evalWindow(model, w, h, f, level, quantiles)
			if err != nil {
				return nil, err
			}
			results[w.Index] = res
		}
	}
	return Assemble(results)
}

func evalWindow(model models.Forecaster, w Window, h int, f freq.Frequency, level, quantiles []float64) (*dataset.Table, error) {
	yPred, err := model.Forecast(w.Train, h, f.String(), level, quantiles)
	if err != nil {
		return nil, fmt.Errorf("unable to forecast window %d, %w", w.Index, err)
	}
	yPred = yPred.WithCutoffs(w.Cutoffs)

	validPanel, err := w.Valid.Select([]string{dataset.ColValue})
	if err != nil {
		return nil, err
	}
	joined, err := dataset.Join(validPanel, yPred)
	if err != nil {
		return nil, fmt.Errorf("unable to join window %d forecast to validation slice, %w", w.Index, err)
	}
	if joined.Len() < w.Valid.Len() {
		return nil, fmt.Errorf("window %d matched %d of %d validation rows, %w", w.Index, joined.Len(), w.Valid.Len(), ErrIncompleteResult)
	}
	slog.Debug("cross validation window complete", "model", model.Alias(), "window", w.Index, "rows", joined.Len())
	return joined, nil
}

// Assemble concatenates per-window results in window order, discarding any
// carried positional row identity, and moves the value column to the head of
// the data columns so the output leads with the canonical
// [series_id, timestamp, cutoff, value] prefix.
func Assemble(perWindow []*dataset.Table) (*dataset.Table, error) {
	out, err := dataset.Concat(perWindow)
	if err != nil {
		return nil, fmt.Errorf("unable to concatenate window results, %w", err)
	}
	return out.Canonical(), nil
}
