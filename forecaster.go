package panelcv

import (
	"fmt"
	"strings"

	"github.com/panelcv/go-panelcv/backtest"
	"github.com/panelcv/go-panelcv/dataset"
	"github.com/panelcv/go-panelcv/eval"
	"github.com/panelcv/go-panelcv/freq"
	"github.com/panelcv/go-panelcv/models"
	"github.com/panelcv/go-panelcv/quantile"
)

// Forecaster runs a set of forecasting backends side by side over the same
// panel and merges their outputs into one table keyed by
// (series_id, timestamp) plus cutoff for cross-validation. Backends that
// natively report uncertainty as quantile columns are mapped back to the
// requested interval columns, so level-based callers see a uniform shape.
// It satisfies the models.Forecaster and models.CrossValidator contracts
// itself, so a multi-model forecaster nests as a backend of another.
type Forecaster struct {
	opt     *Options
	models  []models.Forecaster
	aliases []string
}

// New creates a multi-model Forecaster from the given backends, preserving
// their order in merged outputs. Duplicate aliases are rejected.
func New(opt *Options, fcs ...models.Forecaster) (*Forecaster, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if len(fcs) == 0 {
		return nil, ErrNoModels
	}
	seen := make(map[string]struct{}, len(fcs))
	aliases := make([]string, 0, len(fcs))
	for _, m := range fcs {
		if _, exists := seen[m.Alias()]; exists {
			return nil, fmt.Errorf("alias %q, %w", m.Alias(), ErrDuplicateAlias)
		}
		seen[m.Alias()] = struct{}{}
		aliases = append(aliases, m.Alias())
	}
	return &Forecaster{
		opt:     opt,
		models:  fcs,
		aliases: aliases,
	}, nil
}

// Alias names the composite backend by joining its member aliases.
func (f *Forecaster) Alias() string {
	return strings.Join(f.aliases, "+")
}

// Aliases returns the backend aliases in construction order.
func (f *Forecaster) Aliases() []string {
	out := make([]string, len(f.aliases))
	copy(out, f.aliases)
	return out
}

// Forecast produces h future periods per series from every backend and merges
// the results on (series_id, timestamp).
func (f *Forecaster) Forecast(df *dataset.Table, h int, freqStr string, level, quantiles []float64) (*dataset.Table, error) {
	qc, err := quantile.New(level, quantiles)
	if err != nil {
		return nil, err
	}
	lvl, qs := qc.RequestArgs()

	var merged *dataset.Table
	for _, m := range f.models {
		res, err := m.Forecast(df, h, freqStr, lvl, qs)
		if err != nil {
			return nil, fmt.Errorf("unable to forecast with model %q, %w", m.Alias(), err)
		}
		res, err = qc.FromQuantiles(res, []string{m.Alias()})
		if err != nil {
			return nil, err
		}
		merged, err = mergeResults(merged, res)
		if err != nil {
			return nil, fmt.Errorf("unable to merge forecast of model %q, %w", m.Alias(), err)
		}
	}
	return merged, nil
}

// CrossValidation walk-forward backtests every backend over the panel and
// merges the per-model result tables on (series_id, timestamp, cutoff).
func (f *Forecaster) CrossValidation(df *dataset.Table, h int, freqStr string, nWindows, stepSize int, level, quantiles []float64) (*dataset.Table, error) {
	qc, err := quantile.New(level, quantiles)
	if err != nil {
		return nil, err
	}
	lvl, qs := qc.RequestArgs()

	var merged *dataset.Table
	for _, m := range f.models {
		res, err := backtest.Run(m, df, h, freqStr, nWindows, stepSize, lvl, qs, f.opt.BacktestOptions)
		if err != nil {
			return nil, fmt.Errorf("unable to cross validate model %q, %w", m.Alias(), err)
		}
		res, err = qc.FromQuantiles(res, []string{m.Alias()})
		if err != nil {
			return nil, err
		}
		merged, err = mergeResults(merged, res)
		if err != nil {
			return nil, fmt.Errorf("unable to merge cross validation of model %q, %w", m.Alias(), err)
		}
	}
	return merged, nil
}

// Evaluate scores every backend's point forecasts in a cross-validation
// output against the training panel, using the seasonal period implied by the
// panel frequency to scale MASE.
func (f *Forecaster) Evaluate(cv, train *dataset.Table, freqStr string) (*eval.Summary, error) {
	fq, err := freq.Resolve(train, freqStr)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve frequency, %w", err)
	}
	return eval.Summarize(cv, train, f.aliases, freq.Seasonality(fq))
}

// mergeResults inner-joins a new per-model result onto the accumulated table,
// dropping the duplicate value column carried by cross-validation outputs.
func mergeResults(merged, res *dataset.Table) (*dataset.Table, error) {
	if merged == nil {
		return res, nil
	}
	names := make([]string, 0, len(res.DataColumns()))
	for _, name := range res.DataColumns() {
		if name == dataset.ColValue && merged.HasColumn(dataset.ColValue) {
			continue
		}
		names = append(names, name)
	}
	proj, err := res.Select(names)
	if err != nil {
		return nil, err
	}
	return dataset.Join(merged, proj)
}
