// Package panelcv orchestrates walk-forward backtesting and forecasting of
// multi-series panels across a set of pluggable forecasting backends. The
// heavy lifting lives in the subpackages: dataset holds the panel table,
// backtest the walk-forward engine, quantile the uncertainty representation
// converter, models the backend contract and eval the accuracy metrics.
package panelcv

import (
	"errors"
	"fmt"
	"sort"

	"github.com/panelcv/go-panelcv/models"
)

var (
	ErrDuplicateAlias = errors.New("a model with this alias already exists")
	ErrUnknownModel   = errors.New("model alias not found in registry")
	ErrNoModels       = errors.New("no models provided")
)

// Registry maps model aliases to forecasting backend instances. Each caller
// constructs its own registry; there is no process-wide shared one, so test
// suites and concurrent requests stay isolated.
type Registry struct {
	models map[string]models.Forecaster
}

func NewRegistry(fcs ...models.Forecaster) (*Registry, error) {
	r := &Registry{
		models: make(map[string]models.Forecaster, len(fcs)),
	}
	for _, m := range fcs {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(m models.Forecaster) error {
	if _, exists := r.models[m.Alias()]; exists {
		return fmt.Errorf("alias %q, %w", m.Alias(), ErrDuplicateAlias)
	}
	r.models[m.Alias()] = m
	return nil
}

// Lookup returns the backend registered under alias. The error of a miss
// names the known aliases.
func (r *Registry) Lookup(alias string) (models.Forecaster, error) {
	m, exists := r.models[alias]
	if !exists {
		return nil, fmt.Errorf("alias %q not among %v, %w", alias, r.Aliases(), ErrUnknownModel)
	}
	return m, nil
}

// Aliases returns the registered aliases in sorted order.
func (r *Registry) Aliases() []string {
	out := make([]string, 0, len(r.models))
	for alias := range r.models {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int {
	return len(r.models)
}
