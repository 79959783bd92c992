package models

import (
	"fmt"
	"time"

	"github.com/panelcv/go-panelcv/dataset"
	"github.com/panelcv/go-panelcv/freq"
	"github.com/panelcv/go-panelcv/quantile"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// seriesFit is one fitted series: a point forecast and the scale of its
// forecast error per future step, both indexed from 1.
type seriesFit struct {
	point func(step int) float64
	sigma func(step int) float64
}

type fitFunc func(y []float64, season int) (*seriesFit, error)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// runForecast drives every baseline backend: resolve the frequency, fit each
// series of the sorted panel, generate the h future timestamps per series and
// emit the point column plus interval or quantile columns under a normal
// approximation of the forecast error.
func runForecast(df *dataset.Table, h int, freqStr, alias string, level, quantiles []float64, season int, fit fitFunc) (*dataset.Table, error) {
	if df == nil || df.Len() == 0 {
		return nil, ErrNoTrainingData
	}
	if h < 1 {
		return nil, fmt.Errorf("got %d, %w", h, ErrInvalidHorizon)
	}
	if _, err := quantile.New(level, quantiles); err != nil {
		return nil, err
	}
	f, err := freq.Resolve(df, freqStr)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve frequency, %w", err)
	}
	if season <= 0 {
		season = freq.Seasonality(f)
	}

	sorted := df.Sort()
	values, err := sorted.Column(dataset.ColValue)
	if err != nil {
		return nil, fmt.Errorf("panel has no value column, %w", err)
	}
	groups := sorted.Groups()

	n := len(groups) * h
	ids := make([]string, 0, n)
	times := make([]time.Time, 0, n)
	points := make([]float64, 0, n)
	sigmas := make([]float64, 0, n)
	for _, g := range groups {
		sf, err := fit(values[g.Start:g.End], season)
		if err != nil {
			return nil, fmt.Errorf("unable to fit series %q, %w", g.ID, err)
		}
		lastTime := sorted.Times()[g.End-1]
		for step := 1; step <= h; step++ {
			ids = append(ids, g.ID)
			times = append(times, f.Add(lastTime, step))
			points = append(points, sf.point(step))
			sigmas = append(sigmas, sf.sigma(step))
		}
	}

	out, err := dataset.New(ids, times)
	if err != nil {
		return nil, err
	}
	out, err = out.WithColumn(alias, points)
	if err != nil {
		return nil, err
	}
	for _, lv := range level {
		_, qHi := quantile.LevelToQuantiles(lv)
		z := stdNormal.Quantile(qHi)
		lo := make([]float64, len(points))
		hi := make([]float64, len(points))
		for i := range points {
			lo[i] = points[i] - z*sigmas[i]
			hi[i] = points[i] + z*sigmas[i]
		}
		if out, err = out.WithColumn(quantile.LoColumn(alias, lv), lo); err != nil {
			return nil, err
		}
		if out, err = out.WithColumn(quantile.HiColumn(alias, lv), hi); err != nil {
			return nil, err
		}
	}
	for _, q := range quantiles {
		z := stdNormal.Quantile(q)
		vals := make([]float64, len(points))
		for i := range points {
			vals[i] = points[i] + z*sigmas[i]
		}
		if out, err = out.WithColumn(quantile.Column(alias, q), vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// sample standard deviation of one-step residuals, 0 when too few samples
func residualStdDev(resid []float64) float64 {
	if len(resid) < 2 {
		return 0.0
	}
	return stat.StdDev(resid, nil)
}
