// Package quantile converts between the two representations of forecast
// uncertainty: symmetric confidence levels in (0, 100] and quantiles in
// (0, 1). It owns the column naming contract for interval and quantile
// columns and reshapes forecast tables between the two views.
package quantile

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/panelcv/go-panelcv/dataset"
)

var (
	ErrConflictingIntervalSpec = errors.New("level and quantiles must not be provided simultaneously")
	ErrInvalidQuantile         = errors.New("quantiles must be floats strictly between 0 and 1")
)

// LevelToQuantiles returns the lower and upper quantiles delimiting the
// central interval of the given level, e.g. 80 maps to (0.1, 0.9).
func LevelToQuantiles(lv float64) (float64, float64) {
	qLo := (1.0 - lv/100.0) / 2.0
	return qLo, 1.0 - qLo
}

// QuantileToLevel recovers the interval level a quantile belongs to,
// |100 - 200q|. The median maps to level 0, which has no interval and is
// represented by the point forecast.
func QuantileToLevel(q float64) float64 {
	return roundTo(math.Abs(100.0-200.0*q), 6)
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}

// FormatLevel renders a level for use in column names: integral levels
// without a decimal point, e.g. 80 -> "80", 99.5 -> "99.5".
func FormatLevel(lv float64) string {
	return strconv.FormatFloat(roundTo(lv, 6), 'f', -1, 64)
}

// LoColumn names the lower interval column of a model at a level.
func LoColumn(alias string, lv float64) string {
	return fmt.Sprintf("%s-lo-%s", alias, FormatLevel(lv))
}

// HiColumn names the upper interval column of a model at a level.
func HiColumn(alias string, lv float64) string {
	return fmt.Sprintf("%s-hi-%s", alias, FormatLevel(lv))
}

// Column names the quantile column of a model, using the rounded percentage,
// e.g. q=0.9 -> "model-q-90".
func Column(alias string, q float64) string {
	return fmt.Sprintf("%s-q-%d", alias, int(math.Round(100.0*q)))
}

// Converter captures one request's uncertainty specification and reshapes
// forecast tables between the level and quantile views. It is immutable once
// constructed.
type Converter struct {
	level            []float64
	quantiles        []float64
	levelWasProvided bool
}

// New builds a converter from exactly one of level or quantiles. With levels,
// the quantile set is the sorted deduplicated union of each level's bounds.
// With quantiles, each must lie strictly in (0, 1) and the level list is the
// sorted deduplicated set of recovered levels. With neither, the converter is
// a pass-through.
func New(level, quantiles []float64) (*Converter, error) {
	if level != nil && quantiles != nil {
		return nil, ErrConflictingIntervalSpec
	}
	c := &Converter{}
	switch {
	case level != nil:
		c.levelWasProvided = true
		c.level = slices.Clone(level)
		qs := make([]float64, 0, 2*len(level))
		for _, lv := range level {
			qLo, qHi := LevelToQuantiles(lv)
			qs = append(qs, qLo, qHi)
		}
		c.quantiles = dedupSorted(qs)
	case quantiles != nil:
		for _, q := range quantiles {
			// NaN fails every comparison, so test for membership in (0, 1)
			// rather than for exclusion from it
			if !(q > 0.0 && q < 1.0) {
				return nil, fmt.Errorf("got %v, %w", q, ErrInvalidQuantile)
			}
		}
		c.quantiles = slices.Clone(quantiles)
		lvls := make([]float64, 0, len(quantiles))
		for _, q := range quantiles {
			lvls = append(lvls, QuantileToLevel(q))
		}
		c.level = dedupSorted(lvls)
	}
	return c, nil
}

func dedupSorted(vals []float64) []float64 {
	slices.Sort(vals)
	return slices.Compact(vals)
}

// Level returns the level list, nil when uncertainty was not requested.
func (c *Converter) Level() []float64 {
	return c.level
}

// Quantiles returns the quantile list, nil when uncertainty was not requested.
func (c *Converter) Quantiles() []float64 {
	return c.quantiles
}

// LevelWasProvided reports whether the caller specified levels rather than
// quantiles.
func (c *Converter) LevelWasProvided() bool {
	return c.levelWasProvided
}

// RequestArgs returns the (level, quantiles) pair to forward to a forecasting
// backend: at most one is non-nil.
func (c *Converter) RequestArgs() ([]float64, []float64) {
	if c.levelWasProvided {
		return c.level, nil
	}
	return nil, c.quantiles
}

// ToQuantiles materializes a quantile column per model and quantile from a
// level-based table. The source for the median is the model's point column,
// otherwise the interval column of the quantile's level. A missing source
// column is an error: a level-based result must carry every interval column.
// The result keeps non-interval columns plus the new quantile columns; it is
// the input unchanged when the request was quantile-based or uncertainty was
// not requested.
func (c *Converter) ToQuantiles(tbl *dataset.Table, models []string) (*dataset.Table, error) {
	if !c.levelWasProvided || len(c.level) == 0 {
		return tbl, nil
	}
	outCols := nonIntervalColumns(tbl)
	cur := tbl
	for _, alias := range models {
		for _, q := range c.quantiles {
			var src string
			switch {
			case q == 0.5:
				src = alias
			case q < 0.5:
				src = LoColumn(alias, QuantileToLevel(q))
			default:
				src = HiColumn(alias, QuantileToLevel(q))
			}
			vals, err := cur.Column(src)
			if err != nil {
				return nil, err
			}
			qCol := Column(alias, q)
			cur, err = cur.WithColumn(qCol, vals)
			if err != nil {
				return nil, err
			}
			if !slices.Contains(outCols, qCol) {
				outCols = append(outCols, qCol)
			}
		}
	}
	return cur.Select(outCols)
}

// FromQuantiles is the inverse view, active only for level-based requests.
// The median quantile column, when present via level 0, is copied into the
// point column. Each level whose two source quantile columns exist gets its
// interval columns back; levels with absent sources are silently skipped,
// since intermediate results may legitimately carry a partial quantile set.
// Quantile columns are excluded from the result.
func (c *Converter) FromQuantiles(tbl *dataset.Table, models []string) (*dataset.Table, error) {
	if !c.levelWasProvided || len(c.quantiles) == 0 {
		return tbl, nil
	}
	outCols := nonQuantileColumns(tbl)
	cur := tbl
	var err error
	for _, alias := range models {
		if slices.Contains(c.level, 0.0) {
			mid := Column(alias, 0.5)
			if cur.HasColumn(mid) {
				vals, _ := cur.Column(mid)
				cur, err = cur.WithColumn(alias, vals)
				if err != nil {
					return nil, err
				}
				if !slices.Contains(outCols, alias) {
					outCols = append(outCols, alias)
				}
			}
		}
		for _, lv := range c.level {
			qLo, qHi := LevelToQuantiles(lv)
			loSrc, hiSrc := Column(alias, qLo), Column(alias, qHi)
			if !cur.HasColumn(loSrc) || !cur.HasColumn(hiSrc) {
				continue
			}
			loVals, _ := cur.Column(loSrc)
			hiVals, _ := cur.Column(hiSrc)
			cur, err = cur.WithColumn(LoColumn(alias, lv), loVals)
			if err != nil {
				return nil, err
			}
			cur, err = cur.WithColumn(HiColumn(alias, lv), hiVals)
			if err != nil {
				return nil, err
			}
			for _, name := range []string{LoColumn(alias, lv), HiColumn(alias, lv)} {
				if !slices.Contains(outCols, name) {
					outCols = append(outCols, name)
				}
			}
		}
	}
	return cur.Select(outCols)
}

func nonIntervalColumns(tbl *dataset.Table) []string {
	var out []string
	for _, name := range tbl.DataColumns() {
		if !strings.Contains(name, "-lo-") && !strings.Contains(name, "-hi-") {
			out = append(out, name)
		}
	}
	return out
}

func nonQuantileColumns(tbl *dataset.Table) []string {
	var out []string
	for _, name := range tbl.DataColumns() {
		if !strings.Contains(name, "-q-") {
			out = append(out, name)
		}
	}
	return out
}
