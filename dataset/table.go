// Package dataset provides the long-format panel table shared by all
// components. A Table stores multiple named time series stacked on top of
// each other, keyed by (series_id, timestamp), with any number of named
// float64 data columns.
package dataset

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

const (
	ColSeriesID  = "series_id"
	ColTimestamp = "timestamp"
	ColCutoff    = "cutoff"
	ColValue     = "value"
)

var (
	ErrNoRows          = errors.New("no rows in table")
	ErrColLenMismatch  = errors.New("column length does not match table length")
	ErrMissingColumn   = errors.New("column not found in table")
	ErrDuplicateColumn = errors.New("duplicate column name")
	ErrReservedColumn  = errors.New("column name is reserved")
	ErrSchemaMismatch  = errors.New("tables have different schemas")
)

// Table is a long-format panel. The key columns series_id, timestamp and the
// optional cutoff are structural; all remaining columns are named float64
// slices kept in insertion order. Tables are treated as immutable values
// between components: mutating operations return a new Table which may share
// backing slices with its input.
type Table struct {
	ids     []string
	times   []time.Time
	cutoffs []time.Time
	order   []string
	cols    map[string][]float64
}

// New creates a table from parallel series_id and timestamp slices.
func New(ids []string, times []time.Time) (*Table, error) {
	if len(ids) == 0 {
		return nil, ErrNoRows
	}
	if len(times) != len(ids) {
		return nil, fmt.Errorf("got %d timestamps for %d rows, %w", len(times), len(ids), ErrColLenMismatch)
	}
	return &Table{
		ids:   ids,
		times: times,
		cols:  make(map[string][]float64),
	}, nil
}

// NewPanel creates the canonical 3-column panel (series_id, timestamp, value).
func NewPanel(ids []string, times []time.Time, values []float64) (*Table, error) {
	tbl, err := New(ids, times)
	if err != nil {
		return nil, err
	}
	return tbl.WithColumn(ColValue, values)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.ids)
}

// SeriesIDs returns the series_id column. The slice must not be mutated.
func (t *Table) SeriesIDs() []string {
	return t.ids
}

// Times returns the timestamp column. The slice must not be mutated.
func (t *Table) Times() []time.Time {
	return t.times
}

// Cutoffs returns the cutoff column or nil when the table carries none.
func (t *Table) Cutoffs() []time.Time {
	return t.cutoffs
}

// HasCutoff reports whether the table carries a cutoff column.
func (t *Table) HasCutoff() bool {
	return t.cutoffs != nil
}

// DataColumns returns the data column names in their current order.
func (t *Table) DataColumns() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Columns returns the full column listing: series_id, timestamp, cutoff when
// present, followed by the data columns in order.
func (t *Table) Columns() []string {
	out := make([]string, 0, len(t.order)+3)
	out = append(out, ColSeriesID, ColTimestamp)
	if t.HasCutoff() {
		out = append(out, ColCutoff)
	}
	return append(out, t.order...)
}

// HasColumn reports whether the named data column exists.
func (t *Table) HasColumn(name string) bool {
	_, exists := t.cols[name]
	return exists
}

// Column returns the named data column. The slice must not be mutated.
func (t *Table) Column(name string) ([]float64, error) {
	vals, exists := t.cols[name]
	if !exists {
		return nil, fmt.Errorf("no column %q, %w", name, ErrMissingColumn)
	}
	return vals, nil
}

// shallow copies the table sharing all backing slices. The column order and
// map are cloned so the copy can be extended without touching the original.
func (t *Table) clone() *Table {
	order := make([]string, len(t.order))
	copy(order, t.order)
	cols := make(map[string][]float64, len(t.cols))
	for name, vals := range t.cols {
		cols[name] = vals
	}
	return &Table{
		ids:     t.ids,
		times:   t.times,
		cutoffs: t.cutoffs,
		order:   order,
		cols:    cols,
	}
}

// WithColumn returns a new table with the named data column set. An existing
// column of the same name is replaced in place, preserving its position.
func (t *Table) WithColumn(name string, vals []float64) (*Table, error) {
	switch name {
	case ColSeriesID, ColTimestamp, ColCutoff:
		return nil, fmt.Errorf("cannot use %q as a data column, %w", name, ErrReservedColumn)
	}
	if len(vals) != t.Len() {
		return nil, fmt.Errorf("column %q has %d values for %d rows, %w", name, len(vals), t.Len(), ErrColLenMismatch)
	}
	out := t.clone()
	if !out.HasColumn(name) {
		out.order = append(out.order, name)
	}
	out.cols[name] = vals
	return out, nil
}

// WithCutoffs returns a new table with the given per-series cutoff stamped on
// every row, equivalent to a left join on series_id. Series missing from the
// map get a zero cutoff.
func (t *Table) WithCutoffs(cutoffs map[string]time.Time) *Table {
	out := t.clone()
	out.cutoffs = make([]time.Time, t.Len())
	for i, id := range t.ids {
		out.cutoffs[i] = cutoffs[id]
	}
	return out
}

// Select returns a projection containing only the named data columns, in the
// given order. Key columns are always retained.
func (t *Table) Select(names []string) (*Table, error) {
	out := &Table{
		ids:     t.ids,
		times:   t.times,
		cutoffs: t.cutoffs,
		order:   make([]string, 0, len(names)),
		cols:    make(map[string][]float64, len(names)),
	}
	for _, name := range names {
		vals, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if out.HasColumn(name) {
			return nil, fmt.Errorf("column %q selected twice, %w", name, ErrDuplicateColumn)
		}
		out.order = append(out.order, name)
		out.cols[name] = vals
	}
	return out, nil
}

// IsSorted reports whether rows are sorted by (series_id, timestamp).
func (t *Table) IsSorted() bool {
	for i := 1; i < t.Len(); i++ {
		if t.ids[i] < t.ids[i-1] {
			return false
		}
		if t.ids[i] == t.ids[i-1] && t.times[i].Before(t.times[i-1]) {
			return false
		}
	}
	return true
}

// Sort returns the table stably sorted by (series_id, timestamp). The
// receiver is returned unchanged when already sorted, avoiding a copy.
func (t *Table) Sort() *Table {
	if t.IsSorted() {
		return t
	}
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if t.ids[ia] != t.ids[ib] {
			return t.ids[ia] < t.ids[ib]
		}
		return t.times[ia].Before(t.times[ib])
	})
	return t.TakeRows(idx)
}

// TakeRows returns a new table containing the rows at idx, in idx order.
func (t *Table) TakeRows(idx []int) *Table {
	out := &Table{
		ids:   make([]string, len(idx)),
		times: make([]time.Time, len(idx)),
		order: make([]string, len(t.order)),
		cols:  make(map[string][]float64, len(t.cols)),
	}
	copy(out.order, t.order)
	for j, i := range idx {
		out.ids[j] = t.ids[i]
		out.times[j] = t.times[i]
	}
	if t.HasCutoff() {
		out.cutoffs = make([]time.Time, len(idx))
		for j, i := range idx {
			out.cutoffs[j] = t.cutoffs[i]
		}
	}
	for name, vals := range t.cols {
		taken := make([]float64, len(idx))
		for j, i := range idx {
			taken[j] = vals[i]
		}
		out.cols[name] = taken
	}
	return out
}

// Group marks the half-open row range [Start, End) of one series in a sorted
// table.
type Group struct {
	ID    string
	Start int
	End   int
}

// Groups returns the per-series row ranges of a sorted table, in row order.
func (t *Table) Groups() []Group {
	var groups []Group
	for i := 0; i < t.Len(); {
		j := i + 1
		for j < t.Len() && t.ids[j] == t.ids[i] {
			j++
		}
		groups = append(groups, Group{ID: t.ids[i], Start: i, End: j})
		i = j
	}
	return groups
}

// Canonical returns the table with its data columns reordered to put value
// first; remaining columns keep their original relative order. Downstream
// consumers index the [series_id, timestamp, cutoff, value] prefix
// positionally.
func (t *Table) Canonical() *Table {
	if !t.HasColumn(ColValue) || t.order[0] == ColValue {
		return t
	}
	out := t.clone()
	out.order = out.order[:0]
	out.order = append(out.order, ColValue)
	for _, name := range t.order {
		if name != ColValue {
			out.order = append(out.order, name)
		}
	}
	return out
}
