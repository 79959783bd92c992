package dataset

import (
	"fmt"
	"time"
)

type rowKey struct {
	id     string
	ts     int64
	cutoff int64
}

// Join inner-joins two tables on (series_id, timestamp), comparing timestamps
// as instants. When both tables carry a cutoff column it participates in the
// join key; when exactly one does, it is carried through to the result. Rows
// come out in left order; data columns are the left table's followed by the
// right table's. Column name collisions are rejected.
func Join(left, right *Table) (*Table, error) {
	for _, name := range right.order {
		if left.HasColumn(name) {
			return nil, fmt.Errorf("column %q exists on both sides of join, %w", name, ErrDuplicateColumn)
		}
	}
	keyed := left.HasCutoff() && right.HasCutoff()

	rightIdx := make(map[rowKey]int, right.Len())
	for i := 0; i < right.Len(); i++ {
		k := rowKey{id: right.ids[i], ts: right.times[i].UnixNano()}
		if keyed {
			k.cutoff = right.cutoffs[i].UnixNano()
		}
		rightIdx[k] = i
	}

	var leftRows, rightRows []int
	for i := 0; i < left.Len(); i++ {
		k := rowKey{id: left.ids[i], ts: left.times[i].UnixNano()}
		if keyed {
			k.cutoff = left.cutoffs[i].UnixNano()
		}
		if j, exists := rightIdx[k]; exists {
			leftRows = append(leftRows, i)
			rightRows = append(rightRows, j)
		}
	}

	out := &Table{
		ids:   make([]string, len(leftRows)),
		times: make([]time.Time, len(leftRows)),
		order: make([]string, 0, len(left.order)+len(right.order)),
		cols:  make(map[string][]float64, len(left.cols)+len(right.cols)),
	}
	for j, i := range leftRows {
		out.ids[j] = left.ids[i]
		out.times[j] = left.times[i]
	}
	if left.HasCutoff() {
		out.cutoffs = takeTimes(left.cutoffs, leftRows)
	} else if right.HasCutoff() {
		out.cutoffs = takeTimes(right.cutoffs, rightRows)
	}
	for _, name := range left.order {
		out.order = append(out.order, name)
		out.cols[name] = takeFloats(left.cols[name], leftRows)
	}
	for _, name := range right.order {
		out.order = append(out.order, name)
		out.cols[name] = takeFloats(right.cols[name], rightRows)
	}
	return out, nil
}

func takeTimes(vals []time.Time, idx []int) []time.Time {
	out := make([]time.Time, len(idx))
	for j, i := range idx {
		out[j] = vals[i]
	}
	return out
}

func takeFloats(vals []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for j, i := range idx {
		out[j] = vals[i]
	}
	return out
}

// Concat vertically concatenates schema-identical tables in the given order.
// Any positional row identity of the inputs is discarded.
func Concat(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, ErrNoRows
	}
	first := tables[0]
	n := 0
	for _, tbl := range tables {
		if len(tbl.order) != len(first.order) || tbl.HasCutoff() != first.HasCutoff() {
			return nil, fmt.Errorf("cannot concatenate %v with %v, %w", first.Columns(), tbl.Columns(), ErrSchemaMismatch)
		}
		for i, name := range tbl.order {
			if name != first.order[i] {
				return nil, fmt.Errorf("cannot concatenate %v with %v, %w", first.Columns(), tbl.Columns(), ErrSchemaMismatch)
			}
		}
		n += tbl.Len()
	}

	out := &Table{
		ids:   make([]string, 0, n),
		times: make([]time.Time, 0, n),
		order: make([]string, len(first.order)),
		cols:  make(map[string][]float64, len(first.cols)),
	}
	copy(out.order, first.order)
	if first.HasCutoff() {
		out.cutoffs = make([]time.Time, 0, n)
	}
	for _, name := range out.order {
		out.cols[name] = make([]float64, 0, n)
	}
	for _, tbl := range tables {
		out.ids = append(out.ids, tbl.ids...)
		out.times = append(out.times, tbl.times...)
		if out.cutoffs != nil {
			out.cutoffs = append(out.cutoffs, tbl.cutoffs...)
		}
		for _, name := range out.order {
			out.cols[name] = append(out.cols[name], tbl.cols[name]...)
		}
	}
	return out, nil
}
