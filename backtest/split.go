// Package backtest implements walk-forward cross-validation over a panel of
// independent time series: it repeatedly splits the panel into train and
// validation windows moving backward from the end of history, runs a
// forecasting backend on every training window and reassembles the per-window
// forecasts into one validated result table.
package backtest

import (
	"iter"
	"time"

	"github.com/panelcv/go-panelcv/dataset"
	"github.com/panelcv/go-panelcv/freq"
)

// Window is one walk-forward split. Cutoffs holds the last training timestamp
// per series; Train contains all rows at or before the series cutoff and
// Valid the rows of the h periods immediately after it.
type Window struct {
	Index   int
	Cutoffs map[string]time.Time
	Train   *dataset.Table
	Valid   *dataset.Table
}

// Split returns a lazy finite sequence of nWindows walk-forward windows over
// the panel. Cutoffs are computed per series from its own last timestamp; for
// window i the cutoff sits h + stepSize*(nWindows-1-i) periods before the end
// of the series, so consecutive windows advance by stepSize and the last
// window's validation slice ends exactly at the last observation. The panel
// is stably sorted by (series_id, timestamp) first, only when needed. Series
// too short for the earliest cutoffs simply contribute fewer rows; that is
// not an error here.
func Split(df *dataset.Table, h, nWindows int, f freq.Frequency, stepSize int) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		sorted := df.Sort()
		times := sorted.Times()
		groups := sorted.Groups()
		testSize := h + stepSize*(nWindows-1)

		for i := 0; i < nWindows; i++ {
			offset := testSize - i*stepSize
			cutoffs := make(map[string]time.Time, len(groups))
			var trainIdx, validIdx []int
			for _, g := range groups {
				cutoff := f.Add(times[g.End-1], -offset)
				validEnd := f.Add(cutoff, h)
				cutoffs[g.ID] = cutoff
				for r := g.Start; r < g.End; r++ {
					switch {
					case !times[r].After(cutoff):
						trainIdx = append(trainIdx, r)
					case !times[r].After(validEnd):
						validIdx = append(validIdx, r)
					}
				}
			}
			w := Window{
				Index:   i,
				Cutoffs: cutoffs,
				Train:   sorted.TakeRows(trainIdx),
				Valid:   sorted.TakeRows(validIdx),
			}
			if !yield(w) {
				return
			}
		}
	}
}
