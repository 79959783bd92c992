package backtest

import (
	"testing"
	"time"

	"github.com/panelcv/go-panelcv/dataset"
	"github.com/panelcv/go-panelcv/freq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dailyValues(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	return vals
}

func dailyPanel(t *testing.T, id string, n int, start time.Time) *dataset.Table {
	t.Helper()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = id
	}
	tbl, err := dataset.NewPanel(ids, dataset.GenerateDailyT(n, start), dailyValues(n))
	require.NoError(t, err)
	return tbl
}

func TestSplit(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := dailyPanel(t, "a", 40, start)
	f, err := freq.Parse("D")
	require.NoError(t, err)

	var windows []Window
	for w := range Split(tbl, 5, 2, f, 5) {
		windows = append(windows, w)
	}
	require.Len(t, windows, 2)

	// windows walk backward from the end of history by stepSize; the last
	// window's validation slice ends at the final observation
	day := func(d int) time.Time { return start.AddDate(0, 0, d-1) }
	assert.Equal(t, 0, windows[0].Index)
	assert.True(t, windows[0].Cutoffs["a"].Equal(day(30)))
	assert.Equal(t, 30, windows[0].Train.Len())
	assert.Equal(t, 5, windows[0].Valid.Len())
	assert.True(t, windows[0].Valid.Times()[0].Equal(day(31)))
	assert.True(t, windows[0].Valid.Times()[4].Equal(day(35)))

	assert.Equal(t, 1, windows[1].Index)
	assert.True(t, windows[1].Cutoffs["a"].Equal(day(35)))
	assert.Equal(t, 35, windows[1].Train.Len())
	assert.Equal(t, 5, windows[1].Valid.Len())
	assert.True(t, windows[1].Valid.Times()[4].Equal(day(40)))
}

func TestSplitPerSeriesCutoffs(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	long := dailyPanel(t, "long", 30, start)
	// short series ends 10 days earlier, so its cutoffs differ
	short := dailyPanel(t, "short", 20, start)

	tbl, err := dataset.Concat([]*dataset.Table{long, short})
	require.NoError(t, err)
	f, err := freq.Parse("D")
	require.NoError(t, err)

	for w := range Split(tbl, 5, 1, f, 5) {
		assert.True(t, w.Cutoffs["long"].Equal(start.AddDate(0, 0, 24)))
		assert.True(t, w.Cutoffs["short"].Equal(start.AddDate(0, 0, 14)))
		assert.Equal(t, 10, w.Valid.Len())
	}
}

func TestSplitShortSeriesYieldsFewerRows(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	full := dailyPanel(t, "full", 40, start)
	// starts on day 33, so the earliest window has no training rows and a
	// partial validation slice; the splitter does not treat this as an error
	short := dailyPanel(t, "short", 8, start.AddDate(0, 0, 32))

	tbl, err := dataset.Concat([]*dataset.Table{full, short})
	require.NoError(t, err)
	f, err := freq.Parse("D")
	require.NoError(t, err)

	var windows []Window
	for w := range Split(tbl, 5, 2, f, 5) {
		windows = append(windows, w)
	}
	require.Len(t, windows, 2)

	countID := func(tbl *dataset.Table, id string) int {
		var n int
		for _, rowID := range tbl.SeriesIDs() {
			if rowID == id {
				n++
			}
		}
		return n
	}

	assert.Equal(t, 0, countID(windows[0].Train, "short"))
	assert.Equal(t, 3, countID(windows[0].Valid, "short"))
	assert.Equal(t, 3, countID(windows[1].Train, "short"))
	assert.Equal(t, 5, countID(windows[1].Valid, "short"))
}

func TestSplitStopsEarly(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := dailyPanel(t, "a", 40, start)
	f, err := freq.Parse("D")
	require.NoError(t, err)

	var n int
	for range Split(tbl, 5, 4, f, 5) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
