package backtest

import (
	"testing"
	"time"

	"github.com/panelcv/go-panelcv/dataset"
	"github.com/panelcv/go-panelcv/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossValidation(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := dailyPanel(t, "a", 40, start)

	res, err := CrossValidation(models.NewNaive(nil), tbl, 5, "D", 2, 5, nil, nil, nil)
	require.NoError(t, err)

	require.Equal(t, 10, res.Len())
	assert.Equal(t, []string{"series_id", "timestamp", "cutoff", "value", "naive"}, res.Columns())

	cutoffs := make(map[time.Time]int)
	for _, c := range res.Cutoffs() {
		cutoffs[c]++
	}
	assert.Len(t, cutoffs, 2)

	// naive forecasts repeat the value at the cutoff across each window
	points, err := res.Column("naive")
	require.NoError(t, err)
	actual, err := res.Column(dataset.ColValue)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.Equal(t, 30.0, points[i])
		assert.Equal(t, float64(31+i), actual[i])
	}
	for i := 5; i < 10; i++ {
		assert.Equal(t, 35.0, points[i])
		assert.Equal(t, float64(36+i-5), actual[i])
	}
}

func TestCrossValidationRejectsExogenousRegressors(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := dailyPanel(t, "a", 40, start)
	tbl, err := tbl.WithColumn("temperature", make([]float64, tbl.Len()))
	require.NoError(t, err)

	testData := map[string]struct {
		nWindows int
		stepSize int
		level    []float64
	}{
		"defaults":    {nWindows: 1},
		"more splits": {nWindows: 3, stepSize: 2, level: []float64{80}},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			_, err := CrossValidation(models.NewNaive(nil), tbl, 5, "D", td.nWindows, td.stepSize, td.level, nil, nil)
			require.ErrorIs(t, err, ErrExogenousRegressors)
		})
	}
}

func TestCrossValidationFrequencyMismatch(t *testing.T) {
	// series spaced every 2 days cross-validated as daily: the forecast
	// timestamps cannot line up with every validation row, which must fail
	// instead of returning a truncated table
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 40
	ids := make([]string, n)
	times := make([]time.Time, n)
	for i := range ids {
		ids[i] = "a"
		times[i] = start.AddDate(0, 0, 2*i)
	}
	tbl, err := dataset.NewPanel(ids, times, dailyValues(n))
	require.NoError(t, err)

	_, err = CrossValidation(models.NewNaive(nil), tbl, 5, "D", 1, 0, nil, nil, nil)
	require.ErrorIs(t, err, ErrIncompleteResult)
}

func TestCrossValidationInvalidArgs(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := dailyPanel(t, "a", 40, start)

	_, err := CrossValidation(models.NewNaive(nil), tbl, 5, "D", 0, 5, nil, nil, nil)
	require.ErrorIs(t, err, ErrNoWindows)

	_, err = CrossValidation(models.NewNaive(nil), tbl, 0, "D", 1, 5, nil, nil, nil)
	require.ErrorIs(t, err, models.ErrInvalidHorizon)
}

func TestCrossValidationStepSizeDefaultsToHorizon(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := dailyPanel(t, "a", 40, start)

	explicit, err := CrossValidation(models.NewNaive(nil), tbl, 5, "D", 2, 5, nil, nil, nil)
	require.NoError(t, err)
	defaulted, err := CrossValidation(models.NewNaive(nil), tbl, 5, "D", 2, 0, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, explicit, defaulted)
}

func TestCrossValidationParallelMatchesSequential(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	panels := make([]*dataset.Table, 0, 3)
	for _, id := range []string{"a", "b", "c"} {
		panels = append(panels, dailyPanel(t, id, 60, start))
	}
	tbl, err := dataset.Concat(panels)
	require.NoError(t, err)

	sequential, err := CrossValidation(models.NewSeasonalNaive(nil), tbl, 7, "D", 4, 7, []float64{80}, nil, nil)
	require.NoError(t, err)
	parallel, err := CrossValidation(models.NewSeasonalNaive(nil), tbl, 7, "D", 4, 7, []float64{80}, nil, &Options{Concurrency: 4})
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

type fakeBatchedModel struct {
	called bool
}

func (m *fakeBatchedModel) Alias() string {
	return "batched"
}

func (m *fakeBatchedModel) Forecast(df *dataset.Table, h int, freq string, level, quantiles []float64) (*dataset.Table, error) {
	return df, nil
}

func (m *fakeBatchedModel) CrossValidation(df *dataset.Table, h int, freq string, nWindows, stepSize int, level, quantiles []float64) (*dataset.Table, error) {
	m.called = true
	return df, nil
}

func TestRunDispatchesToBatchedOverride(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := dailyPanel(t, "a", 10, start)

	m := &fakeBatchedModel{}
	res, err := Run(m, tbl, 5, "D", 2, 5, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, m.called)
	assert.Same(t, tbl, res)

	// models without the override take the default walk-forward path
	out, err := Run(models.NewNaive(nil), tbl, 2, "D", 1, 2, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.True(t, out.HasCutoff())
}
