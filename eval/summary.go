package eval

import (
	"errors"
	"fmt"

	"github.com/panelcv/go-panelcv/dataset"
)

var ErrMissingSeries = errors.New("cross validation series missing from training panel")

// Summary holds per-series accuracy scores per model along with the
// mean-over-series aggregation used to rank models.
type Summary struct {
	SeriesScores map[string]map[string]*Scores `json:"series_scores"`
	ModelScores  map[string]*Scores            `json:"model_scores"`
}

// Summarize scores every model's point forecasts in a cross-validation output
// table against the value column, per series, scaling MASE with the training
// panel. Model aggregate scores are the unweighted mean over series.
func Summarize(cv, train *dataset.Table, modelAliases []string, seasonLength int) (*Summary, error) {
	actual, err := cv.Column(dataset.ColValue)
	if err != nil {
		return nil, fmt.Errorf("cross validation table has no value column, %w", err)
	}

	cvRows := make(map[string][]int)
	var cvOrder []string
	for i, id := range cv.SeriesIDs() {
		if _, seen := cvRows[id]; !seen {
			cvOrder = append(cvOrder, id)
		}
		cvRows[id] = append(cvRows[id], i)
	}

	sortedTrain := train.Sort()
	trainValues, err := sortedTrain.Column(dataset.ColValue)
	if err != nil {
		return nil, fmt.Errorf("training panel has no value column, %w", err)
	}
	trainSeries := make(map[string][]float64)
	for _, g := range sortedTrain.Groups() {
		trainSeries[g.ID] = trainValues[g.Start:g.End]
	}

	s := &Summary{
		SeriesScores: make(map[string]map[string]*Scores, len(modelAliases)),
		ModelScores:  make(map[string]*Scores, len(modelAliases)),
	}
	for _, alias := range modelAliases {
		predicted, err := cv.Column(alias)
		if err != nil {
			return nil, fmt.Errorf("cross validation table has no column for model %q, %w", alias, err)
		}
		perSeries := make(map[string]*Scores, len(cvOrder))
		agg := &Scores{}
		for _, id := range cvOrder {
			trainY, exists := trainSeries[id]
			if !exists {
				return nil, fmt.Errorf("series %q, %w", id, ErrMissingSeries)
			}
			rows := cvRows[id]
			pred := make([]float64, len(rows))
			act := make([]float64, len(rows))
			for j, r := range rows {
				pred[j] = predicted[r]
				act[j] = actual[r]
			}
			scores, err := NewScores(pred, act, trainY, seasonLength)
			if err != nil {
				return nil, fmt.Errorf("unable to score model %q on series %q, %w", alias, id, err)
			}
			perSeries[id] = scores
			agg.MAE += scores.MAE
			agg.RMSE += scores.RMSE
			agg.SMAPE += scores.SMAPE
			agg.MASE += scores.MASE
		}
		n := float64(len(cvOrder))
		agg.MAE /= n
		agg.RMSE /= n
		agg.SMAPE /= n
		agg.MASE /= n
		s.SeriesScores[alias] = perSeries
		s.ModelScores[alias] = agg
	}
	return s, nil
}
