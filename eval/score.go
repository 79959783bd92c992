// Package eval computes forecast accuracy metrics over cross-validation
// output tables.
package eval

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoActuals      = errors.New("no actual values to score against")
	ErrZeroScale      = errors.New("seasonal naive scale of training series is zero")
	ErrInvalidSeason  = errors.New("season length must be at least 1")
)

// Scores tracks the accuracy of one model on one series
type Scores struct {
	MAE   float64 `json:"mean_absolute_error"`
	RMSE  float64 `json:"root_mean_squared_error"`
	SMAPE float64 `json:"symmetric_mean_absolute_percent_error"`
	MASE  float64 `json:"mean_absolute_scaled_error"`
}

// NewScores calculates the accuracy scores of predicted against actual. The
// training series and season length are needed for the seasonal-naive error
// scale of MASE.
func NewScores(predicted, actual, train []float64, seasonLength int) (*Scores, error) {
	mae, err := MAE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute error, %w", err)
	}
	rmse, err := RMSE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute root mean squared error, %w", err)
	}
	smape, err := SMAPE(predicted, actual)
	if err != nil {
		return nil, fmt.Errorf("unable to compute symmetric mean absolute percent error, %w", err)
	}
	mase, err := MASE(predicted, actual, train, seasonLength)
	if err != nil {
		return nil, fmt.Errorf("unable to compute mean absolute scaled error, %w", err)
	}

	return &Scores{
		MAE:   mae,
		RMSE:  rmse,
		SMAPE: smape,
		MASE:  mase,
	}, nil
}

// MAE computes the mean absolute error. A score of 0 means a perfect match
// with no errors.
func MAE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, ErrNoActuals
	}

	mae := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mae += math.Abs(actual[i] - predicted[i])
	}
	mae /= float64(len(actual))
	return mae, nil
}

// RMSE computes the root mean squared error.
func RMSE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, ErrNoActuals
	}

	mse := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		mse += math.Pow(actual[i]-predicted[i], 2.0)
	}
	mse /= float64(len(actual))
	return math.Sqrt(mse), nil
}

// SMAPE computes the symmetric mean absolute percent error on a 0-200 scale.
// Points where both predicted and actual are zero contribute no error.
func SMAPE(predicted, actual []float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, ErrNoActuals
	}

	smape := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		denom := math.Abs(actual[i]) + math.Abs(predicted[i])
		if denom == 0 {
			continue
		}
		smape += math.Abs(actual[i]-predicted[i]) / denom
	}
	smape *= 200.0 / float64(len(actual))
	return smape, nil
}

// MASE computes the mean absolute scaled error: the MAE of the forecast
// scaled by the in-sample MAE of a seasonal naive forecast over the training
// series. A score below 1 beats repeating the value from one season ago.
func MASE(predicted, actual, train []float64, seasonLength int) (float64, error) {
	if seasonLength < 1 {
		return 0, fmt.Errorf("got %d, %w", seasonLength, ErrInvalidSeason)
	}
	mae, err := MAE(predicted, actual)
	if err != nil {
		return 0, err
	}

	if seasonLength >= len(train) {
		seasonLength = 1
	}
	scale := 0.0
	cnt := 0
	for i := seasonLength; i < len(train); i++ {
		if math.IsNaN(train[i]) || math.IsNaN(train[i-seasonLength]) {
			continue
		}
		scale += math.Abs(train[i] - train[i-seasonLength])
		cnt++
	}
	if cnt == 0 || scale == 0 {
		return 0, ErrZeroScale
	}
	scale /= float64(cnt)
	return mae / scale, nil
}

// QuantileLoss computes the mean pinball loss at quantile q.
func QuantileLoss(predicted, actual []float64, q float64) (float64, error) {
	if len(predicted) != len(actual) {
		return 0, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	if len(actual) == 0 {
		return 0, ErrNoActuals
	}

	loss := 0.0
	for i := 0; i < len(actual); i++ {
		if math.IsNaN(actual[i]) || math.IsNaN(predicted[i]) {
			continue
		}
		diff := actual[i] - predicted[i]
		if diff >= 0 {
			loss += q * diff
		} else {
			loss += (q - 1.0) * diff
		}
	}
	loss /= float64(len(actual))
	return loss, nil
}
