package models

import (
	"errors"
)

var (
	ErrNoTrainingData = errors.New("no training data")
	ErrInvalidHorizon = errors.New("horizon must be at least 1")
	ErrInvalidWindow  = errors.New("window size must be at least 1")
	ErrShortSeries    = errors.New("series has too few observations")
)
