package dataset

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/floats"
)

// GenerateT creates n evenly spaced timestamps ending just before start,
// truncated to the minute in UTC.
func GenerateT(n int, interval time.Duration, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	ct := time.Unix(start.Unix()/60*60, 0).Add(-time.Duration(n) * interval).UTC()
	for i := 0; i < n; i++ {
		t = append(t, ct.Add(interval*time.Duration(i)))
	}
	return t
}

// GenerateDailyT creates n consecutive daily timestamps starting at start.
func GenerateDailyT(n int, start time.Time) []time.Time {
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, start.AddDate(0, 0, i))
	}
	return t
}

// GeneratePanel stacks one generated series per id over a shared timeline.
func GeneratePanel(ids []string, t []time.Time, gen func(id string, t []time.Time) Series) (*Table, error) {
	n := len(ids) * len(t)
	panelIDs := make([]string, 0, n)
	panelTimes := make([]time.Time, 0, n)
	values := make([]float64, 0, n)
	for _, id := range ids {
		y := gen(id, t)
		panelIDs = append(panelIDs, repeatID(id, len(t))...)
		panelTimes = append(panelTimes, t...)
		values = append(values, y...)
	}
	return NewPanel(panelIDs, panelTimes, values)
}

func repeatID(id string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = id
	}
	return out
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

func GenerateNoise(t []time.Time, noiseScale float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rand.NormFloat64()*noiseScale)
	}
	return Series(y)
}

// GenerateLineY creates a line with the given intercept and per-step slope.
func GenerateLineY(n int, intercept, slope float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, intercept+slope*float64(i))
	}
	return Series(y)
}
