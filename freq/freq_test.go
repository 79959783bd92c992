package freq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testData := map[string]struct {
		in       string
		expected string
		err      error
	}{
		"seconds":            {in: "s", expected: "s"},
		"minutes alt alias":  {in: "T", expected: "min"},
		"minutes multiple":   {in: "15min", expected: "15min"},
		"hours":              {in: "H", expected: "h"},
		"daily":              {in: "D", expected: "D"},
		"business daily":     {in: "B", expected: "B"},
		"weekly":             {in: "W", expected: "W-SUN"},
		"weekly anchored":    {in: "W-MON", expected: "W-MON"},
		"weekly multiple":    {in: "2W", expected: "2W-SUN"},
		"month start":        {in: "MS", expected: "MS"},
		"month end":          {in: "M", expected: "M"},
		"month end alt":      {in: "ME", expected: "M"},
		"quarter start":      {in: "QS", expected: "QS"},
		"quarter end":        {in: "Q", expected: "Q"},
		"year start":         {in: "YS", expected: "YS"},
		"year start alt":     {in: "AS", expected: "YS"},
		"year end":           {in: "Y", expected: "Y"},
		"unknown":            {in: "fortnightly", err: ErrUnknownFrequency},
		"zero multiple":      {in: "0D", err: ErrUnknownFrequency},
		"bad weekly anchor":  {in: "W-ABC", err: ErrUnknownFrequency},
		"empty":              {in: "", err: ErrUnknownFrequency},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := Parse(td.in)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, f.String())
		})
	}
}

func TestAdd(t *testing.T) {
	testData := map[string]struct {
		freq     string
		start    time.Time
		n        int
		expected time.Time
	}{
		"daily": {
			freq:     "D",
			start:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			n:        3,
			expected: time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC),
		},
		"minutes multiple": {
			freq:     "15min",
			start:    time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC),
			n:        2,
			expected: time.Date(2020, 1, 1, 8, 30, 0, 0, time.UTC),
		},
		"business over weekend": {
			freq:     "B",
			start:    time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), // friday
			n:        1,
			expected: time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC), // monday
		},
		"business backward over weekend": {
			freq:     "B",
			start:    time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC),
			n:        -1,
			expected: time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		"weekly": {
			freq:     "W",
			start:    time.Date(2020, 1, 5, 0, 0, 0, 0, time.UTC),
			n:        2,
			expected: time.Date(2020, 1, 19, 0, 0, 0, 0, time.UTC),
		},
		"month start": {
			freq:     "MS",
			start:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			n:        1,
			expected: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		"month end into leap february": {
			freq:     "M",
			start:    time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
			n:        1,
			expected: time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		"month end backward": {
			freq:     "M",
			start:    time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC),
			n:        -1,
			expected: time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		"quarter start": {
			freq:     "QS",
			start:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			n:        1,
			expected: time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		"quarter end": {
			freq:     "Q",
			start:    time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC),
			n:        1,
			expected: time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		"year start": {
			freq:     "YS",
			start:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			n:        2,
			expected: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		"year end": {
			freq:     "Y",
			start:    time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
			n:        1,
			expected: time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := Parse(td.freq)
			require.NoError(t, err)
			assert.True(t, f.Add(td.start, td.n).Equal(td.expected), "got %v", f.Add(td.start, td.n))
		})
	}
}

func TestSeasonality(t *testing.T) {
	testData := map[string]struct {
		freq     string
		expected int
	}{
		"seconds":         {freq: "s", expected: 3600},
		"minutes":         {freq: "min", expected: 1440},
		"half hourly":     {freq: "30min", expected: 48},
		"hourly":          {freq: "h", expected: 24},
		"daily":           {freq: "D", expected: 7},
		"business daily":  {freq: "B", expected: 5},
		"weekly":          {freq: "W", expected: 1},
		"month start":     {freq: "MS", expected: 12},
		"month end":       {freq: "M", expected: 12},
		"quarterly":       {freq: "Q", expected: 4},
		"yearly":          {freq: "Y", expected: 1},
		"below one floor": {freq: "2W", expected: 1},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := Parse(td.freq)
			require.NoError(t, err)
			assert.Equal(t, td.expected, Seasonality(f))
		})
	}
}
