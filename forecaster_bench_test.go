package panelcv

import (
	"os"
	"testing"

	"github.com/goccy/go-json"
	"github.com/panelcv/go-panelcv/dataset"
	"github.com/pkg/profile"
)

var benchCVRes *dataset.Table

func BenchmarkCrossValidation(b *testing.B) {
	tbl, err := generateExamplePanel()
	if err != nil {
		panic(err)
	}
	f, err := exampleForecaster()
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	for b.Loop() {
		benchCVRes, err = f.CrossValidation(tbl, 24, "h", 3, 24, []float64{80}, nil)
		if err != nil {
			panic(err)
		}
	}

	bytes, err := json.MarshalIndent(benchCVRes, "", "  ")
	if err != nil {
		panic(err)
	}
	if err := os.WriteFile("benchmark_cross_validation.json", bytes, 0o644); err != nil {
		panic(err)
	}
}

func BenchmarkForecast(b *testing.B) {
	tbl, err := generateExamplePanel()
	if err != nil {
		panic(err)
	}
	f, err := exampleForecaster()
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		benchCVRes, err = f.Forecast(tbl, 24, "h", []float64{80}, nil)
		if err != nil {
			panic(err)
		}
	}
}
