package panelcv

import (
	"github.com/panelcv/go-panelcv/backtest"
)

type Options struct {
	BacktestOptions *backtest.Options `json:"backtest_options"`
}

func NewDefaultOptions() *Options {
	return &Options{
		BacktestOptions: backtest.NewDefaultOptions(),
	}
}
