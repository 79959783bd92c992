package panelcv

import (
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/panelcv/go-panelcv/dataset"
	"github.com/panelcv/go-panelcv/quantile"
)

// LineSeries generates an echart line chart for one series of a forecast or
// cross-validation table, plotting the actual values when present, each
// model's point forecast and the interval bounds of the given levels.
func LineSeries(title string, tbl *dataset.Table, rows []int, aliases []string, level []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	t := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		t = append(t, tbl.Times()[r])
	}
	line = line.SetXAxis(t)

	names := make([]string, 0, len(aliases)*(1+2*len(level))+1)
	if tbl.HasColumn(dataset.ColValue) {
		names = append(names, dataset.ColValue)
	}
	for _, alias := range aliases {
		names = append(names, alias)
		for _, lv := range level {
			names = append(names, quantile.LoColumn(alias, lv), quantile.HiColumn(alias, lv))
		}
	}
	for _, name := range names {
		vals, err := tbl.Column(name)
		if err != nil {
			continue
		}
		lineData := make([]opts.LineData, 0, len(rows))
		for _, r := range rows {
			lineData = append(lineData, opts.LineData{Value: vals[r]})
		}
		line = line.AddSeries(name, lineData)
	}
	return line
}

// PlotCrossValidation renders one chart per series of a cross-validation
// output table to an html page, showing actuals against every model's
// forecasts and interval bounds.
func PlotCrossValidation(w io.Writer, cv *dataset.Table, aliases []string, level []float64) error {
	return plotTable(w, cv, aliases, level)
}

// PlotForecast renders one chart per series of a forecast table to an html
// page.
func PlotForecast(w io.Writer, forecast *dataset.Table, aliases []string, level []float64) error {
	return plotTable(w, forecast, aliases, level)
}

func plotTable(w io.Writer, tbl *dataset.Table, aliases []string, level []float64) error {
	seriesRows := make(map[string][]int)
	var order []string
	for i, id := range tbl.SeriesIDs() {
		if _, seen := seriesRows[id]; !seen {
			order = append(order, id)
		}
		seriesRows[id] = append(seriesRows[id], i)
	}

	page := components.NewPage()
	for _, id := range order {
		page.AddCharts(LineSeries(id, tbl, seriesRows[id], aliases, level))
	}
	return page.Render(w)
}
