package exporter

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/dsalvin/oracle-project-backend/internal/model"
	"github.com/dsalvin/oracle-project-backend/internal/pipeline"
)

// RenderChart 渲染历史 + 预测的折线图 HTML 页面
func RenderChart(w io.Writer, rec *model.ForecastRecord, history []model.HistoryPoint) error {
	page := components.NewPage()
	page.SetPageTitle("Forecast " + rec.ProductID)
	page.AddCharts(lineForecast(rec, history))
	return page.Render(w)
}

// lineForecast 历史观测与预测值、上下界同图展示
func lineForecast(rec *model.ForecastRecord, history []model.HistoryPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title:    "商品销量预测",
				Subtitle: rec.ProductID,
			},
		),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	n := len(history) + len(rec.Points)
	xAxis := make([]string, 0, n)
	actual := make([]opts.LineData, 0, n)
	forecast := make([]opts.LineData, 0, n)
	upper := make([]opts.LineData, 0, n)
	lower := make([]opts.LineData, 0, n)

	for _, h := range history {
		xAxis = append(xAxis, pipeline.FormatTimestamp(h.Timestamp))
		actual = append(actual, opts.LineData{Value: h.Value})
		forecast = append(forecast, opts.LineData{Value: nil})
		upper = append(upper, opts.LineData{Value: nil})
		lower = append(lower, opts.LineData{Value: nil})
	}
	for _, pt := range rec.Points {
		xAxis = append(xAxis, pipeline.FormatTimestamp(pt.Timestamp))
		actual = append(actual, opts.LineData{Value: nil})
		forecast = append(forecast, opts.LineData{Value: pt.PredictedValue})
		upper = append(upper, opts.LineData{Value: pt.UpperBound})
		lower = append(lower, opts.LineData{Value: pt.LowerBound})
	}

	line.SetXAxis(xAxis).
		AddSeries("Actual", actual).
		AddSeries("Forecast", forecast).
		AddSeries("Upper", upper).
		AddSeries("Lower", lower)
	return line
}
