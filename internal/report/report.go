// Package report renders batch artifacts of a completed analysis: an
// interactive HTML intensity/state chart and a static PNG plot.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sakuga-tools/retimer/internal/analysis"
)

// WriteHTML renders an interactive chart of the run: raw and smoothed
// intensity as lines, the resolved timing multiplier as bars, with the
// classification thresholds marked.
func WriteHTML(w io.Writer, res *analysis.Result) error {
	if len(res.Frames) == 0 {
		return fmt.Errorf("analysis %s has no frames to report", res.ID)
	}

	xAxis := make([]string, len(res.Frames))
	raw := make([]opts.LineData, len(res.Frames))
	smoothed := make([]opts.LineData, len(res.Frames))
	multipliers := make([]opts.BarData, len(res.Frames))
	for i, f := range res.Frames {
		xAxis[i] = fmt.Sprintf("%d", f.Index)
		raw[i] = opts.LineData{Value: f.Intensity}
		smoothed[i] = opts.LineData{Value: f.Smoothed}
		multipliers[i] = opts.BarData{Value: f.TimingMultiplier}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Motion intensity",
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Motion intensity and timing",
			Subtitle: fmt.Sprintf("analysis=%s frames=%d source=%s", res.ID, len(res.Frames), res.SourcePath),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1, Name: "intensity"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("raw intensity", raw)
	line.AddSeries("smoothed intensity", smoothed,
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "high", YAxis: res.Params.Timing.HighThreshold},
			opts.MarkLineNameYAxisItem{Name: "low", YAxis: res.Params.Timing.LowThreshold},
		),
	)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "260px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Timing multiplier per frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "hold count"}),
	)
	bar.SetXAxis(xAxis)
	bar.AddSeries("timing multiplier", multipliers)

	page := components.NewPage()
	page.AddCharts(line, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// SaveHTML writes the HTML report to a file.
func SaveHTML(path string, res *analysis.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := WriteHTML(f, res); err != nil {
		return err
	}
	return f.Close()
}
