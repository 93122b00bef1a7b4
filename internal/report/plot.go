package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sakuga-tools/retimer/internal/analysis"
)

// SavePNG writes a static line plot of the raw and smoothed intensity
// series, with horizontal rules at the classification thresholds.
func SavePNG(path string, res *analysis.Result) error {
	if len(res.Frames) == 0 {
		return fmt.Errorf("analysis %s has no frames to plot", res.ID)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Motion intensity (%s)", res.ID)
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "intensity"
	p.Y.Min = 0
	p.Y.Max = 1

	rawPts := make(plotter.XYs, len(res.Frames))
	smoothedPts := make(plotter.XYs, len(res.Frames))
	for i, f := range res.Frames {
		rawPts[i] = plotter.XY{X: float64(f.Index), Y: f.Intensity}
		smoothedPts[i] = plotter.XY{X: float64(f.Index), Y: f.Smoothed}
	}

	rawLine, err := plotter.NewLine(rawPts)
	if err != nil {
		return fmt.Errorf("failed to build raw intensity line: %w", err)
	}
	rawLine.Color = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	rawLine.Width = vg.Points(1)
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	smoothedLine, err := plotter.NewLine(smoothedPts)
	if err != nil {
		return fmt.Errorf("failed to build smoothed intensity line: %w", err)
	}
	smoothedLine.Color = color.RGBA{B: 200, A: 255}
	smoothedLine.Width = vg.Points(2)
	p.Add(smoothedLine)
	p.Legend.Add("smoothed", smoothedLine)

	for _, threshold := range []struct {
		value float64
		name  string
	}{
		{res.Params.Timing.HighThreshold, "high"},
		{res.Params.Timing.LowThreshold, "low"},
	} {
		rule := plotter.NewFunction(func(v float64) func(float64) float64 {
			return func(float64) float64 { return v }
		}(threshold.value))
		rule.Color = color.RGBA{R: 200, A: 255}
		rule.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(rule)
		p.Legend.Add(threshold.name, rule)
	}

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
