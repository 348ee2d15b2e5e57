package benchmark

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func curveXYs(c Curve) plotter.XYs {
	xys := make(plotter.XYs, len(c.FPR))
	for i := range c.FPR {
		xys[i].X = c.FPR[i]
		xys[i].Y = c.TPR[i]
	}
	return xys
}

// Plot renders the ROC comparison to an image file. The format follows the
// path extension (png, svg, pdf).
func (c Comparison) Plot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "benchmark: plot dir")
	}
	p, err := plot.New()
	if err != nil {
		return errors.Wrap(err, "benchmark: new plot")
	}
	p.Title.Text = "BRCA variant classification: baseline vs fine-tuned"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(plotter.NewGrid())

	base, err := plotter.NewLine(curveXYs(c.Baseline))
	if err != nil {
		return errors.Wrap(err, "benchmark: baseline line")
	}
	base.Color = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	base.Width = vg.Points(1.5)

	tuned, err := plotter.NewLine(curveXYs(c.Tuned))
	if err != nil {
		return errors.Wrap(err, "benchmark: tuned line")
	}
	tuned.Color = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	tuned.Width = vg.Points(1.5)

	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return errors.Wrap(err, "benchmark: diagonal")
	}
	diag.Color = color.Gray{Y: 0x90}
	diag.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(base, tuned, diag)
	p.Legend.Add(fmt.Sprintf("baseline (AUC %.3f)", c.Baseline.AUC), base)
	p.Legend.Add(fmt.Sprintf("fine-tuned (AUC %.3f)", c.Tuned.AUC), tuned)
	p.Legend.Top = false

	return errors.Wrapf(p.Save(6*vg.Inch, 6*vg.Inch, path), "benchmark: save %s", path)
}
