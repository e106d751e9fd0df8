package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"cflpGA/internal/opt"
)

const (
	figureWidth  = 10 * vg.Inch
	figureHeight = 10 * vg.Inch
)

// PlotConvergence renders two stacked panels: the best score per recorded
// generation and the score of every feasible solution found. A run without
// feasible solutions gets a single captioned panel. The image format follows
// the file extension (.png, .jpg, .jpeg).
func PlotConvergence(res opt.Result, title, path string) error {
	canvas, err := newCanvas(path)
	if err != nil {
		return err
	}
	dc := draw.New(canvas)

	if !res.Feasible() || len(res.History) == 0 || len(res.Found) == 0 {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s: no feasible solution found (%d generations, %s)",
			title, res.Generations, res.Duration.Round(time.Millisecond))
		if score, ok := res.BestScore(); ok {
			p.Title.Text = fmt.Sprintf("%s: best %.4f, no convergence data", title, score)
		}
		p.HideAxes()
		p.Draw(dc)
		return save(canvas, path)
	}

	conv, err := convergencePlot(res, title)
	if err != nil {
		return err
	}
	found, err := foundPlot(res)
	if err != nil {
		return err
	}

	tiles := draw.Tiles{Rows: 2, Cols: 1, PadY: vg.Centimeter, PadTop: vg.Centimeter / 2, PadBottom: vg.Centimeter / 2}
	canvases := plot.Align([][]*plot.Plot{{conv}, {found}}, tiles, dc)
	conv.Draw(canvases[0][0])
	found.Draw(canvases[1][0])

	return save(canvas, path)
}

func convergencePlot(res opt.Result, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: best %.4f, %s, %d evaluations",
		title, res.Best.Score, res.Duration.Round(time.Millisecond), res.Evaluations)
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Cost"

	pts := make(plotter.XYs, len(res.History))
	for i, h := range res.History {
		pts[i].X = float64(h.Generation + 1)
		pts[i].Y = h.Score
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, err
	}
	p.Add(plotter.NewGrid(), line, points)
	return p, nil
}

func foundPlot(res opt.Result) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Feasible solutions found: %d", len(res.Found))
	p.X.Label.Text = "Solution"
	p.Y.Label.Text = "Cost"

	pts := make(plotter.XYs, len(res.Found))
	for i, f := range res.Found {
		pts[i].X = float64(i + 1)
		pts[i].Y = f.Score
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	p.Add(plotter.NewGrid(), line)
	return p, nil
}

func newCanvas(path string) (*vgimg.Canvas, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return vgimg.New(figureWidth, figureHeight), nil
	default:
		return nil, fmt.Errorf("unsupported plot format %q", filepath.Ext(path))
	}
}

func save(c *vgimg.Canvas, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var w io.WriterTo
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		w = vgimg.JpegCanvas{Canvas: c}
	default:
		w = vgimg.PngCanvas{Canvas: c}
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
