// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchseries

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"golang.org/x/benchhist/benchunit"
)

// ChartOptions configures Chart.
type ChartOptions struct {
	// Title is the caption drawn above the chart.
	Title string

	// Width and Height are the size of the image. Raster formats
	// are rendered at 72 dpi, so one point is one pixel.
	Width, Height vg.Length

	// MaxTicks caps the number of labeled ticks on the time axis.
	MaxTicks int
}

// DefaultChartOptions returns the options Chart uses when given nil.
func DefaultChartOptions() *ChartOptions {
	return &ChartOptions{
		Title:    "Benchmark history",
		Width:    1024,
		Height:   768,
		MaxTicks: 10,
	}
}

// withDefaults returns a copy of o with unset fields taken from
// DefaultChartOptions. A nil o yields the defaults.
func (o *ChartOptions) withDefaults() *ChartOptions {
	def := DefaultChartOptions()
	if o == nil {
		return def
	}
	out := *o
	if out.Width <= 0 {
		out.Width = def.Width
	}
	if out.Height <= 0 {
		out.Height = def.Height
	}
	if out.MaxTicks <= 0 {
		out.MaxTicks = def.MaxTicks
	}
	return &out
}

const (
	// xTickFormat labels the time axis as month-day hour:minute.
	xTickFormat = "1-2 15:04"

	pointRad = 3

	// singleRunPad widens the time axis around a dataset with a
	// single timestamp.
	singleRunPad = 30 * time.Minute
)

// Chart draws log as one line per test, average duration in
// nanoseconds against run time, and writes it to path. The image
// format follows the extension of path: .svg, .png, .jpg, .jpeg,
// .tif, .tiff, .pdf or .eps.
//
// An empty log is an EmptyDatasetError. Every other failure is a
// RenderError. path is only created once the chart has been drawn.
func Chart(log *Log, path string, opts *ChartOptions) error {
	opts = opts.withDefaults()
	pl, err := NewPlot(log, opts)
	if err != nil {
		return err
	}
	can, err := newCanvas(opts.Width, opts.Height, path)
	if err != nil {
		return &Error{Kind: RenderError, Path: path, Err: err}
	}
	pl.Draw(draw.New(can))

	f, err := os.Create(path)
	if err != nil {
		return &Error{Kind: RenderError, Path: path, Err: unwrapPath(err)}
	}
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return &Error{Kind: RenderError, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &Error{Kind: RenderError, Path: path, Err: unwrapPath(err)}
	}
	return nil
}

// NewPlot builds the chart that Chart draws, without drawing it.
//
// The Nth test of log is drawn in the Nth color of a fixed palette, so
// identical test sets are colored identically from run to run.
func NewPlot(log *Log, opts *ChartOptions) (*plot.Plot, error) {
	opts = opts.withDefaults()
	first, last, err := log.Range()
	if err != nil {
		return nil, err
	}
	firstT, err := ParseTimestamp(first)
	if err != nil {
		return nil, &Error{Kind: RenderError, Err: err}
	}
	lastT, err := ParseTimestamp(last)
	if err != nil {
		return nil, &Error{Kind: RenderError, Err: err}
	}
	if firstT.Equal(lastT) {
		firstT, lastT = firstT.Add(-singleRunPad), lastT.Add(singleRunPad)
	}

	pl := plot.New()
	pl.Title.Text = opts.Title
	pl.Title.TextStyle.Font.Size = 20
	pl.BackgroundColor = color.White
	pl.Y.Label.Text = "nanoseconds"
	pl.Y.Tick.Marker = durationTicks{}
	pl.X.Tick.Marker = timeTicks{max: opts.MaxTicks}

	legend := plot.NewLegend()
	legend.Top = true

	for i, test := range log.Tests() {
		xys, err := points(log.Samples(test))
		if err != nil {
			return nil, &Error{Kind: RenderError, Err: fmt.Errorf("test %q: %w", test, err)}
		}
		clr := plotutil.Color(i)

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, &Error{Kind: RenderError, Err: fmt.Errorf("test %q: %w", test, err)}
		}
		line.Color = clr
		line.Width = vg.Points(1.5)

		marks, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, &Error{Kind: RenderError, Err: fmt.Errorf("test %q: %w", test, err)}
		}
		marks.GlyphStyle.Color = clr
		marks.GlyphStyle.Radius = vg.Points(pointRad)
		marks.GlyphStyle.Shape = draw.CircleGlyph{}

		pl.Add(line, marks)
		legend.Add(test, line, marks)
	}
	pl.Add(&framedLegend{legend})

	// Fix the time axis to the runs, and force zero onto the
	// duration axis so trends aren't exaggerated.
	pl.X.Min = float64(firstT.Unix())
	pl.X.Max = float64(lastT.Unix())
	if pl.Y.Min > 0 {
		pl.Y.Min = 0
	}
	return pl, nil
}

// points returns the samples as (unix seconds, nanoseconds) pairs in
// chronological order.
func points(ss []Sample) (plotter.XYs, error) {
	xys := make(plotter.XYs, len(ss))
	for i, s := range ss {
		t, err := ParseTimestamp(s.Timestamp)
		if err != nil {
			return nil, err
		}
		xys[i].X = float64(t.Unix())
		xys[i].Y = s.AverageDuration * 1e9
	}
	sort.SliceStable(xys, func(i, j int) bool { return xys[i].X < xys[j].X })
	return xys, nil
}

// newCanvas returns a canvas of the given size for the image format
// implied by the extension of path.
func newCanvas(w, h vg.Length, path string) (vg.CanvasWriterTo, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	raster := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(72), vgimg.UseBackgroundColor(color.White))
	}
	switch ext {
	case "svg":
		return vgsvg.New(w, h), nil
	case "png":
		return vgimg.PngCanvas{Canvas: raster()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: raster()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: raster()}, nil
	case "pdf":
		return vgpdf.New(w, h), nil
	case "eps":
		return vgeps.New(w, h), nil
	}
	return nil, fmt.Errorf("unsupported image format %q", ext)
}

// framedLegend draws a legend inside a bordered box in the top right
// of the data area.
type framedLegend struct {
	plot.Legend
}

const legendMargin = 4

// Plot implements the plot.Plotter interface.
func (l *framedLegend) Plot(c draw.Canvas, plt *plot.Plot) {
	c = draw.Crop(c, 2*legendMargin, -2*legendMargin, 2*legendMargin, -2*legendMargin)
	r := l.Rectangle(c)
	r.Min.X -= legendMargin
	r.Min.Y -= legendMargin
	r.Max.X += legendMargin
	r.Max.Y += legendMargin

	c.SetColor(color.NRGBA{0xff, 0xff, 0xff, 0xcc})
	c.Fill(r.Path())
	c.SetLineStyle(draw.LineStyle{Color: color.Black, Width: vg.Points(1)})
	c.Stroke(r.Path())
	l.Draw(c)
}

// timeTicks places at most max labeled ticks on a time axis measured
// in Unix seconds, at multiples of a round step.
type timeTicks struct {
	max int
}

var tickSteps = []time.Duration{
	time.Minute,
	5 * time.Minute,
	10 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	2 * time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	2 * 24 * time.Hour,
	7 * 24 * time.Hour,
	14 * 24 * time.Hour,
	28 * 24 * time.Hour,
}

// Ticks implements the plot.Ticker interface.
func (t timeTicks) Ticks(min, max float64) []plot.Tick {
	n := t.max
	if n <= 0 {
		n = DefaultChartOptions().MaxTicks
	}
	span := max - min
	step := tickSteps[len(tickSteps)-1].Seconds()
	for _, s := range tickSteps {
		if span/s.Seconds() < float64(n) {
			step = s.Seconds()
			break
		}
	}
	for span/step >= float64(n) {
		step *= 2
	}

	var ticks []plot.Tick
	for v := math.Ceil(min/step) * step; v <= max; v += step {
		label := time.Unix(int64(v), 0).UTC().Format(xTickFormat)
		ticks = append(ticks, plot.Tick{Value: v, Label: label})
	}
	return ticks
}

// durationTicks labels the default ticks of a nanosecond axis with a
// common SI scale.
type durationTicks struct{}

// Ticks implements the plot.Ticker interface.
func (durationTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	var vals []float64
	for _, t := range ticks {
		if t.Label != "" {
			vals = append(vals, t.Value)
		}
	}
	s := benchunit.CommonScale(vals)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = s.Format(ticks[i].Value)
		}
	}
	return ticks
}
