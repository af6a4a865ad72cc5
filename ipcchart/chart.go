// Copyright 2025 The ipcperf Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ipcchart renders IPC benchmark statistics as PNG charts.
//
// It is a thin consumer of ipcstat: every chart takes one or more
// Datasets and draws mean values against call count, with error bars
// where a standard deviation is available. Chart construction and
// writing are separate so callers can adjust a plot before saving it.
package ipcchart

import (
	"fmt"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/trng-labs/ipcperf/ipcstat"
)

// DefaultLogTimeThreshold is the mean wall time, in seconds, above
// which time charts switch from a linear to a logarithmic time axis.
const DefaultLogTimeThreshold = 10.0

// Config controls chart geometry and axis policy.
type Config struct {
	// Title is the chart title. Each chart appends its own
	// subject to it.
	Title string

	// Width and Height give the canvas size. Zero values default
	// to 20x15cm.
	Width, Height vg.Length

	// DPI is the raster resolution. Zero defaults to 150.
	DPI int

	// LogTimeThreshold is the maximum mean time above which the
	// time axis becomes logarithmic. Zero defaults to
	// DefaultLogTimeThreshold.
	LogTimeThreshold float64
}

func (c Config) withDefaults() Config {
	if c.Width == 0 {
		c.Width = 20 * vg.Centimeter
	}
	if c.Height == 0 {
		c.Height = 15 * vg.Centimeter
	}
	if c.DPI == 0 {
		c.DPI = 150
	}
	if c.LogTimeThreshold == 0 {
		c.LogTimeThreshold = DefaultLogTimeThreshold
	}
	return c
}

func (c Config) newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	if c.Title != "" {
		title = c.Title + ": " + title
	}
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return p
}

// errPoints pairs XY points with their Y error ranges for
// plotter.NewYErrorBars.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// addSeries adds one line-with-points series, and its error bars when
// errs is non-nil, using the i'th default color and glyph.
func addSeries(p *plot.Plot, i int, label string, pts plotter.XYs, errs plotter.YErrors) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(i)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Color = plotutil.Color(i)
	scatter.GlyphStyle.Shape = plotutil.Shape(i)

	p.Add(line, scatter)
	p.Legend.Add(label, line, scatter)

	if errs != nil {
		bars, err := plotter.NewYErrorBars(errPoints{pts, errs})
		if err != nil {
			return err
		}
		bars.LineStyle.Color = plotutil.Color(i)
		p.Add(bars)
	}
	return nil
}

// statSeries converts one payload bucket into points and error
// ranges, reading the center and spread of each group with value.
func statSeries(ss []ipcstat.Stats, value func(ipcstat.Stats) (center, spread float64)) (plotter.XYs, plotter.YErrors) {
	pts := make(plotter.XYs, len(ss))
	errs := make(plotter.YErrors, len(ss))
	for i, st := range ss {
		center, spread := value(st)
		pts[i].X = float64(st.CallCount)
		pts[i].Y = center
		errs[i].Low = spread
		errs[i].High = spread
	}
	return pts, errs
}

func meanTime(st ipcstat.Stats) (float64, float64)       { return st.MeanTime, st.StdTime }
func meanThroughput(st ipcstat.Stats) (float64, float64) { return st.MeanThroughput, st.StdThroughput }
func cv(st ipcstat.Stats) (float64, float64)             { return st.CV, 0 }

// setLogY switches p to a logarithmic Y axis and clamps the error
// ranges so no lower bar reaches zero, which a log axis cannot
// represent.
func setLogY(p *plot.Plot, series []errPoints) {
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	for _, s := range series {
		for i := range s.YErrors {
			if max := s.XYs[i].Y * 0.99; s.YErrors[i].Low > max {
				s.YErrors[i].Low = max
			}
		}
	}
}

// TimeChart plots mean wall time against call count for each of the
// given payload sizes of one method, with standard deviation error
// bars. The time axis is logarithmic when the largest mean time
// exceeds the configured threshold. It returns (nil, nil) when no
// payload has data.
func TimeChart(cfg Config, d *ipcstat.Dataset, payloads []int) (*plot.Plot, error) {
	cfg = cfg.withDefaults()
	p := cfg.newPlot(d.Method+" execution time", "calls", "seconds")

	var series []errPoints
	n := 0
	for i, payload := range payloads {
		ss := d.Stats(payload)
		if len(ss) == 0 {
			continue
		}
		pts, errs := statSeries(ss, meanTime)
		if err := addSeries(p, i, fmt.Sprintf("%d bytes/call", payload), pts, errs); err != nil {
			return nil, err
		}
		series = append(series, errPoints{pts, errs})
		n++
	}
	if n == 0 {
		return nil, nil
	}
	if d.MaxMeanTime(payloads...) > cfg.LogTimeThreshold {
		setLogY(p, series)
	}
	return p, nil
}

// ThroughputChart plots mean throughput against call count for each
// of the given payload sizes of one method, with standard deviation
// error bars and dashed reference lines at 1,000 and 10,000 calls per
// second. It returns (nil, nil) when no payload has data.
func ThroughputChart(cfg Config, d *ipcstat.Dataset, payloads []int) (*plot.Plot, error) {
	cfg = cfg.withDefaults()
	p := cfg.newPlot(d.Method+" throughput", "calls", "calls/second")

	n := 0
	maxCalls := 0.0
	for i, payload := range payloads {
		ss := d.Stats(payload)
		if len(ss) == 0 {
			continue
		}
		pts, errs := statSeries(ss, meanThroughput)
		if err := addSeries(p, i, fmt.Sprintf("%d bytes/call", payload), pts, errs); err != nil {
			return nil, err
		}
		if x := pts[len(pts)-1].X; x > maxCalls {
			maxCalls = x
		}
		n++
	}
	if n == 0 {
		return nil, nil
	}
	for _, ref := range []float64{1e3, 1e4} {
		if err := addRefLine(p, maxCalls, ref, fmt.Sprintf("%.0fK calls/sec", ref/1e3)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// addRefLine draws a dashed horizontal reference line at y with a
// label near the right edge.
func addRefLine(p *plot.Plot, maxX, y float64, label string) error {
	line, err := plotter.NewLine(plotter.XYs{{X: 0, Y: y}, {X: maxX, Y: y}})
	if err != nil {
		return err
	}
	line.Color = color.Gray{Y: 128}
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: maxX * 0.7, Y: y * 1.05}},
		Labels: []string{label},
	})
	if err != nil {
		return err
	}
	p.Add(line, labels)
	return nil
}

// CVChart plots the coefficient of variation of wall time against
// call count for each of the given payload sizes of one method. It
// returns (nil, nil) when no payload has data.
func CVChart(cfg Config, d *ipcstat.Dataset, payloads []int) (*plot.Plot, error) {
	cfg = cfg.withDefaults()
	p := cfg.newPlot(d.Method+" time variability", "calls", "CV (%)")

	n := 0
	for i, payload := range payloads {
		ss := d.Stats(payload)
		if len(ss) == 0 {
			continue
		}
		pts, _ := statSeries(ss, cv)
		if err := addSeries(p, i, fmt.Sprintf("%d bytes/call", payload), pts, nil); err != nil {
			return nil, err
		}
		n++
	}
	if n == 0 {
		return nil, nil
	}
	return p, nil
}

// BoxChart plots the distribution of raw wall times at one call
// count, one box per payload size. It returns (nil, nil) when no
// payload was measured at that call count.
func BoxChart(cfg Config, d *ipcstat.Dataset, payloads []int, calls int) (*plot.Plot, error) {
	cfg = cfg.withDefaults()
	p := cfg.newPlot(fmt.Sprintf("%s time distribution at %d calls", d.Method, calls),
		"payload size", "seconds")

	var names []string
	for _, payload := range payloads {
		times := d.Times(payload, calls)
		if len(times) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(len(names)), plotter.Values(times))
		if err != nil {
			return nil, err
		}
		p.Add(box)
		names = append(names, fmt.Sprintf("%dB", payload))
	}
	if len(names) == 0 {
		return nil, nil
	}
	p.NominalX(names...)
	return p, nil
}

// CompareTimeChart overlays mean wall time against call count for
// several methods at one payload size. The time axis is logarithmic
// when the largest mean time across the methods exceeds the
// configured threshold. It returns (nil, nil) when no method has data
// for the payload.
func CompareTimeChart(cfg Config, datasets []*ipcstat.Dataset, payload int) (*plot.Plot, error) {
	cfg = cfg.withDefaults()
	p := cfg.newPlot(fmt.Sprintf("execution time, %d bytes/call", payload), "calls", "seconds")

	var series []errPoints
	maxMean := 0.0
	n := 0
	for i, d := range datasets {
		ss := d.Stats(payload)
		if len(ss) == 0 {
			continue
		}
		pts, errs := statSeries(ss, meanTime)
		if err := addSeries(p, i, d.Method, pts, errs); err != nil {
			return nil, err
		}
		series = append(series, errPoints{pts, errs})
		if m := d.MaxMeanTime(payload); m > maxMean {
			maxMean = m
		}
		n++
	}
	if n == 0 {
		return nil, nil
	}
	if maxMean > cfg.LogTimeThreshold {
		setLogY(p, series)
	}
	return p, nil
}

// CompareThroughputChart overlays mean throughput against call count
// for several methods at one payload size. It returns (nil, nil) when
// no method has data for the payload.
func CompareThroughputChart(cfg Config, datasets []*ipcstat.Dataset, payload int) (*plot.Plot, error) {
	cfg = cfg.withDefaults()
	p := cfg.newPlot(fmt.Sprintf("throughput, %d bytes/call", payload), "calls", "calls/second")

	n := 0
	for i, d := range datasets {
		ss := d.Stats(payload)
		if len(ss) == 0 {
			continue
		}
		pts, errs := statSeries(ss, meanThroughput)
		if err := addSeries(p, i, d.Method, pts, errs); err != nil {
			return nil, err
		}
		n++
	}
	if n == 0 {
		return nil, nil
	}
	return p, nil
}

// WritePNG renders p to a PNG file at path using cfg's canvas size
// and resolution.
func WritePNG(cfg Config, p *plot.Plot, path string) error {
	cfg = cfg.withDefaults()
	canvas := vgimg.PngCanvas{Canvas: vgimg.NewWith(
		vgimg.UseWH(cfg.Width, cfg.Height),
		vgimg.UseDPI(cfg.DPI),
		vgimg.UseBackgroundColor(color.White),
	)}
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := canvas.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
