// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/penny-vault/marketdash/dataframe"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultChartStart is the first date drawn on rates and credit charts
var DefaultChartStart = time.Date(2020, time.October, 1, 0, 0, 0, 0, time.UTC)

const (
	chartWidth      = 6 * vg.Inch
	chartHeight     = 4 * vg.Inch
	dashboardWidth  = 12 * vg.Inch
	dashboardHeight = 7 * vg.Inch
	lineWidth       = 2
)

var (
	usColor     = hexColor("#d79b00")
	deColor     = hexColor("#003f6f")
	creditColor = hexColor("#d79b00")
	gridColor   = color.Gray{Y: 200}
)

// chart is one figure saved on its own and placed on a dashboard
type chart struct {
	file  string
	build func(df *dataframe.DataFrame) *plot.Plot
}

func hexColor(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		log.Panic().Err(err).Str("Color", s).Msg("invalid color")
	}
	return c
}

// Weekly keeps rows dated on or after start, resamples them to weeks
// ending on Friday (last value of the week) and drops weeks without any
// value
func Weekly(df *dataframe.DataFrame, start time.Time) (*dataframe.DataFrame, error) {
	weekly, err := df.Trim(start, time.Time{}).Resample(dataframe.Weekly)
	if err != nil {
		return nil, err
	}
	return weekly.DropAll(math.NaN()), nil
}

// timeXYs returns the defined points of a column scaled by mult; x is the
// unix time of each row
func timeXYs(df *dataframe.DataFrame, col string, mult float64) plotter.XYs {
	idx := df.ColIndex(col)
	if idx < 0 {
		return plotter.XYs{}
	}

	xys := make(plotter.XYs, 0, df.Len())
	for rowIdx, dt := range df.Dates {
		v := df.Vals[idx][rowIdx]
		if math.IsNaN(v) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(dt.Unix()), Y: v * mult})
	}
	return xys
}

// spreadXYs returns (a - b) * mult for rows where both columns are defined
func spreadXYs(df *dataframe.DataFrame, a, b string, mult float64) plotter.XYs {
	spread, err := df.Sub(a, b, a+"-"+b)
	if err != nil {
		return plotter.XYs{}
	}
	return timeXYs(spread, spread.ColNames[0], mult)
}

func newPlot(title, unit string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = unit

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = gridColor
	grid.Horizontal.Width = vg.Points(0.5)
	p.Add(grid)

	return p
}

func newTimePlot(title, unit string) *plot.Plot {
	p := newPlot(title, unit)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	return p
}

// addLine draws xys with the given color; empty series are skipped
func addLine(p *plot.Plot, xys plotter.XYs, c color.Color, legend string) {
	if len(xys) == 0 {
		return
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		log.Warn().Err(err).Str("Plot", p.Title.Text).Msg("could not create line")
		return
	}
	line.Color = c
	line.Width = vg.Points(lineWidth)
	p.Add(line)

	if legend != "" {
		p.Legend.Add(legend, line)
	}
}

func addZeroLine(p *plot.Plot) {
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Black
	zero.Width = vg.Points(0.8)
	p.Add(zero)
}

// saveChart writes a single plot as a PNG
func saveChart(p *plot.Plot, outDir, file string) (string, error) {
	path := filepath.Join(outDir, file)
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", err
	}
	log.Info().Str("Path", path).Msg("saved image")
	return path, nil
}

// saveDashboard draws the plots on a grid and writes one PNG
func saveDashboard(plots [][]*plot.Plot, outDir, file string) (string, error) {
	img := vgimg.New(dashboardWidth, dashboardHeight)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(plots, tiles, dc)
	for row := range plots {
		for col := range plots[row] {
			plots[row][col].Draw(canvases[row][col])
		}
	}

	path := filepath.Join(outDir, file)
	fh, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer fh.Close()

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(fh); err != nil {
		return "", err
	}

	log.Info().Str("Path", path).Msg("saved image")
	return path, nil
}

// renderCharts saves each chart, then a 2x2 dashboard of the same charts
// in order
func renderCharts(df *dataframe.DataFrame, charts []chart, dashboard, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(charts)+1)
	for _, c := range charts {
		path, err := saveChart(c.build(df), outDir, c.file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.file, err)
		}
		paths = append(paths, path)
	}

	// plots are rebuilt; a plot is laid out for the canvas it is drawn on
	grid := [][]*plot.Plot{
		{charts[0].build(df), charts[1].build(df)},
		{charts[2].build(df), charts[3].build(df)},
	}

	path, err := saveDashboard(grid, outDir, dashboard)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dashboard, err)
	}

	return append(paths, path), nil
}
