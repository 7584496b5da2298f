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
	"image/color"
	"math"

	"github.com/penny-vault/marketdash/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Output files of the rates charts
const (
	RatesCurveImage     = "rates_curve.png"
	Rates10YImage       = "rates_10y.png"
	RatesSpreadDEImage  = "rates_spread_de_2_10.png"
	RatesSpreadUSImage  = "rates_spread_us_2_10.png"
	RatesDashboardImage = "rates_dashboard_fred.png"
)

// Columns of the rates table used by the charts
const (
	ColUS2Y   = "US_2Y"
	ColUS10Y  = "US_10Y"
	ColBund10 = "Bund_10Y"
	ColOAT10  = "OAT_10Y"
)

type tenor struct {
	col   string
	label string
}

var usTenors = []tenor{
	{"US_1M", "1M"}, {"US_3M", "3M"}, {"US_6M", "6M"},
	{"US_1Y", "1Y"}, {ColUS2Y, "2Y"}, {"US_3Y", "3Y"},
	{"US_5Y", "5Y"}, {"US_7Y", "7Y"}, {ColUS10Y, "10Y"},
	{"US_20Y", "20Y"}, {"US_30Y", "30Y"},
}

var ratesCharts = []chart{
	{RatesCurveImage, yieldCurve},
	{RatesSpreadDEImage, spreadDE},
	{Rates10YImage, tenYear},
	{RatesSpreadUSImage, spreadUS},
}

// RatesCharts draws the rates charts from a weekly rates table and a 2x2
// dashboard of them
func RatesCharts(weekly *dataframe.DataFrame, outDir string) ([]string, error) {
	return renderCharts(weekly, ratesCharts, RatesDashboardImage, outDir)
}

// yieldCurve draws the latest US curve with the Bund 10Y as a flat
// reference line
func yieldCurve(df *dataframe.DataFrame) *plot.Plot {
	p := newPlot("Courbe des taux", "%")

	last := df.Last()
	labels := make([]string, 0, len(usTenors))
	us := make(plotter.XYs, 0, len(usTenors))
	for _, t := range usTenors {
		v := lastValue(last, t.col)
		if math.IsNaN(v) {
			continue
		}
		us = append(us, plotter.XY{X: float64(len(labels)), Y: v})
		labels = append(labels, t.label)
	}

	if len(labels) == 0 {
		return p
	}
	p.NominalX(labels...)

	addCurve(p, us, usColor, "Taux US")

	if v := lastValue(last, ColBund10); !math.IsNaN(v) {
		bund := make(plotter.XYs, len(us))
		for i := range us {
			bund[i] = plotter.XY{X: us[i].X, Y: v}
		}
		addCurve(p, bund, deColor, "Taux Allemands")
	}

	return p
}

// lastValue returns the value of col on the last row, NaN when absent
func lastValue(df *dataframe.DataFrame, col string) float64 {
	idx := df.ColIndex(col)
	if idx < 0 || df.Len() == 0 {
		return math.NaN()
	}
	return df.Vals[idx][df.Len()-1]
}

// addCurve draws a line with square markers
func addCurve(p *plot.Plot, xys plotter.XYs, c color.Color, legend string) {
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return
	}
	line.Color = c
	line.Width = vg.Points(lineWidth)
	points.Shape = draw.BoxGlyph{}
	points.Color = c
	p.Add(line, points)
	p.Legend.Add(legend, line, points)
}

func tenYear(df *dataframe.DataFrame) *plot.Plot {
	p := newTimePlot("Taux 10 ans", "%")
	addLine(p, timeXYs(df, ColUS10Y, 1), usColor, "Taux US 10 ans")
	addLine(p, timeXYs(df, ColBund10, 1), deColor, "Taux Allemand 10 ans")
	return p
}

func spreadDE(df *dataframe.DataFrame) *plot.Plot {
	p := newTimePlot("Spread OAT - Bund 10 ans", "bps")
	addZeroLine(p)
	addLine(p, spreadXYs(df, ColOAT10, ColBund10, 100), deColor, "")
	return p
}

func spreadUS(df *dataframe.DataFrame) *plot.Plot {
	p := newTimePlot("Taux 2-10Y US", "bps")
	addZeroLine(p)
	addLine(p, spreadXYs(df, ColUS10Y, ColUS2Y, 100), usColor, "")
	return p
}
