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
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/penny-vault/marketdash/performance"
	"github.com/rs/zerolog/log"
)

// SectorsImage is the file name of the sector panels
const SectorsImage = "sectors_2panels_legacy_style.png"

// panel colors and geometry, in pixels
const (
	colorHeader = "#0A3D6E"
	colorCellA  = "#EEF1F5"
	colorCellB  = "#FFFFFF"
	colorBarBG  = "#E6E6E6"
	colorBarPos = "#00B050"
	colorBarNeg = "#C00000"

	panelWidth   = 1082
	panelHeight  = 560
	headerHeight = 28
	rowHeight    = 28
	leftMargin   = 18
	rightMargin  = 28
	topMargin    = 14
	bottomMargin = 12
	gutter       = 34

	// gauges are full at +/- gaugeCap percent
	gaugeCap = 8.0
)

var sectorHeaders = []string{"Secteur", "Perf 5D", "1M", "3M", "Perf YTD"}

func setTextColor(dc *gg.Context) {
	dc.SetRGB(0.12, 0.12, 0.12)
}

func fillRect(dc *gg.Context, hex string, x, y, w, h float64) {
	dc.SetHexColor(hex)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
}

// groupByUniverse splits rows by universe, keeping the order in which the
// universes first appear
func groupByUniverse(rows []performance.Row) ([]string, map[string][]performance.Row) {
	names := make([]string, 0)
	groups := make(map[string][]performance.Row)
	for _, row := range rows {
		if _, ok := groups[row.Universe]; !ok {
			names = append(names, row.Universe)
		}
		groups[row.Universe] = append(groups[row.Universe], row)
	}
	return names, groups
}

// SectorPanels draws one panel per universe, side by side, and writes the
// image to outDir
func SectorPanels(rows []performance.Row, outDir string) (string, error) {
	names, groups := groupByUniverse(rows)
	numPanels := len(names)
	if numPanels < 2 {
		numPanels = 2
	}

	maxRows := 0
	for _, name := range names {
		if len(groups[name]) > maxRows {
			maxRows = len(groups[name])
		}
	}

	height := panelHeight
	if needed := topMargin + 2*headerHeight + maxRows*rowHeight + bottomMargin; needed > height {
		height = needed
	}

	colWidth := float64(panelWidth-leftMargin-rightMargin-(numPanels-1)*gutter) / float64(numPanels)

	dc := gg.NewContext(panelWidth, height)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	for idx, name := range names {
		x := float64(leftMargin) + float64(idx)*(colWidth+gutter)
		drawSectorPanel(dc, name, groups[name], x, topMargin, colWidth)
	}

	return savePNG(dc, outDir, SectorsImage)
}

func drawSectorPanel(dc *gg.Context, title string, rows []performance.Row, x, y, width float64) {
	// title band
	fillRect(dc, colorHeader, x, y, width, headerHeight)
	dc.SetFontFace(face(true, 12))
	dc.SetHexColor("#FFFFFF")
	dc.DrawStringAnchored(title, x+8, y+headerHeight/2, 0, 0.35)

	// column headers
	gaugeWidth := math.Floor(0.14 * width)
	colWidths := []float64{math.Floor(0.44 * width), gaugeWidth, gaugeWidth, gaugeWidth}
	colWidths = append(colWidths, width-colWidths[0]-3*gaugeWidth)

	hdrY := y + headerHeight
	fillRect(dc, colorHeader, x, hdrY, width, headerHeight)
	dc.SetFontFace(face(true, 9))
	tx := x
	for idx, hdr := range sectorHeaders {
		dc.DrawStringAnchored(hdr, tx+6, hdrY+headerHeight/2, 0, 0.35)
		tx += colWidths[idx]
	}

	regular9 := face(false, 9)
	regular8 := face(false, 8)

	ry := hdrY + headerHeight
	for rowIdx, row := range rows {
		bg := colorCellA
		if rowIdx%2 == 1 {
			bg = colorCellB
		}
		fillRect(dc, bg, x, ry, width, rowHeight)

		dc.SetFontFace(regular9)
		setTextColor(dc)
		dc.DrawStringAnchored(row.Label, x+6, ry+rowHeight/2, 0, 0.35)

		gx := x + colWidths[0]
		dc.SetFontFace(regular8)
		for _, v := range []float64{row.Perf5D, row.Perf1M, row.Perf3M} {
			drawGauge(dc, v, gaugeCap, gx+4, ry+4, gaugeWidth-8, rowHeight-8)
			gx += gaugeWidth
		}

		dc.SetFontFace(regular9)
		setTextColor(dc)
		dc.DrawStringAnchored(FormatPct(row.PerfYTD), gx+6, ry+rowHeight/2, 0, 0.35)

		ry += rowHeight
	}
}

// drawGauge draws a bar filled from the left in proportion to |v|/scale,
// with the formatted value right aligned inside it. An undefined value
// draws the empty bar and a centered placeholder.
func drawGauge(dc *gg.Context, v, scale, x, y, w, h float64) {
	fillRect(dc, colorBarBG, x, y, w, h)

	if math.IsNaN(v) {
		setTextColor(dc)
		dc.DrawStringAnchored(Placeholder, x+w/2, y+h/2, 0.5, 0.35)
		return
	}

	if scale > 0 {
		fill := math.Min(math.Abs(v)/scale, 1) * w
		if fill > 0 {
			color := colorBarPos
			if v < 0 {
				color = colorBarNeg
			}
			fillRect(dc, color, x, y, fill, h)
		}
	}

	setTextColor(dc)
	dc.DrawStringAnchored(FormatPct(v), x+w-2, y+h/2, 1, 0.35)
}

func savePNG(dc *gg.Context, outDir, name string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(outDir, name)
	if err := dc.SavePNG(path); err != nil {
		return "", err
	}

	log.Info().Str("Path", path).Msg("saved image")
	return path, nil
}
