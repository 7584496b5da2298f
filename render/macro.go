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

	"github.com/fogleman/gg"
	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/table"
)

// MacroImage is the file name of the macro dashboard
const MacroImage = "macro_dashboard_legacy_style.png"

const (
	macroWidth     = 1650
	macroBlockRows = 4
	macroBlockCols = 2
	blockTitleBG   = "#00508A"
	perfPos        = "#008000"
	perfNeg        = "#B00020"
	perfNone       = "#777777"
	barBackground  = "#F2F2F2"
	macroBlockH    = 300
)

// block column positions as fractions of the block width
const (
	xLabel    = 0.02
	xLevel    = 0.42
	xLastWeek = 0.60
	xBarLeft  = 0.72
	xBarRight = 0.97
)

func perfColor(v float64) string {
	switch {
	case math.IsNaN(v):
		return perfNone
	case v >= 0:
		return perfPos
	default:
		return perfNeg
	}
}

// MacroDashboard draws the macro blocks on a two column grid. The YTD
// gauges share one scale: the largest absolute YTD performance.
func MacroDashboard(rows []table.MacroRow, outDir string) (string, error) {
	groups := table.Groups(rows)
	byGroup := make(map[string][]table.MacroRow, len(groups))
	ytd := make([]float64, 0, len(rows))
	for _, row := range rows {
		byGroup[row.Group] = append(byGroup[row.Group], row)
		ytd = append(ytd, row.PerfYTD)
	}

	scale := dataframe.MaxAbs(ytd)
	if scale == 0 {
		scale = 1
	}

	gridRows := (len(groups) + macroBlockCols - 1) / macroBlockCols
	if gridRows < macroBlockRows {
		gridRows = macroBlockRows
	}

	dc := gg.NewContext(macroWidth, gridRows*macroBlockH)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	blockW := float64(macroWidth) / macroBlockCols
	for idx, group := range groups {
		x := float64(idx%macroBlockCols) * blockW
		y := float64(idx/macroBlockCols) * macroBlockH
		drawMacroBlock(dc, group, byGroup[group], scale, x+12, y+8, blockW-24, macroBlockH-16)
	}

	return savePNG(dc, outDir, MacroImage)
}

func drawMacroBlock(dc *gg.Context, title string, rows []table.MacroRow, scale, x, y, w, h float64) {
	titleFace := face(true, 12)
	dc.SetFontFace(titleFace)
	tw, th := dc.MeasureString(title)
	fillRect(dc, blockTitleBG, x, y, tw+16, th+12)
	dc.SetHexColor("#FFFFFF")
	dc.DrawStringAnchored(title, x+8, y+(th+12)/2, 0, 0.35)

	if len(rows) == 0 {
		setTextColor(dc)
		dc.DrawStringAnchored(title, x+w/2, y+h/2, 0.5, 0.5)
		return
	}

	top := y + 0.1*h
	rowH := 0.8 * h / float64(len(rows)+1)

	dc.SetFontFace(face(true, 8))
	setTextColor(dc)
	dc.DrawStringAnchored("Libellé", x+xLabel*w, top, 0, 0)
	dc.DrawStringAnchored("Niveau", x+xLevel*w, top, 1, 0)
	dc.DrawStringAnchored("LastWeek", x+xLastWeek*w, top, 1, 0)
	dc.DrawStringAnchored("PerfYTD", x+(xBarLeft+xBarRight)/2*w, top, 0.5, 0)

	barW := (xBarRight - xBarLeft) * w
	dc.SetFontFace(face(false, 8))
	for idx, row := range rows {
		cy := top + float64(idx+1)*rowH

		setTextColor(dc)
		dc.DrawStringAnchored(row.Label, x+xLabel*w, cy, 0, 0.35)
		dc.DrawStringAnchored(FormatLevel(row.Level), x+xLevel*w, cy, 1, 0.35)

		dc.SetHexColor(perfColor(row.LastWeek))
		dc.DrawStringAnchored(FormatPct(row.LastWeek), x+xLastWeek*w, cy, 1, 0.35)

		barX := x + xBarLeft*w
		barY := cy - 0.35*rowH
		if math.IsNaN(row.PerfYTD) {
			dc.SetHexColor(perfNone)
			dc.DrawStringAnchored(Placeholder, barX+barW/2, cy, 0.5, 0.35)
			continue
		}

		fillRect(dc, barBackground, barX, barY, barW, 0.7*rowH)
		frac := math.Min(math.Abs(row.PerfYTD)/scale, 1)
		fillRect(dc, perfColor(row.PerfYTD), barX, barY, barW*frac, 0.7*rowH)

		if math.Abs(row.PerfYTD) > scale*0.25 {
			dc.SetHexColor("#FFFFFF")
		} else {
			setTextColor(dc)
		}
		dc.DrawStringAnchored(FormatPct(row.PerfYTD), barX+barW/2, cy, 0.5, 0.35)
	}
}
