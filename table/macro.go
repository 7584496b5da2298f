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

package table

import (
	"github.com/penny-vault/marketdash/performance"
)

// MacroColumns is the header of the macro table
var MacroColumns = []string{"group", "label", "level", "last_week", "perf_ytd"}

// MacroRow is one line of the macro dashboard. LastWeek is the 5 business
// day performance.
type MacroRow struct {
	Group    string
	Label    string
	Level    float64
	LastWeek float64
	PerfYTD  float64
}

// NewMacroRows keeps the macro columns of performance rows; the universe
// name becomes the group
func NewMacroRows(rows []performance.Row) []MacroRow {
	res := make([]MacroRow, len(rows))
	for idx, row := range rows {
		res[idx] = MacroRow{
			Group:    row.Universe,
			Label:    row.Label,
			Level:    row.Level,
			LastWeek: row.Perf5D,
			PerfYTD:  row.PerfYTD,
		}
	}
	return res
}

// WriteMacro writes the macro table
func WriteMacro(path string, rows []MacroRow) error {
	cols := make([][]interface{}, len(MacroColumns))
	for _, row := range rows {
		cols[0] = append(cols[0], row.Group)
		cols[1] = append(cols[1], row.Label)
		cols[2] = append(cols[2], formatFloat(row.Level))
		cols[3] = append(cols[3], formatFloat(row.LastWeek))
		cols[4] = append(cols[4], formatFloat(row.PerfYTD))
	}
	return write(path, MacroColumns, cols)
}

// ReadMacro loads a macro table written by WriteMacro
func ReadMacro(path string) ([]MacroRow, error) {
	f, _, err := read(path, MacroColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]MacroRow, f.Len())
	for idx := range rows {
		rows[idx] = MacroRow{
			Group:    f.String("group", idx),
			Label:    f.String("label", idx),
			Level:    f.Float("level", idx),
			LastWeek: f.Float("last_week", idx),
			PerfYTD:  f.Float("perf_ytd", idx),
		}
	}

	return rows, nil
}

// Groups returns the group names in order of first appearance
func Groups(rows []MacroRow) []string {
	seen := make(map[string]bool)
	groups := make([]string, 0)
	for _, row := range rows {
		if !seen[row.Group] {
			seen[row.Group] = true
			groups = append(groups, row.Group)
		}
	}
	return groups
}
