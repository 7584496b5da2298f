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

// SectorColumns is the header of the sector table
var SectorColumns = []string{"universe", "sector", "level", "perf_5d", "perf_1m", "perf_3m", "perf_ytd"}

// WriteSectors writes one line per performance row, in order
func WriteSectors(path string, rows []performance.Row) error {
	cols := make([][]interface{}, len(SectorColumns))
	for _, row := range rows {
		cols[0] = append(cols[0], row.Universe)
		cols[1] = append(cols[1], row.Label)
		cols[2] = append(cols[2], formatFloat(row.Level))
		cols[3] = append(cols[3], formatFloat(row.Perf5D))
		cols[4] = append(cols[4], formatFloat(row.Perf1M))
		cols[5] = append(cols[5], formatFloat(row.Perf3M))
		cols[6] = append(cols[6], formatFloat(row.PerfYTD))
	}
	return write(path, SectorColumns, cols)
}

// ReadSectors loads a sector table written by WriteSectors
func ReadSectors(path string) ([]performance.Row, error) {
	f, _, err := read(path, SectorColumns)
	if err != nil {
		return nil, err
	}

	rows := make([]performance.Row, f.Len())
	for idx := range rows {
		rows[idx] = performance.Row{
			Universe: f.String("universe", idx),
			Label:    f.String("sector", idx),
			Level:    f.Float("level", idx),
			Perf5D:   f.Float("perf_5d", idx),
			Perf1M:   f.Float("perf_1m", idx),
			Perf3M:   f.Float("perf_3m", idx),
			PerfYTD:  f.Float("perf_ytd", idx),
		}
	}

	return rows, nil
}
