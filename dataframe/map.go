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

package dataframe

import (
	"math"
	"sort"
	"time"
)

// Drop calls dataframe.Drop on each dataframe in the map and returns a new map
func (dfMap Map) Drop(val float64) Map {
	newMap := make(Map, len(dfMap))
	for k, v := range dfMap {
		newMap[k] = v.Drop(val)
	}
	return newMap
}

// Merge outer joins the first column of each named dataframe into one
// dataframe with a column per name, in the order given. Dates missing from a
// series are NaN in its column. Names absent from the map yield an all NaN
// column.
func (dfMap Map) Merge(names ...string) *DataFrame {
	seen := make(map[time.Time]bool)
	dates := make([]time.Time, 0)
	for _, name := range names {
		df, ok := dfMap[name]
		if !ok || df == nil {
			continue
		}
		for _, dt := range df.Dates {
			if !seen[dt] {
				seen[dt] = true
				dates = append(dates, dt)
			}
		}
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	rowIdx := make(map[time.Time]int, len(dates))
	for idx, dt := range dates {
		rowIdx[dt] = idx
	}

	merged := &DataFrame{
		Dates:    dates,
		ColNames: make([]string, 0, len(names)),
		Vals:     make([][]float64, 0, len(names)),
	}

	for _, name := range names {
		col := make([]float64, len(dates))
		for idx := range col {
			col[idx] = math.NaN()
		}

		if df, ok := dfMap[name]; ok && df != nil && len(df.Vals) > 0 {
			for idx, dt := range df.Dates {
				col[rowIdx[dt]] = df.Vals[0][idx]
			}
		}

		merged.ColNames = append(merged.ColNames, name)
		merged.Vals = append(merged.Vals, col)
	}

	return merged
}
