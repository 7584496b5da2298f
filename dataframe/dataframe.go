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
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/penny-vault/marketdash/tradecron"
	"github.com/rs/zerolog/log"
)

// New creates a single column dataframe from parallel date and value slices
func New(name string, dates []time.Time, vals []float64) (*DataFrame, error) {
	if len(dates) != len(vals) {
		return nil, fmt.Errorf("%w: %d dates, %d values", ErrLengthMismatch, len(dates), len(vals))
	}

	return &DataFrame{
		Dates:    dates,
		ColNames: []string{name},
		Vals:     [][]float64{vals},
	}, nil
}

// Empty returns a dataframe with the requested columns and no rows
func Empty(colNames ...string) *DataFrame {
	vals := make([][]float64, len(colNames))
	for idx := range vals {
		vals[idx] = []float64{}
	}
	return &DataFrame{
		Dates:    []time.Time{},
		ColNames: colNames,
		Vals:     vals,
	}
}

// Breakout takes a dataframe with multiple columns and returns a map of dataframes, one per column
func (df *DataFrame) Breakout() Map {
	dfMap := Map{}
	for idx, col := range df.ColNames {
		dfMap[col] = &DataFrame{
			Dates:    df.Dates,
			ColNames: []string{col},
			Vals:     [][]float64{df.Vals[idx]},
		}
	}
	return dfMap
}

// ColIndex returns the index of the specified column or -1 if the column doesn't exist
func (df *DataFrame) ColIndex(colName string) int {
	for idx, val := range df.ColNames {
		if colName == val {
			return idx
		}
	}

	return -1
}

// ColCount returns the number of columns in the dataframe
func (df *DataFrame) ColCount() int {
	return len(df.ColNames)
}

// Column returns a single column dataframe that shares storage with df
func (df *DataFrame) Column(colName string) (*DataFrame, error) {
	colIdx := df.ColIndex(colName)
	if colIdx == -1 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, colName)
	}

	return &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{colName},
		Vals:     [][]float64{df.Vals[colIdx]},
	}, nil
}

// Copy creates a deep copy of the dataframe
func (df *DataFrame) Copy() *DataFrame {
	df2 := &DataFrame{
		ColNames: make([]string, len(df.ColNames)),
		Dates:    make([]time.Time, len(df.Dates)),
		Vals:     make([][]float64, len(df.Vals)),
	}

	copy(df2.ColNames, df.ColNames)
	copy(df2.Dates, df.Dates)

	for idx := range df2.Vals {
		df2.Vals[idx] = make([]float64, len(df.Vals[idx]))
		copy(df2.Vals[idx], df.Vals[idx])
	}

	return df2
}

// Drop removes rows where any column holds `val`; NaN matches NaN
func (df *DataFrame) Drop(val float64) *DataFrame {
	return df.filterRows(func(row []float64) bool {
		for _, v := range row {
			if matches(v, val) {
				return false
			}
		}
		return true
	})
}

// DropAll removes rows where every column holds `val`; NaN matches NaN
func (df *DataFrame) DropAll(val float64) *DataFrame {
	return df.filterRows(func(row []float64) bool {
		for _, v := range row {
			if !matches(v, val) {
				return true
			}
		}
		return len(row) == 0
	})
}

func matches(v, val float64) bool {
	if math.IsNaN(val) {
		return math.IsNaN(v)
	}
	return v == val
}

// filterRows keeps the rows for which keep returns true and returns a new dataframe
func (df *DataFrame) filterRows(keep func(row []float64) bool) *DataFrame {
	newVals := make([][]float64, len(df.Vals))
	for colIdx := range newVals {
		newVals[colIdx] = make([]float64, 0, len(df.Dates))
	}
	newDates := make([]time.Time, 0, len(df.Dates))

	row := make([]float64, len(df.Vals))
	for rowIdx, dt := range df.Dates {
		for colIdx, col := range df.Vals {
			row[colIdx] = col[rowIdx]
		}

		if keep(row) {
			newDates = append(newDates, dt)
			for colIdx, v := range row {
				newVals[colIdx] = append(newVals[colIdx], v)
			}
		}
	}

	return &DataFrame{
		Dates:    newDates,
		ColNames: df.ColNames,
		Vals:     newVals,
	}
}

// End returns the last date in the DataFrame
func (df *DataFrame) End() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[len(df.Dates)-1]
}

// Insert a new column to the end of the dataframe
func (df *DataFrame) Insert(name string, col []float64) *DataFrame {
	df.ColNames = append(df.ColNames, name)
	df.Vals = append(df.Vals, col)
	return df
}

// InsertRow adds a new row to the dataframe. Date must be after the last date in the dataframe and vals must equal the number
// of columns. If either of these conditions are not met then panic
func (df *DataFrame) InsertRow(date time.Time, vals ...float64) *DataFrame {
	if len(df.Dates) != 0 {
		last := df.Dates[len(df.Dates)-1]
		if !last.Before(date) {
			log.Panic().Time("lastDate", last).Time("newDate", date).Msg("newDate must be after lastDate")
		}
	}

	if len(vals) != len(df.ColNames) {
		log.Panic().Int("NumValsPassed", len(vals)).Int("NumColumns", len(df.ColNames)).Msg("number of vals passed must equal number of columns")
	}

	df.Dates = append(df.Dates, date)
	for colIdx := range df.ColNames {
		df.Vals[colIdx] = append(df.Vals[colIdx], vals[colIdx])
	}

	return df
}

// Last returns a new dataframe with only the last row of the current dataframe
func (df *DataFrame) Last() *DataFrame {
	if df.Len() == 0 {
		return df
	}

	lastVals := make([][]float64, len(df.ColNames))
	lastRow := len(df.Dates) - 1
	for idx, col := range df.Vals {
		lastVals[idx] = []float64{col[lastRow]}
	}

	return &DataFrame{
		ColNames: df.ColNames,
		Dates:    []time.Time{df.Dates[lastRow]},
		Vals:     lastVals,
	}
}

// Len returns the number of rows in the dataframe
func (df *DataFrame) Len() int {
	if df == nil {
		return 0
	}
	return len(df.Dates)
}

// Normalize returns a copy of the dataframe with dates truncated to UTC
// midnight, sorted ascending, de-duplicated (the last occurrence of a date
// wins) and with every row holding a NaN removed
func (df *DataFrame) Normalize() *DataFrame {
	order := make([]int, len(df.Dates))
	for idx := range order {
		order[idx] = idx
	}

	dates := make([]time.Time, len(df.Dates))
	for idx, dt := range df.Dates {
		dates[idx] = tradecron.DateOnly(dt)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return dates[order[i]].Before(dates[order[j]])
	})

	out := Empty(df.ColNames...)
	for pos, rowIdx := range order {
		// a later row with the same date supersedes this one
		if pos+1 < len(order) && dates[order[pos+1]].Equal(dates[rowIdx]) {
			continue
		}

		out.Dates = append(out.Dates, dates[rowIdx])
		for colIdx, col := range df.Vals {
			out.Vals[colIdx] = append(out.Vals[colIdx], col[rowIdx])
		}
	}

	return out.Drop(math.NaN())
}

// Resample groups rows into periods of the requested frequency and keeps,
// for each column, the last defined value observed in the period. The
// resulting rows are dated at the end of their period; weeks end on Friday.
func (df *DataFrame) Resample(frequency Frequency) (*DataFrame, error) {
	var periodEnd func(time.Time) time.Time
	switch frequency {
	case Daily:
		periodEnd = tradecron.DateOnly
	case Weekly:
		periodEnd = tradecron.WeekEnding
	case Monthly:
		periodEnd = tradecron.MonthEnding
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFrequency, frequency)
	}

	out := Empty(df.ColNames...)
	for rowIdx, dt := range df.Dates {
		period := periodEnd(dt)
		last := out.Len() - 1
		if last < 0 || !out.Dates[last].Equal(period) {
			out.Dates = append(out.Dates, period)
			for colIdx := range out.Vals {
				out.Vals[colIdx] = append(out.Vals[colIdx], math.NaN())
			}
			last++
		}

		for colIdx, col := range df.Vals {
			if !math.IsNaN(col[rowIdx]) {
				out.Vals[colIdx][last] = col[rowIdx]
			}
		}
	}

	return out, nil
}

// Split the dataframe into 2, with columns being in the first dataframe and
// all remaining columns in the second
func (df *DataFrame) Split(columns ...string) (*DataFrame, *DataFrame) {
	one := &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{},
		Vals:     [][]float64{},
	}

	two := &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{},
		Vals:     [][]float64{},
	}

	colMap := make(map[string]bool, len(columns))
	for _, col := range columns {
		colMap[col] = true
	}

	for idx, col := range df.ColNames {
		if _, ok := colMap[col]; ok {
			one.ColNames = append(one.ColNames, col)
			one.Vals = append(one.Vals, df.Vals[idx])
		} else {
			two.ColNames = append(two.ColNames, col)
			two.Vals = append(two.Vals, df.Vals[idx])
		}
	}

	return one, two
}

// Start returns the first date of the dataframe
func (df *DataFrame) Start() time.Time {
	if len(df.Dates) == 0 {
		return time.Time{}
	}
	return df.Dates[0]
}

// Table renders the dataframe as an ASCII formatted table
func (df *DataFrame) Table() string {
	if len(df.Dates) == 0 {
		return "<NO DATA>"
	}

	tableCols := append([]string{"Date"}, df.ColNames...)

	s := &strings.Builder{}
	table := tablewriter.NewWriter(s)
	table.SetAutoFormatHeaders(false)
	table.SetHeader(tableCols)
	footer := make([]string, len(tableCols))
	footer[0] = "Num Rows"
	if len(footer) > 1 {
		footer[1] = fmt.Sprintf("%d", df.Len())
	}
	table.SetFooter(footer)
	table.SetBorder(false)

	for rowIdx, dt := range df.Dates {
		row := make([]string, 0, len(df.Vals)+1)
		row = append(row, dt.Format("2006-01-02"))
		for _, col := range df.Vals {
			if math.IsNaN(col[rowIdx]) {
				row = append(row, "")
			} else {
				row = append(row, fmt.Sprintf("%.4f", col[rowIdx]))
			}
		}
		table.Append(row)
	}

	table.Render()
	return s.String()
}

// Trim returns the rows dated within [begin, end]; a zero end is unbounded
func (df *DataFrame) Trim(begin, end time.Time) *DataFrame {
	if end.IsZero() {
		end = df.End()
	}

	if df.Len() == 0 || end.Before(begin) {
		return Empty(df.ColNames...)
	}

	beginIdx := sort.Search(len(df.Dates), func(i int) bool {
		return !df.Dates[i].Before(begin)
	})

	endIdx := sort.Search(len(df.Dates), func(i int) bool {
		return df.Dates[i].After(end)
	})

	if beginIdx >= endIdx {
		return Empty(df.ColNames...)
	}

	df2 := &DataFrame{
		ColNames: df.ColNames,
		Dates:    df.Dates[beginIdx:endIdx],
		Vals:     make([][]float64, len(df.Vals)),
	}
	for colIdx, col := range df.Vals {
		df2.Vals[colIdx] = col[beginIdx:endIdx]
	}

	return df2
}

// ValueAt returns the value of the first column on the last row dated on
// or before t, or NaN when there is no such row
func (df *DataFrame) ValueAt(t time.Time) float64 {
	if df.Len() == 0 || len(df.Vals) == 0 {
		return math.NaN()
	}

	idx := sort.Search(len(df.Dates), func(i int) bool {
		return df.Dates[i].After(t)
	})

	if idx == 0 {
		return math.NaN()
	}

	return df.Vals[0][idx-1]
}
