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

// Package performance computes trailing percentage changes of price series.
// Undefined results are represented by math.NaN() and are never an error.
package performance

import (
	"math"
	"time"

	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/tradecron"
	"gonum.org/v1/gonum/stat"
)

// Window lengths in business days
const (
	Days5D = 5
	Days1M = 21
	Days3M = 63

	tradingDaysPerYear = 252
)

// Row holds the performance metrics of one instrument. Any field may be NaN.
type Row struct {
	Universe string
	Label    string
	Level    float64
	Perf5D   float64
	Perf1M   float64
	Perf3M   float64
	PerfYTD  float64
}

// Pct returns the percentage change from ref to level; undefined when
// either value is undefined or ref is zero
func Pct(level, ref float64) float64 {
	if math.IsNaN(level) || math.IsNaN(ref) || ref == 0 {
		return math.NaN()
	}
	return (level/ref - 1) * 100
}

// Windows returns the reference dates used for an as-of date: 5, 21 and 63
// business days before, and the last business day of the previous year
func Windows(asOf time.Time) (d5, m1, m3, ytd time.Time) {
	return tradecron.BusinessDaysBefore(asOf, Days5D),
		tradecron.BusinessDaysBefore(asOf, Days1M),
		tradecron.BusinessDaysBefore(asOf, Days3M),
		tradecron.PreviousYearEnd(asOf)
}

// Compute evaluates the metrics of a normalized series as of the given
// date. A zero asOf means the last date of the series.
func Compute(series *dataframe.DataFrame, asOf time.Time) Row {
	row := Row{
		Level:   math.NaN(),
		Perf5D:  math.NaN(),
		Perf1M:  math.NaN(),
		Perf3M:  math.NaN(),
		PerfYTD: math.NaN(),
	}

	if series.Len() == 0 {
		return row
	}

	if asOf.IsZero() {
		asOf = series.End()
	}
	asOf = tradecron.DateOnly(asOf)

	row.Level = series.ValueAt(asOf)
	d5, m1, m3, ytd := Windows(asOf)
	row.Perf5D = Pct(row.Level, series.ValueAt(d5))
	row.Perf1M = Pct(row.Level, series.ValueAt(m1))
	row.Perf3M = Pct(row.Level, series.ValueAt(m3))
	row.PerfYTD = Pct(row.Level, series.ValueAt(ytd))

	return row
}

// ComputeTable returns one row per label, in the order given. Labels with
// no series in the map produce an all NaN row.
func ComputeTable(universe string, labels []string, series dataframe.Map, asOf time.Time) []Row {
	rows := make([]Row, 0, len(labels))
	for _, label := range labels {
		row := Compute(series[label], asOf)
		row.Universe = universe
		row.Label = label
		rows = append(rows, row)
	}
	return rows
}

// Volatility returns the annualized standard deviation, in percent, of the
// daily changes over the last n points at or before asOf. Fewer than three
// points give NaN.
func Volatility(series *dataframe.DataFrame, asOf time.Time, n int) float64 {
	if series.Len() == 0 {
		return math.NaN()
	}
	if asOf.IsZero() {
		asOf = series.End()
	}
	asOf = tradecron.DateOnly(asOf)

	last := -1
	for idx, dt := range series.Dates {
		if dt.After(asOf) {
			break
		}
		last = idx
	}

	first := last - n
	if first < 0 {
		first = 0
	}
	if last-first < 2 {
		return math.NaN()
	}

	vals := series.Vals[0]
	rets := make([]float64, 0, last-first)
	for idx := first + 1; idx <= last; idx++ {
		rets = append(rets, Pct(vals[idx], vals[idx-1]))
	}

	for _, r := range rets {
		if math.IsNaN(r) {
			return math.NaN()
		}
	}

	return stat.StdDev(rets, nil) * math.Sqrt(tradingDaysPerYear)
}
