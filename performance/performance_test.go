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

package performance_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/performance"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// businessDaySeries returns a series with one point per weekday from begin
// through end, valued by fn
func businessDaySeries(begin, end time.Time, fn func(idx int) float64) *dataframe.DataFrame {
	df := dataframe.Empty("px")
	idx := 0
	for dt := begin; !dt.After(end); dt = dt.AddDate(0, 0, 1) {
		if dt.Weekday() == time.Saturday || dt.Weekday() == time.Sunday {
			continue
		}
		df.InsertRow(dt, fn(idx))
		idx++
	}
	return df
}

func expectNaN(v float64) {
	ExpectWithOffset(1, math.IsNaN(v)).To(BeTrue(), "expected NaN, got %v", v)
}

var _ = Describe("Performance", func() {
	DescribeTable("Pct",
		func(level, ref, expected float64) {
			if math.IsNaN(expected) {
				expectNaN(performance.Pct(level, ref))
			} else {
				Expect(performance.Pct(level, ref)).To(BeNumerically("~", expected, 1e-9))
			}
		},
		Entry("gain", 110.0, 100.0, 10.0),
		Entry("loss", 90.0, 100.0, -10.0),
		Entry("flat", 100.0, 100.0, 0.0),
		Entry("zero reference", 100.0, 0.0, math.NaN()),
		Entry("undefined reference", 100.0, math.NaN(), math.NaN()),
		Entry("undefined level", math.NaN(), 100.0, math.NaN()),
	)

	It("leaves every field undefined for an empty series", func() {
		row := performance.Compute(dataframe.Empty("px"), day(2024, 3, 1))
		expectNaN(row.Level)
		expectNaN(row.Perf5D)
		expectNaN(row.Perf1M)
		expectNaN(row.Perf3M)
		expectNaN(row.PerfYTD)
	})

	It("leaves every field undefined for a missing series", func() {
		row := performance.Compute(nil, time.Time{})
		expectNaN(row.Level)
		expectNaN(row.PerfYTD)
	})

	It("uses the last value as the level", func() {
		df := businessDaySeries(day(2023, 1, 2), day(2024, 5, 31), func(idx int) float64 { return 50 + float64(idx) })
		row := performance.Compute(df, time.Time{})
		Expect(row.Level).To(Equal(df.Vals[0][df.Len()-1]))
	})

	It("computes a one month change of +10% over 30 days", func() {
		df, err := dataframe.New("px", []time.Time{day(2024, 1, 1), day(2024, 1, 31)}, []float64{100, 110})
		Expect(err).To(BeNil())

		row := performance.Compute(df, day(2024, 1, 31))
		Expect(row.Level).To(Equal(110.0))
		Expect(row.Perf1M).To(BeNumerically("~", 10.0, 1e-9))
		Expect(row.Perf5D).To(BeNumerically("~", 10.0, 1e-9))
		expectNaN(row.Perf3M)
		expectNaN(row.PerfYTD)
	})

	It("is undefined when there is no point before the reference date", func() {
		df := businessDaySeries(day(2024, 1, 2), day(2024, 5, 31), func(idx int) float64 { return 100 })
		row := performance.Compute(df, day(2024, 5, 31))
		expectNaN(row.PerfYTD)
		Expect(row.Perf5D).To(Equal(0.0))
	})

	It("measures each window from the business day reference", func() {
		// value is the day of year so each window is easy to check
		df := businessDaySeries(day(2023, 12, 1), day(2024, 4, 30), func(int) float64 { return 0 })
		for idx, dt := range df.Dates {
			df.Vals[0][idx] = float64(dt.YearDay()) + float64(dt.Year()-2023)*1000
		}

		// 2024-04-30 is a tuesday
		row := performance.Compute(df, day(2024, 4, 30))
		level := float64(day(2024, 4, 30).YearDay()) + 1000
		Expect(row.Level).To(Equal(level))
		Expect(row.Perf5D).To(BeNumerically("~", performance.Pct(level, float64(day(2024, 4, 23).YearDay())+1000), 1e-9))
		Expect(row.Perf1M).To(BeNumerically("~", performance.Pct(level, float64(day(2024, 4, 1).YearDay())+1000), 1e-9))
		Expect(row.Perf3M).To(BeNumerically("~", performance.Pct(level, float64(day(2024, 2, 1).YearDay())+1000), 1e-9))
		Expect(row.PerfYTD).To(BeNumerically("~", performance.Pct(level, float64(day(2023, 12, 29).YearDay())), 1e-9))
	})

	It("anchors on the as-of date rather than the last point", func() {
		df := businessDaySeries(day(2023, 12, 1), day(2024, 4, 30), func(idx int) float64 { return 100 + float64(idx) })
		row := performance.Compute(df, day(2024, 3, 15))
		Expect(row.Level).To(Equal(df.ValueAt(day(2024, 3, 15))))
	})

	It("builds a table in label order", func() {
		a := businessDaySeries(day(2023, 12, 1), day(2024, 2, 29), func(idx int) float64 { return 100 + float64(idx) })
		rows := performance.ComputeTable("SP 500", []string{"Energy", "Utilities"}, dataframe.Map{"Utilities": a}, day(2024, 2, 29))
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].Universe).To(Equal("SP 500"))
		Expect(rows[0].Label).To(Equal("Energy"))
		expectNaN(rows[0].Level)
		Expect(rows[1].Label).To(Equal("Utilities"))
		Expect(rows[1].Level).To(Equal(a.Vals[0][a.Len()-1]))
	})
	Describe("Volatility", func() {
		It("is zero for a constant daily change", func() {
			df := businessDaySeries(day(2024, 1, 1), day(2024, 3, 29), func(idx int) float64 { return 100 * math.Pow(1.01, float64(idx)) })
			Expect(performance.Volatility(df, time.Time{}, performance.Days3M)).To(BeNumerically("~", 0, 1e-9))
		})

		It("ignores points after the as-of date", func() {
			df := businessDaySeries(day(2024, 1, 1), day(2024, 3, 29), func(idx int) float64 {
				if idx > 40 {
					return 100 + float64(idx%2)*50
				}
				return 100 * math.Pow(1.01, float64(idx))
			})
			asOf := df.Dates[40]
			Expect(performance.Volatility(df, asOf, 20)).To(BeNumerically("~", 0, 1e-9))
			Expect(performance.Volatility(df, time.Time{}, 20)).To(BeNumerically(">", 100))
		})

		It("annualizes the standard deviation of daily changes", func() {
			df := businessDaySeries(day(2024, 1, 1), day(2024, 1, 5), func(idx int) float64 { return []float64{100, 110, 99, 108.9, 98.01}[idx] })
			// daily changes alternate +10% and -10%; sample std dev is 20/sqrt(3)
			expected := 20 / math.Sqrt(3) * math.Sqrt(252)
			Expect(performance.Volatility(df, time.Time{}, performance.Days5D)).To(BeNumerically("~", expected, 1e-6))
		})

		It("is undefined without enough points", func() {
			expectNaN(performance.Volatility(dataframe.Empty("px"), time.Time{}, performance.Days1M))
			df := businessDaySeries(day(2024, 1, 1), day(2024, 1, 2), func(idx int) float64 { return 100 })
			expectNaN(performance.Volatility(df, time.Time{}, performance.Days1M))
		})
	})
})
