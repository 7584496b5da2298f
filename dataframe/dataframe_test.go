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

package dataframe_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/marketdash/dataframe"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("DataFrame", func() {
	Context("with no values", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			df = dataframe.Empty("Col1")
		})

		It("has zero length", func() {
			Expect(df.Len()).To(Equal(0))
		})

		It("keeps its column names", func() {
			Expect(df.ColNames).To(Equal([]string{"Col1"}))
		})

		It("does not error on drop", func() {
			df = df.Drop(math.NaN())
			Expect(df.Len()).To(Equal(0))
		})

		It("does not error on trim", func() {
			df = df.Trim(day(2021, 1, 1), day(2022, 1, 1))
			Expect(df.Len()).To(Equal(0))
		})

		It("does not error on resample", func() {
			weekly, err := df.Resample(dataframe.Weekly)
			Expect(err).To(BeNil())
			Expect(weekly.Len()).To(Equal(0))
		})

		It("has no value at any date", func() {
			Expect(math.IsNaN(df.ValueAt(day(2022, 1, 1)))).To(BeTrue())
		})

		It("renders a placeholder table", func() {
			Expect(df.Table()).To(Equal("<NO DATA>"))
		})
	})

	Context("with 2 years of values and a single column", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			dates := make([]time.Time, 730)
			vals := make([]float64, 730)
			dt := day(2020, 1, 1)
			for idx := range dates {
				dates[idx] = dt
				dt = dt.AddDate(0, 0, 1)
				vals[idx] = float64(idx)
			}

			var err error
			df, err = dataframe.New("Col1", dates, vals)
			Expect(err).To(BeNil())
		})

		It("has length", func() {
			Expect(df.Len()).To(Equal(730))
		})

		It("has start and end", func() {
			Expect(df.Start()).To(Equal(day(2020, 1, 1)))
			Expect(df.End()).To(Equal(day(2021, 12, 30)))
		})

		It("trims inclusively", func() {
			trimmed := df.Trim(day(2020, 2, 1), day(2020, 2, 10))
			Expect(trimmed.Len()).To(Equal(10))
			Expect(trimmed.Start()).To(Equal(day(2020, 2, 1)))
			Expect(trimmed.End()).To(Equal(day(2020, 2, 10)))
		})

		It("trims to the end when no end is given", func() {
			trimmed := df.Trim(day(2021, 12, 1), time.Time{})
			Expect(trimmed.Len()).To(Equal(30))
		})

		It("is empty when the range is reversed", func() {
			Expect(df.Trim(day(2021, 1, 1), day(2020, 1, 1)).Len()).To(Equal(0))
		})

		It("does not modify the original when trimmed", func() {
			df.Trim(day(2020, 2, 1), day(2020, 2, 10))
			Expect(df.Len()).To(Equal(730))
			Expect(df.Vals[0][0]).To(Equal(0.0))
		})

		DescribeTable("ValueAt",
			func(at time.Time, expected float64) {
				v := df.ValueAt(at)
				if math.IsNaN(expected) {
					Expect(math.IsNaN(v)).To(BeTrue())
				} else {
					Expect(v).To(Equal(expected))
				}
			},
			Entry("before the first date", day(2019, 12, 31), math.NaN()),
			Entry("on the first date", day(2020, 1, 1), 0.0),
			Entry("on an interior date", day(2020, 1, 11), 10.0),
			Entry("intraday after an interior date", day(2020, 1, 11).Add(5*time.Hour), 10.0),
			Entry("after the last date", day(2023, 1, 1), 729.0),
		)

		It("resamples to weeks ending friday", func() {
			weekly, err := df.Resample(dataframe.Weekly)
			Expect(err).To(BeNil())
			Expect(weekly.Dates[0]).To(Equal(day(2020, 1, 3)))
			Expect(weekly.Vals[0][0]).To(Equal(2.0))
			Expect(weekly.Dates[1]).To(Equal(day(2020, 1, 10)))
			Expect(weekly.Vals[0][1]).To(Equal(9.0))
			for _, dt := range weekly.Dates {
				Expect(dt.Weekday()).To(Equal(time.Friday))
			}
		})

		It("resamples to month ends", func() {
			monthly, err := df.Resample(dataframe.Monthly)
			Expect(err).To(BeNil())
			Expect(monthly.Len()).To(Equal(24))
			Expect(monthly.Dates[1]).To(Equal(day(2020, 2, 29)))
			Expect(monthly.Vals[0][1]).To(Equal(59.0))
		})

		It("rejects unknown frequencies", func() {
			_, err := df.Resample(dataframe.Frequency("Hourly"))
			Expect(err).To(MatchError(dataframe.ErrUnknownFrequency))
		})

		It("scales values", func() {
			scaled := df.MulScalar(100)
			Expect(scaled.Vals[0][3]).To(Equal(300.0))
			Expect(df.Vals[0][3]).To(Equal(3.0))
		})

		It("returns the last row", func() {
			last := df.Last()
			Expect(last.Len()).To(Equal(1))
			Expect(last.Vals[0][0]).To(Equal(729.0))
		})
	})

	Context("when normalizing", func() {
		It("sorts, de-duplicates and drops undefined values", func() {
			df := &dataframe.DataFrame{
				Dates: []time.Time{
					day(2024, 1, 3),
					time.Date(2024, 1, 1, 21, 0, 0, 0, time.FixedZone("EST", -5*3600)),
					day(2024, 1, 2),
					day(2024, 1, 3),
					day(2024, 1, 4),
				},
				ColNames: []string{"SPY"},
				Vals:     [][]float64{{3, 1, 2, 33, math.NaN()}},
			}

			norm := df.Normalize()
			Expect(norm.Dates).To(Equal([]time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}))
			Expect(norm.Vals[0]).To(Equal([]float64{1, 2, 33}))
		})

		It("handles an empty dataframe", func() {
			Expect(dataframe.Empty("SPY").Normalize().Len()).To(Equal(0))
		})
	})

	Context("with multiple columns", func() {
		var (
			df *dataframe.DataFrame
		)

		BeforeEach(func() {
			df = &dataframe.DataFrame{
				Dates:    []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)},
				ColNames: []string{"US_2Y", "US_10Y"},
				Vals: [][]float64{
					{4.5, math.NaN(), 4.0},
					{4.0, math.NaN(), 4.25},
				},
			}
		})

		It("subtracts columns", func() {
			spread, err := df.Sub("US_10Y", "US_2Y", "2s10s")
			Expect(err).To(BeNil())
			Expect(spread.ColNames).To(Equal([]string{"2s10s"}))
			Expect(spread.Vals[0][0]).To(Equal(-0.5))
			Expect(math.IsNaN(spread.Vals[0][1])).To(BeTrue())
			Expect(spread.Vals[0][2]).To(Equal(0.25))
		})

		It("fails to subtract a missing column", func() {
			_, err := df.Sub("US_30Y", "US_2Y", "spread")
			Expect(err).To(MatchError(dataframe.ErrColumnNotFound))
		})

		It("drops rows that are entirely undefined", func() {
			Expect(df.DropAll(math.NaN()).Len()).To(Equal(2))
		})

		It("breaks out into single columns", func() {
			dfMap := df.Breakout()
			Expect(dfMap).To(HaveLen(2))
			Expect(dfMap["US_10Y"].Vals[0][2]).To(Equal(4.25))
		})

		It("splits columns", func() {
			one, two := df.Split("US_10Y")
			Expect(one.ColNames).To(Equal([]string{"US_10Y"}))
			Expect(two.ColNames).To(Equal([]string{"US_2Y"}))
		})

		It("renders a table with a blank for undefined values", func() {
			tbl := df.Table()
			Expect(tbl).To(ContainSubstring("US_10Y"))
			Expect(tbl).NotTo(ContainSubstring("US 10Y"))
			Expect(tbl).To(ContainSubstring("2024-01-03"))
			Expect(tbl).To(ContainSubstring("4.2500"))
		})

		It("finds the largest absolute value", func() {
			Expect(dataframe.MaxAbs([]float64{-7, math.NaN(), 3})).To(Equal(7.0))
			Expect(dataframe.MaxAbs([]float64{math.NaN()})).To(Equal(0.0))
		})
	})
})
