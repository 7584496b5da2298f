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

var _ = Describe("Map", func() {
	It("outer joins series on their dates", func() {
		a, _ := dataframe.New("A", []time.Time{day(2024, 1, 1), day(2024, 1, 3)}, []float64{1, 3})
		b, _ := dataframe.New("B", []time.Time{day(2024, 1, 2), day(2024, 1, 3)}, []float64{20, 30})

		merged := dataframe.Map{"A": a, "B": b}.Merge("B", "A", "C")
		Expect(merged.ColNames).To(Equal([]string{"B", "A", "C"}))
		Expect(merged.Dates).To(Equal([]time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)}))

		Expect(math.IsNaN(merged.Vals[0][0])).To(BeTrue())
		Expect(merged.Vals[0][1]).To(Equal(20.0))
		Expect(merged.Vals[1][0]).To(Equal(1.0))
		Expect(math.IsNaN(merged.Vals[1][1])).To(BeTrue())
		Expect(merged.Vals[1][2]).To(Equal(3.0))

		for _, v := range merged.Vals[2] {
			Expect(math.IsNaN(v)).To(BeTrue())
		}
	})

	It("merges an empty map into an empty dataframe", func() {
		merged := dataframe.Map{}.Merge("A")
		Expect(merged.Len()).To(Equal(0))
		Expect(merged.ColNames).To(Equal([]string{"A"}))
	})
})
