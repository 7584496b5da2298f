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

	"gonum.org/v1/gonum/floats"
)

// MulScalar multiplies all columns in dataframe df by the scalar and returns a new dataframe
func (df *DataFrame) MulScalar(scalar float64) *DataFrame {
	df = df.Copy()
	for colIdx := range df.Vals {
		floats.Scale(scalar, df.Vals[colIdx])
	}
	return df
}

// Sub subtracts column b from column a and returns a new single column
// dataframe named name. NaN in either operand yields NaN.
func (df *DataFrame) Sub(a, b, name string) (*DataFrame, error) {
	colA, err := df.Column(a)
	if err != nil {
		return nil, err
	}

	colB, err := df.Column(b)
	if err != nil {
		return nil, err
	}

	res := make([]float64, df.Len())
	floats.SubTo(res, colA.Vals[0], colB.Vals[0])

	return &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{name},
		Vals:     [][]float64{res},
	}, nil
}

// MaxAbs returns the largest absolute defined value in the first column
// of df, or 0 when no value is defined
func (df *DataFrame) MaxAbs() float64 {
	if len(df.Vals) == 0 {
		return 0
	}
	return MaxAbs(df.Vals[0])
}

// MaxAbs returns the largest absolute defined value in vals, or 0 when no
// value is defined
func MaxAbs(vals []float64) float64 {
	abs := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			abs = append(abs, math.Abs(v))
		}
	}
	if len(abs) == 0 {
		return 0
	}
	return floats.Max(abs)
}
