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
	"errors"
	"time"
)

// DataFrame stores a table of values organized by date. Vals is column
// major: Vals[colIdx][rowIdx].
//
//	       US_2Y  US_10Y
//	Dates[0]  4.1    3.9
//	Dates[1]  4.2    4.0
//
// Vals[0][1] = 4.2
// Vals[1][0] = 3.9
//
// A single column dataframe is used to hold one time series. Undefined
// values are math.NaN().
type DataFrame struct {
	Dates    []time.Time
	ColNames []string
	Vals     [][]float64
}

// Map is a collection of dataframes keyed by name
type Map map[string]*DataFrame

// Frequency defines the period used when resampling a dataframe
type Frequency string

const (
	Daily   Frequency = "Daily"
	Weekly  Frequency = "Weekly"
	Monthly Frequency = "Monthly"
)

var (
	ErrColumnNotFound   = errors.New("column not found")
	ErrLengthMismatch   = errors.New("number of dates and values do not match")
	ErrUnknownFrequency = errors.New("unknown frequency")
)
