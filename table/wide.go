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
	"fmt"
	"time"

	"github.com/penny-vault/marketdash/common"
	"github.com/penny-vault/marketdash/dataframe"
)

// DateColumn is the first column of every wide table
const DateColumn = "date"

// WriteWide writes a dataframe as a table with a date column followed by
// one column per series
func WriteWide(path string, df *dataframe.DataFrame) error {
	header := append([]string{DateColumn}, df.ColNames...)
	cols := make([][]interface{}, len(header))
	for rowIdx, dt := range df.Dates {
		cols[0] = append(cols[0], dt.Format(common.DateFormat))
		for colIdx, col := range df.Vals {
			cols[colIdx+1] = append(cols[colIdx+1], formatFloat(col[rowIdx]))
		}
	}
	return write(path, header, cols)
}

// ReadWide loads a wide table. required lists series columns that must be
// present besides the date column; every other column is loaded too.
func ReadWide(path string, required ...string) (*dataframe.DataFrame, error) {
	f, header, err := read(path, append([]string{DateColumn}, required...))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(header))
	for _, name := range header {
		if name != DateColumn {
			names = append(names, name)
		}
	}

	df := dataframe.Empty(names...)
	for rowIdx := 0; rowIdx < f.Len(); rowIdx++ {
		dt, err := time.Parse(common.DateFormat, f.String(DateColumn, rowIdx))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, rowIdx+1, err)
		}

		df.Dates = append(df.Dates, dt)
		for colIdx, name := range names {
			df.Vals[colIdx] = append(df.Vals[colIdx], f.Float(name, rowIdx))
		}
	}

	return df, nil
}
