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

package data

import (
	"context"
	"time"

	"github.com/penny-vault/marketdash/dataframe"
)

// Source names accepted by the manager
const (
	SourceYahoo            = "yahoo"
	SourceFred             = "fred"
	SourceTradingEconomics = "te"
	SourceTiingo           = "tiingo"
)

// Provider loads one daily series from an external source. Returned series
// are normalized: sorted, unique UTC midnight dates, no NaN values. A symbol
// without data yields an empty series and no error.
type Provider interface {
	Name() string
	Series(ctx context.Context, symbol string, begin, end time.Time) (*dataframe.DataFrame, error)
}

// newSeries builds a normalized single column dataframe
func newSeries(symbol string, dates []time.Time, vals []float64) *dataframe.DataFrame {
	df, err := dataframe.New(symbol, dates, vals)
	if err != nil {
		return dataframe.Empty(symbol)
	}
	return df.Normalize()
}
