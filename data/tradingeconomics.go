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
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/marketdash/common"
	"github.com/penny-vault/marketdash/dataframe"
	"github.com/rs/zerolog/log"
)

var tradingEconomicsAPI = "https://api.tradingeconomics.com"

type tradingEconomics struct {
	client *Client
	apikey string
}

type tradingEconomicsObservation struct {
	Date  string   `json:"Date"`
	Value *float64 `json:"Value"`
}

// NewTradingEconomics creates a TradingEconomics historical series
// provider. The key is optional; without it the public, heavily rate
// limited tier is used.
func NewTradingEconomics(client *Client, key string) *tradingEconomics {
	return &tradingEconomics{
		client: client,
		apikey: key,
	}
}

func (te *tradingEconomics) Name() string {
	return SourceTradingEconomics
}

// Series returns the historical values of a TradingEconomics symbol such
// as "Germany Government Bond 10Y". A body that cannot be decoded is
// treated as an empty series.
func (te *tradingEconomics) Series(ctx context.Context, symbol string, begin, end time.Time) (*dataframe.DataFrame, error) {
	if end.Before(begin) {
		return nil, ErrInvalidTimeRange
	}

	subLog := log.With().Str("Source", SourceTradingEconomics).Str("Symbol", symbol).Logger()

	params := url.Values{}
	params.Set("d1", begin.Format(common.DateFormat))
	params.Set("d2", end.Format(common.DateFormat))
	if te.apikey != "" {
		params.Set("c", te.apikey)
	}

	u := fmt.Sprintf("%s/historical/series/%s?%s", tradingEconomicsAPI, url.PathEscape(symbol), params.Encode())
	body, err := te.client.Get(ctx, u)
	if err != nil {
		subLog.Error().Err(err).Msg("tradingeconomics http request failed")
		return nil, err
	}

	observations := make([]tradingEconomicsObservation, 0)
	if err := json.Unmarshal(body, &observations); err != nil {
		subLog.Warn().Err(err).Msg("could not decode tradingeconomics response; treating as empty")
		return dataframe.Empty(symbol), nil
	}

	dates := make([]time.Time, 0, len(observations))
	vals := make([]float64, 0, len(observations))
	for _, obs := range observations {
		datePart, _, _ := strings.Cut(obs.Date, "T")
		dt, err := time.Parse(common.DateFormat, datePart)
		if err != nil {
			continue
		}

		val := math.NaN()
		if obs.Value != nil {
			val = *obs.Value
		}

		dates = append(dates, dt)
		vals = append(vals, val)
	}

	return newSeries(symbol, dates, vals), nil
}
