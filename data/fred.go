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
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/marketdash/common"
	"github.com/penny-vault/marketdash/dataframe"
	"github.com/rs/zerolog/log"
)

var fredAPI = "https://api.stlouisfed.org"

type fred struct {
	client *Client
	apikey string
}

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// NewFred creates a FRED observations API provider
func NewFred(client *Client, key string) *fred {
	return &fred{
		client: client,
		apikey: key,
	}
}

func (f *fred) Name() string {
	return SourceFred
}

// Series returns the observations of the FRED series. Missing observations,
// reported by FRED as ".", are dropped.
func (f *fred) Series(ctx context.Context, symbol string, begin, end time.Time) (*dataframe.DataFrame, error) {
	if f.apikey == "" {
		return nil, missingKey(SourceFred)
	}

	if end.Before(begin) {
		return nil, ErrInvalidTimeRange
	}

	subLog := log.With().Str("Source", SourceFred).Str("Symbol", symbol).Logger()

	params := url.Values{}
	params.Set("series_id", symbol)
	params.Set("api_key", f.apikey)
	params.Set("file_type", "json")
	params.Set("observation_start", begin.Format(common.DateFormat))
	params.Set("observation_end", end.Format(common.DateFormat))

	body, err := f.client.Get(ctx, fmt.Sprintf("%s/fred/series/observations?%s", fredAPI, params.Encode()))
	if err != nil {
		subLog.Error().Err(err).Msg("fred http request failed")
		return nil, err
	}

	resp := fredObservationsResponse{}
	if err := json.Unmarshal(body, &resp); err != nil {
		subLog.Error().Err(err).Bytes("Body", truncate(body, 512)).Msg("could not unmarshal json")
		return nil, err
	}

	dates := make([]time.Time, 0, len(resp.Observations))
	vals := make([]float64, 0, len(resp.Observations))
	for _, obs := range resp.Observations {
		dt, err := time.Parse(common.DateFormat, obs.Date)
		if err != nil {
			subLog.Warn().Str("Date", obs.Date).Msg("skipping observation with invalid date")
			continue
		}

		val, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			val = math.NaN()
		}

		dates = append(dates, dt)
		vals = append(vals, val)
	}

	return newSeries(symbol, dates, vals), nil
}
