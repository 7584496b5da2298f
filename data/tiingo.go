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
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/marketdash/common"
	"github.com/penny-vault/marketdash/dataframe"
	"github.com/rs/zerolog/log"
)

type tiingo struct {
	client *Client
	apikey string
}

type tiingoJSONResponse struct {
	Date     string  `json:"date"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose"`
}

var tiingoAPI = "https://api.tiingo.com"

// NewTiingo Create a new Tiingo data provider
func NewTiingo(client *Client, key string) *tiingo {
	return &tiingo{
		client: client,
		apikey: key,
	}
}

func (t *tiingo) Name() string {
	return SourceTiingo
}

// Series returns adjusted end-of-day closes for the symbol
func (t *tiingo) Series(ctx context.Context, symbol string, begin, end time.Time) (*dataframe.DataFrame, error) {
	if t.apikey == "" {
		return nil, missingKey(SourceTiingo)
	}

	if end.Before(begin) {
		return nil, ErrInvalidTimeRange
	}

	subLog := log.With().Str("Source", SourceTiingo).Str("Symbol", symbol).Time("Begin", begin).Time("End", end).Logger()

	u := fmt.Sprintf("%s/tiingo/daily/%s/prices?startDate=%s&endDate=%s&token=%s", tiingoAPI, url.PathEscape(strings.ToLower(symbol)),
		begin.Format(common.DateFormat), end.Format(common.DateFormat), url.QueryEscape(t.apikey))

	body, err := t.client.Get(ctx, u)
	if err != nil {
		subLog.Error().Err(err).Msg("tiingo http request failed")
		return nil, err
	}

	jsonResp := []tiingoJSONResponse{}
	if err := json.Unmarshal(body, &jsonResp); err != nil {
		subLog.Error().Err(err).Bytes("Body", truncate(body, 512)).Msg("could not unmarshal json")
		return nil, err
	}

	dates := make([]time.Time, 0, len(jsonResp))
	vals := make([]float64, 0, len(jsonResp))
	for _, quote := range jsonResp {
		datePart, _, _ := strings.Cut(quote.Date, "T")
		dt, err := time.Parse(common.DateFormat, datePart)
		if err != nil {
			subLog.Error().Err(err).Str("DateStr", quote.Date).Msg("cannot parse date string")
			return nil, err
		}

		dates = append(dates, dt)
		vals = append(vals, quote.AdjClose)
	}

	return newSeries(symbol, dates, vals), nil
}
