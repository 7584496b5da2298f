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
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/marketdash/dataframe"
	"github.com/rs/zerolog/log"
)

var yahooAPI = "https://query1.finance.yahoo.com"

type yahoo struct {
	client *Client
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamps []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// NewYahoo creates a Yahoo Finance chart API provider; no key is required
func NewYahoo(client *Client) *yahoo {
	return &yahoo{client: client}
}

func (y *yahoo) Name() string {
	return SourceYahoo
}

// Series returns adjusted closes for the symbol when available, closes
// otherwise. end is inclusive.
func (y *yahoo) Series(ctx context.Context, symbol string, begin, end time.Time) (*dataframe.DataFrame, error) {
	if end.Before(begin) {
		return nil, ErrInvalidTimeRange
	}

	subLog := log.With().Str("Source", SourceYahoo).Str("Symbol", symbol).Logger()

	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history&includeAdjustedClose=true",
		yahooAPI, url.PathEscape(symbol), begin.Unix(), end.AddDate(0, 0, 1).Unix())

	body, err := y.client.Get(ctx, u)
	if err != nil {
		subLog.Error().Err(err).Msg("yahoo http request failed")
		return nil, err
	}

	resp := yahooChartResponse{}
	if err := json.Unmarshal(body, &resp); err != nil {
		subLog.Error().Err(err).Bytes("Body", truncate(body, 512)).Msg("could not unmarshal json")
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrProviderError, resp.Chart.Error.Code, resp.Chart.Error.Description)
	}

	if len(resp.Chart.Result) == 0 {
		return dataframe.Empty(symbol), nil
	}

	result := resp.Chart.Result[0]

	var prices []*float64
	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) == len(result.Timestamps) {
		prices = result.Indicators.AdjClose[0].AdjClose
	} else if len(result.Indicators.Quote) > 0 && len(result.Indicators.Quote[0].Close) == len(result.Timestamps) {
		prices = result.Indicators.Quote[0].Close
	} else {
		subLog.Warn().Int("NumTimestamps", len(result.Timestamps)).Msg("chart has no usable price column")
		return dataframe.Empty(symbol), nil
	}

	dates := make([]time.Time, 0, len(prices))
	vals := make([]float64, 0, len(prices))
	for idx, ts := range result.Timestamps {
		if prices[idx] == nil {
			continue
		}
		// shift to exchange local time so the trading date is preserved
		dates = append(dates, time.Unix(ts+result.Meta.GMTOffset, 0).UTC())
		vals = append(vals, *prices[idx])
	}

	return newSeries(symbol, dates, vals), nil
}
