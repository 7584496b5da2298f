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
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/penny-vault/marketdash/common"
	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/universe"
	"github.com/rs/zerolog/log"
)

const DefaultMemoSize = 256

// Credentials holds provider keys; empty values mean not configured
type Credentials struct {
	Fred             string
	TradingEconomics string
	Tiingo           string
}

// keyEnv names the environment variable holding each source's credential
var keyEnv = map[string]string{
	SourceFred:   "FRED_API_KEY",
	SourceTiingo: "TIINGO_TOKEN",
}

var keyHelp = map[string]string{
	SourceFred:   "request a free key at https://fred.stlouisfed.org/docs/api/api_key.html",
	SourceTiingo: "create an account at https://www.tiingo.com to obtain a token",
}

func missingKey(source string) error {
	return fmt.Errorf("%w: %s is not set; %s and export it or add it to .env", ErrMissingAPIKey, keyEnv[source], keyHelp[source])
}

// Manager routes series requests to providers and remembers the series it
// has loaded, so an instrument shared by several universes is fetched once
type Manager struct {
	providers   map[string]Provider
	credentials Credentials
	memo        *lru.Cache
}

// NewManager creates a manager with every built-in provider registered
func NewManager(client *Client, creds Credentials, memoSize int) *Manager {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}

	memo, err := lru.New(memoSize)
	if err != nil {
		log.Panic().Err(err).Int("Size", memoSize).Msg("could not create series memo")
	}

	m := &Manager{
		providers:   make(map[string]Provider),
		credentials: creds,
		memo:        memo,
	}

	m.Register(NewYahoo(client))
	m.Register(NewFred(client, creds.Fred))
	m.Register(NewTradingEconomics(client, creds.TradingEconomics))
	m.Register(NewTiingo(client, creds.Tiingo))

	return m
}

// Register adds or replaces the provider for its source name
func (m *Manager) Register(p Provider) {
	m.providers[p.Name()] = p
}

// Require checks that a source exists and that its credential is present
func (m *Manager) Require(source string) error {
	if _, ok := m.providers[source]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	switch source {
	case SourceFred:
		if m.credentials.Fred == "" {
			return missingKey(source)
		}
	case SourceTiingo:
		if m.credentials.Tiingo == "" {
			return missingKey(source)
		}
	}

	return nil
}

// Series loads one series from the named source
func (m *Manager) Series(ctx context.Context, source, symbol string, begin, end time.Time) (*dataframe.DataFrame, error) {
	provider, ok := m.providers[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	key := fmt.Sprintf("%s:%s:%s:%s", source, symbol, begin.Format(common.DateFormat), end.Format(common.DateFormat))
	if cached, ok := m.memo.Get(key); ok {
		return cached.(*dataframe.DataFrame), nil
	}

	df, err := provider.Series(ctx, symbol, begin, end)
	if err != nil {
		return nil, err
	}

	m.memo.Add(key, df)
	return df, nil
}

// Universe loads every instrument of the universe, one after the other,
// over the universe's history window ending at now. Each series is keyed
// and named by its instrument label. An instrument whose data cannot be
// loaded is logged and left out of the map; rate limiting, missing
// credentials and cancellation abort the whole universe.
func (m *Manager) Universe(ctx context.Context, u *universe.Universe, now time.Time) (dataframe.Map, error) {
	if err := m.Require(u.Source); err != nil {
		return nil, err
	}

	begin, end := u.Range(now)
	subLog := log.With().Str("Universe", u.Name).Str("Source", u.Source).Time("Begin", begin).Time("End", end).Logger()

	res := make(dataframe.Map, len(u.Instruments))
	for _, inst := range u.Instruments {
		df, err := m.Series(ctx, u.Source, inst.Symbol, begin, end)
		if err != nil {
			if fatal(ctx, err) {
				return nil, err
			}
			subLog.Warn().Err(err).Str("Symbol", inst.Symbol).Str("Label", inst.Label).Msg("no data for instrument")
			continue
		}

		if df.Len() == 0 {
			subLog.Warn().Str("Symbol", inst.Symbol).Str("Label", inst.Label).Msg("instrument returned an empty series")
		}

		res[inst.Label] = &dataframe.DataFrame{
			Dates:    df.Dates,
			ColNames: []string{inst.Label},
			Vals:     df.Vals,
		}
	}

	subLog.Info().Int("NumSeries", len(res)).Int("NumInstruments", len(u.Instruments)).Msg("universe loaded")
	return res, nil
}

func fatal(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrMissingAPIKey) ||
		errors.Is(err, ErrUnknownSource)
}
