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

package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/performance"
	"github.com/penny-vault/marketdash/table"
	"github.com/penny-vault/marketdash/tradecron"
	"github.com/penny-vault/marketdash/universe"
	"github.com/rs/zerolog/log"
)

// asOf is the date performance windows are measured from
func (p *Pipeline) asOf() (time.Time, time.Time) {
	now := p.cfg.Now()
	return now, tradecron.LastBusinessDay(now)
}

// universesFor returns the universes of a table; at least one must exist
func (p *Pipeline) universesFor(kind universe.Kind) ([]*universe.Universe, error) {
	if _, err := p.universes.Table(kind); err != nil {
		return nil, err
	}
	return p.universes.ByTable(kind), nil
}

// performanceRows loads each universe of the table and computes one row per
// instrument
func (p *Pipeline) performanceRows(ctx context.Context, kind universe.Kind) ([]performance.Row, error) {
	universes, err := p.universesFor(kind)
	if err != nil {
		return nil, err
	}

	now, asOf := p.asOf()
	rows := make([]performance.Row, 0)
	for _, u := range universes {
		series, err := p.loader.Universe(ctx, u, now)
		if err != nil {
			return nil, err
		}
		rows = append(rows, performance.ComputeTable(u.Name, u.Labels(), series, asOf)...)
	}

	log.Info().Str("Table", string(kind)).Time("AsOf", asOf).Int("NumRows", len(rows)).Msg("computed performance")
	return rows, nil
}

func (p *Pipeline) DataSectors(ctx context.Context) error {
	rows, err := p.performanceRows(ctx, universe.Sectors)
	if err != nil {
		return err
	}
	return table.WriteSectors(filepath.Join(p.cfg.DataDir, table.SectorFile), rows)
}

func (p *Pipeline) DataMacro(ctx context.Context) error {
	rows, err := p.performanceRows(ctx, universe.Macro)
	if err != nil {
		return err
	}
	return table.WriteMacro(filepath.Join(p.cfg.DataDir, table.MacroFile), table.NewMacroRows(rows))
}

func (p *Pipeline) DataRates(ctx context.Context) error {
	return p.wideTable(ctx, universe.Rates, table.RatesFile)
}

func (p *Pipeline) DataCredit(ctx context.Context) error {
	return p.wideTable(ctx, universe.Credit, table.CreditFile)
}

// wideTable joins every non empty series of the table's universes on date.
// When no series has data the table is not written.
func (p *Pipeline) wideTable(ctx context.Context, kind universe.Kind, file string) error {
	universes, err := p.universesFor(kind)
	if err != nil {
		return err
	}

	now, _ := p.asOf()
	all := make(dataframe.Map)
	labels := make([]string, 0)
	for _, u := range universes {
		series, err := p.loader.Universe(ctx, u, now)
		if err != nil {
			return err
		}

		for _, label := range u.Labels() {
			if df, ok := series[label]; ok && df.Len() > 0 {
				all[label] = df
				labels = append(labels, label)
			}
		}
	}

	if len(labels) == 0 {
		log.Warn().Str("Table", string(kind)).Msg("no series returned data; table not written")
		return nil
	}

	return table.WriteWide(filepath.Join(p.cfg.DataDir, file), all.Merge(labels...))
}
