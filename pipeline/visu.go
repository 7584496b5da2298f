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

	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/render"
	"github.com/penny-vault/marketdash/table"
)

func (p *Pipeline) VisuSectors(ctx context.Context) error {
	rows, err := table.ReadSectors(filepath.Join(p.cfg.DataDir, table.SectorFile))
	if err != nil {
		return err
	}
	_, err = render.SectorPanels(rows, p.cfg.OutputDir)
	return err
}

func (p *Pipeline) VisuMacro(ctx context.Context) error {
	rows, err := table.ReadMacro(filepath.Join(p.cfg.DataDir, table.MacroFile))
	if err != nil {
		return err
	}
	_, err = render.MacroDashboard(rows, p.cfg.OutputDir)
	return err
}

func (p *Pipeline) VisuRates(ctx context.Context) error {
	weekly, err := p.weekly(table.RatesFile)
	if err != nil {
		return err
	}
	_, err = render.RatesCharts(weekly, p.cfg.OutputDir)
	return err
}

func (p *Pipeline) VisuCredit(ctx context.Context) error {
	weekly, err := p.weekly(table.CreditFile)
	if err != nil {
		return err
	}
	_, err = render.CreditCharts(weekly, p.cfg.OutputDir)
	return err
}

func (p *Pipeline) weekly(file string) (*dataframe.DataFrame, error) {
	df, err := table.ReadWide(filepath.Join(p.cfg.DataDir, file))
	if err != nil {
		return nil, err
	}
	return render.Weekly(df, p.cfg.PlotStart)
}
