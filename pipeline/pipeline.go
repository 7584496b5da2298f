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

// Package pipeline runs the stages that build the dashboards. Data stages
// fetch series and write tables; visu stages read tables and write images.
// Stages run one after the other and a build stops at the first failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penny-vault/marketdash/dataframe"
	"github.com/penny-vault/marketdash/render"
	"github.com/penny-vault/marketdash/universe"
	"github.com/rs/zerolog/log"
)

var ErrUnknownStage = errors.New("unknown stage")

// Stage names, in build order
const (
	DataSectors = "data sectors"
	DataMacro   = "data macro"
	DataRates   = "data rates"
	DataCredit  = "data credit"
	VisuSectors = "visu sectors"
	VisuMacro   = "visu macro"
	VisuRates   = "visu rates"
	VisuCredit  = "visu credit"
)

// Loader fetches every instrument of a universe; series are keyed by label
type Loader interface {
	Universe(ctx context.Context, u *universe.Universe, now time.Time) (dataframe.Map, error)
}

// Config holds the locations and dates used by the stages
type Config struct {
	DataDir   string
	OutputDir string

	// PlotStart is the first date drawn on rates and credit charts
	PlotStart time.Time

	// Now returns the current time; defaults to time.Now
	Now func() time.Time
}

// Stage is one named step of the build
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

type Pipeline struct {
	cfg       Config
	loader    Loader
	universes *universe.Set
}

func New(cfg Config, loader Loader, universes *universe.Set) *Pipeline {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.PlotStart.IsZero() {
		cfg.PlotStart = render.DefaultChartStart
	}

	return &Pipeline{
		cfg:       cfg,
		loader:    loader,
		universes: universes,
	}
}

// Stages returns every stage in build order
func (p *Pipeline) Stages() []Stage {
	return []Stage{
		{DataSectors, p.DataSectors},
		{DataMacro, p.DataMacro},
		{DataRates, p.DataRates},
		{DataCredit, p.DataCredit},
		{VisuSectors, p.VisuSectors},
		{VisuMacro, p.VisuMacro},
		{VisuRates, p.VisuRates},
		{VisuCredit, p.VisuCredit},
	}
}

// Stage looks up a stage by name
func (p *Pipeline) Stage(name string) (Stage, error) {
	for _, stage := range p.Stages() {
		if stage.Name == name {
			return stage, nil
		}
	}
	return Stage{}, fmt.Errorf("%w: %s", ErrUnknownStage, name)
}

// Run executes a single stage
func (p *Pipeline) Run(ctx context.Context, stage Stage) error {
	subLog := log.With().Str("Stage", stage.Name).Logger()
	subLog.Info().Msg("running stage")

	start := time.Now()
	if err := stage.Run(ctx); err != nil {
		subLog.Error().Err(err).Msg("stage failed")
		return fmt.Errorf("%s: %w", stage.Name, err)
	}

	subLog.Info().Dur("Elapsed", time.Since(start)).Msg("stage complete")
	return nil
}

// Build removes previous outputs and runs every stage in order, stopping
// at the first failure
func (p *Pipeline) Build(ctx context.Context) error {
	if _, err := Clean(p.cfg.DataDir, p.cfg.OutputDir); err != nil {
		return err
	}

	for _, stage := range p.Stages() {
		if err := p.Run(ctx, stage); err != nil {
			return err
		}
	}

	log.Info().Str("DataDir", p.cfg.DataDir).Str("OutputDir", p.cfg.OutputDir).Msg("build complete")
	return nil
}
