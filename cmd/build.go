// Copyright 2021 JD Fergason
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/marketdash/pipeline"
)

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cleanCmd)
}

// build runs a full build tagged with a fresh run id
func build(ctx context.Context) error {
	runID := uuid.New().String()
	prev := log.Logger
	log.Logger = log.With().Str("RunID", runID).Logger()
	defer func() { log.Logger = prev }()

	start := time.Now()
	log.Info().Msg("starting build")
	if err := newPipeline().Build(ctx); err != nil {
		return err
	}
	log.Info().Dur("Elapsed", time.Since(start)).Msg("build finished")
	return nil
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Clean, then run every data and visu stage in order",
	Run: func(cmd *cobra.Command, args []string) {
		if err := build(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("build failed")
		}
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove generated tables and images",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := pipeline.Clean(viper.GetString("data_dir"), viper.GetString("output_dir")); err != nil {
			log.Fatal().Err(err).Msg("clean failed")
		}
	},
}
