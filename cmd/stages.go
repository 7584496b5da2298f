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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var tableKinds = []string{"sectors", "macro", "rates", "credit"}

func init() {
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(visuCmd)
}

// runStage runs "<group> <kind>" and exits non-zero on failure
func runStage(group, kind string) {
	pipe := newPipeline()
	stage, err := pipe.Stage(group + " " + kind)
	if err != nil {
		log.Fatal().Err(err).Msg("unknown stage")
	}

	if err := pipe.Run(context.Background(), stage); err != nil {
		log.Fatal().Err(err).Msg("stage failed")
	}
}

var dataCmd = &cobra.Command{
	Use:       "data {sectors|macro|rates|credit}",
	Short:     "Download series and write a table",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: tableKinds,
	Run: func(cmd *cobra.Command, args []string) {
		runStage("data", args[0])
	},
}

var visuCmd = &cobra.Command{
	Use:       "visu {sectors|macro|rates|credit}",
	Short:     "Render a table as PNG images",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: tableKinds,
	Run: func(cmd *cobra.Command, args []string) {
		runStage("visu", args[0])
	},
}
