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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penny-vault/marketdash/tradecron"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	bindEnv("schedule.spec", "MARKETDASH_SCHEDULE")
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run build repeatedly on the configured schedule",
	Long: `Run build each time the schedule in schedule.spec fires. The spec
accepts cron fields and the market modifiers @open, @close, @weekbegin,
@weekend, @monthbegin and @monthend, evaluated against European market
hours. Builds never overlap.`,
	Run: func(cmd *cobra.Command, args []string) {
		spec := viper.GetString("schedule.spec")
		tc, err := tradecron.New(spec, tradecron.EuropeanHours)
		if err != nil {
			log.Fatal().Err(err).Str("Spec", spec).Msg("invalid schedule")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		for {
			next := tc.Next(time.Now().In(tc.Location()))
			log.Info().Str("Spec", spec).Time("Next", next).Msg("waiting for next build")

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				log.Info().Msg("schedule stopped")
				return
			case <-timer.C:
			}

			if err := build(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled build failed")
			}
		}
	},
}
