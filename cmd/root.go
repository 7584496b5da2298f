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
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/penny-vault/marketdash/common"
	"github.com/penny-vault/marketdash/data"
	"github.com/penny-vault/marketdash/render"
	"github.com/rs/zerolog/log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func bindEnv(key string, env ...string) {
	if err := viper.BindEnv(append([]string{key}, env...)...); err != nil {
		log.Panic().Err(err).Str("Key", key).Msg("could not bind environment variable")
	}
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		log.Panic().Err(err).Str("Key", key).Str("Flag", flag).Msg("could not bind flag")
	}
}

func init() {
	// Provider credentials
	bindEnv("fred.api_key", "FRED_API_KEY")
	bindEnv("te.api_key", "TE_API_KEY")
	bindEnv("tiingo.token", "TIINGO_TOKEN")

	// Paths
	bindEnv("data_dir", "MARKETDASH_DATA_DIR")
	rootCmd.PersistentFlags().String("data-dir", "data", "Directory where tables are written")
	bindFlag("data_dir", "data-dir")

	bindEnv("output_dir", "MARKETDASH_OUTPUT_DIR")
	rootCmd.PersistentFlags().String("output-dir", "output", "Directory where images are written")
	bindFlag("output_dir", "output-dir")

	bindEnv("universe_file", "MARKETDASH_UNIVERSE_FILE")
	rootCmd.PersistentFlags().String("universe-file", "", "TOML file defining instrument universes; the built-in set is used when empty")
	bindFlag("universe_file", "universe-file")

	// HTTP
	viper.SetDefault("http.timeout", data.DefaultTimeout)
	viper.SetDefault("http.retry_delay", data.DefaultRetryDelay)
	viper.SetDefault("http.cache_dir", ".cache/http")
	bindEnv("http.cache", "MARKETDASH_HTTP_CACHE")
	rootCmd.PersistentFlags().Bool("http-cache", false, "Cache provider responses on disk for the current day")
	bindFlag("http.cache", "http-cache")

	viper.SetDefault("cache.local_size", data.DefaultMemoSize)
	viper.SetDefault("plot.start", render.DefaultChartStart.Format(common.DateFormat))
	viper.SetDefault("schedule.spec", "@close 30")
	viper.SetDefault("timezone", "Europe/Paris")

	// Logging configuration
	bindEnv("log.level", "MARKETDASH_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level")
	bindFlag("log.level", "log-level")

	bindEnv("log.pretty", "MARKETDASH_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Print human readable log messages")
	bindFlag("log.pretty", "log-pretty")

	bindEnv("log.report_caller", "MARKETDASH_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	bindFlag("log.report_caller", "log-report-caller")

	bindEnv("log.output", "MARKETDASH_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	bindFlag("log.output", "log-output")

	viper.SetDefault("log.max_size", 10)
	viper.SetDefault("log.max_backups", 3)
	viper.SetDefault("log.max_age", 28)
}

var rootCmd = &cobra.Command{
	Use:     "marketdash",
	Version: common.CurrentVersion.String(),
	Short:   "Build market dashboards from public data providers",
	Long: `marketdash downloads price, rate and spread series, computes trailing
performance tables and renders them as PNG dashboards.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// values from .env never override the real environment
		dotenvErr := godotenv.Load()
		common.SetupLogging()
		if dotenvErr != nil && !os.IsNotExist(dotenvErr) {
			log.Warn().Err(dotenvErr).Msg("could not read .env")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
