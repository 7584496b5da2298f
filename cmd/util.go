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
	"path/filepath"
	"time"

	"github.com/penny-vault/marketdash/common"
	"github.com/penny-vault/marketdash/data"
	"github.com/penny-vault/marketdash/pipeline"
	"github.com/penny-vault/marketdash/render"
	"github.com/penny-vault/marketdash/universe"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// newManager creates the data manager from configuration
func newManager() *data.Manager {
	opts := data.ClientOptions{
		Timeout:    viper.GetDuration("http.timeout"),
		RetryDelay: viper.GetDuration("http.retry_delay"),
	}

	if viper.GetBool("http.cache") {
		opts.CacheDir = viper.GetString("http.cache_dir")
		log.Debug().Str("CacheDir", opts.CacheDir).Msg("http disk cache enabled")
	}

	creds := data.Credentials{
		Fred:             viper.GetString("fred.api_key"),
		TradingEconomics: viper.GetString("te.api_key"),
		Tiingo:           viper.GetString("tiingo.token"),
	}

	return data.NewManager(data.NewClient(opts), creds, viper.GetInt("cache.local_size"))
}

// loadUniverses reads the configured universe file, or the built-in set
func loadUniverses() *universe.Set {
	fn := viper.GetString("universe_file")
	if fn == "" {
		set, err := universe.Default()
		if err != nil {
			log.Fatal().Err(err).Msg("built-in universes are invalid")
		}
		return set
	}

	set, err := universe.Load(filepath.Clean(fn))
	if err != nil {
		log.Fatal().Err(err).Str("FileName", fn).Msg("could not load universe file")
	}
	return set
}

func plotStart() time.Time {
	start := viper.GetString("plot.start")
	dt, err := time.Parse(common.DateFormat, start)
	if err != nil {
		log.Warn().Err(err).Str("PlotStart", start).Msg("invalid plot.start; using default")
		return render.DefaultChartStart
	}
	return dt
}

func newPipeline() *pipeline.Pipeline {
	return pipeline.New(pipeline.Config{
		DataDir:   viper.GetString("data_dir"),
		OutputDir: viper.GetString("output_dir"),
		PlotStart: plotStart(),
	}, newManager(), loadUniverses())
}
