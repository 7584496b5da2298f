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
	"fmt"
	"math"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/penny-vault/marketdash/performance"
	"github.com/penny-vault/marketdash/render"
	"github.com/penny-vault/marketdash/tradecron"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var seriesDays int

func init() {
	seriesCmd.Flags().IntVar(&seriesDays, "days", 365, "Number of calendar days to fetch")
	rootCmd.AddCommand(seriesCmd)
}

var seriesCmd = &cobra.Command{
	Use:        "series source symbol",
	Short:      "Fetch and print one series",
	Long:       `Fetch one series from a data source (yahoo, fred, te or tiingo) and print it with its performance.`,
	Args:       cobra.ExactArgs(2),
	ArgAliases: []string{"source", "symbol"},
	Run: func(cmd *cobra.Command, args []string) {
		source, symbol := args[0], args[1]
		manager := newManager()
		if err := manager.Require(source); err != nil {
			log.Fatal().Err(err).Str("Source", source).Msg("source unavailable")
		}

		end := tradecron.DateOnly(time.Now())
		begin := end.AddDate(0, 0, -seriesDays)

		df, err := manager.Series(context.Background(), source, symbol, begin, end)
		if err != nil {
			log.Fatal().Err(err).Str("Source", source).Str("Symbol", symbol).Msg("could not fetch series")
		}

		fmt.Println(df.Table())
		if df.Len() < 2 {
			return
		}

		fmt.Println(asciigraph.Plot(df.Vals[0],
			asciigraph.Height(15),
			asciigraph.Width(100),
			asciigraph.Caption(fmt.Sprintf("%s %s", source, symbol))))

		asOf := tradecron.LastBusinessDay(end)
		perf := performance.Compute(df, asOf)
		vol := performance.Volatility(df, asOf, performance.Days3M)
		fmt.Printf("\nLevel: %s  5D: %s  1M: %s  3M: %s  YTD: %s  Vol 3M: %s\n",
			render.FormatLevel(perf.Level), render.FormatPct(perf.Perf5D), render.FormatPct(perf.Perf1M),
			render.FormatPct(perf.Perf3M), render.FormatPct(perf.PerfYTD), formatVol(vol))
	},
}

func formatVol(v float64) string {
	if math.IsNaN(v) {
		return render.Placeholder
	}
	return fmt.Sprintf("%.1f%%", v)
}
