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
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/penny-vault/marketdash/common"
	"github.com/penny-vault/marketdash/render"
	"github.com/penny-vault/marketdash/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showRows int

func init() {
	showCmd.Flags().IntVar(&showRows, "rows", 10, "Number of most recent rows printed for rates and credit tables")
	rootCmd.AddCommand(showCmd)
}

func mdRow(cells ...string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}

func mdHeader(cols ...string) string {
	sep := make([]string, len(cols))
	for idx := range sep {
		sep[idx] = "---"
	}
	return mdRow(cols...) + mdRow(sep...)
}

func formatNum(v float64) string {
	if math.IsNaN(v) {
		return render.Placeholder
	}
	return fmt.Sprintf("%.2f", v)
}

// tableMarkdown renders a table file as a markdown document
func tableMarkdown(kind string) (string, error) {
	dir := viper.GetString("data_dir")
	sb := &strings.Builder{}

	switch kind {
	case "sectors":
		rows, err := table.ReadSectors(filepath.Join(dir, table.SectorFile))
		if err != nil {
			return "", err
		}
		sb.WriteString("# Sectors\n\n")
		sb.WriteString(mdHeader("Universe", "Sector", "Level", "Perf 5D", "1M", "3M", "Perf YTD"))
		for _, row := range rows {
			sb.WriteString(mdRow(row.Universe, row.Label, formatNum(row.Level),
				render.FormatPct(row.Perf5D), render.FormatPct(row.Perf1M), render.FormatPct(row.Perf3M), render.FormatPct(row.PerfYTD)))
		}
	case "macro":
		rows, err := table.ReadMacro(filepath.Join(dir, table.MacroFile))
		if err != nil {
			return "", err
		}
		for _, group := range table.Groups(rows) {
			fmt.Fprintf(sb, "## %s\n\n", group)
			sb.WriteString(mdHeader("Label", "Level", "Last week", "Perf YTD"))
			for _, row := range rows {
				if row.Group == group {
					sb.WriteString(mdRow(row.Label, render.FormatLevel(row.Level), render.FormatPct(row.LastWeek), render.FormatPct(row.PerfYTD)))
				}
			}
			sb.WriteString("\n")
		}
	case "rates", "credit":
		fn := table.RatesFile
		if kind == "credit" {
			fn = table.CreditFile
		}
		df, err := table.ReadWide(filepath.Join(dir, fn))
		if err != nil {
			return "", err
		}

		fmt.Fprintf(sb, "# %s\n\n", strings.ToUpper(kind[:1])+kind[1:])
		sb.WriteString(mdHeader(append([]string{"Date"}, df.ColNames...)...))
		first := df.Len() - showRows
		if first < 0 {
			first = 0
		}
		for rowIdx := first; rowIdx < df.Len(); rowIdx++ {
			cells := []string{df.Dates[rowIdx].Format(common.DateFormat)}
			for _, col := range df.Vals {
				cells = append(cells, formatNum(col[rowIdx]))
			}
			sb.WriteString(mdRow(cells...))
		}
	default:
		return "", fmt.Errorf("unknown table %q", kind)
	}

	return sb.String(), nil
}

var showCmd = &cobra.Command{
	Use:       "show {sectors|macro|rates|credit}",
	Short:     "Print a table in the terminal",
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: tableKinds,
	Run: func(cmd *cobra.Command, args []string) {
		md, err := tableMarkdown(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("could not read table")
		}

		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
		if err != nil {
			log.Fatal().Err(err).Msg("could not create markdown renderer")
		}

		out, err := renderer.Render(md)
		if err != nil {
			log.Fatal().Err(err).Msg("could not render markdown")
		}
		fmt.Print(out)
	},
}
