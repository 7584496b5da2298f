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

// Package table reads and writes the flat CSV files exchanged between the
// data and visu stages. Undefined values are written as empty cells.
package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	rdf "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
)

// File names of each table inside the data directory
const (
	SectorFile = "sector_data.csv"
	MacroFile  = "macro_dashboard.csv"
	RatesFile  = "rates_fred.csv"
	CreditFile = "credit_dashboard.csv"
)

var (
	ErrMissingTable   = errors.New("table not found")
	ErrMissingColumns = errors.New("table is missing columns")
)

// producers names the command that writes each table
var producers = map[string]string{
	SectorFile: "data sectors",
	MacroFile:  "data macro",
	RatesFile:  "data rates",
	CreditFile: "data credit",
}

// Producer returns the command that creates the named table file
func Producer(path string) string {
	if stage, ok := producers[filepath.Base(path)]; ok {
		return stage
	}
	return "data"
}

// frame is a loaded CSV table; every cell is kept as text
type frame struct {
	path string
	df   *rdf.DataFrame
	cols map[string]int
}

func (f *frame) Len() int {
	if f.df == nil {
		return 0
	}
	return f.df.NRows()
}

func (f *frame) String(col string, row int) string {
	val := f.df.Series[f.cols[col]].Value(row)
	if val == nil {
		return ""
	}
	return fmt.Sprintf("%v", val)
}

// Float parses a numeric cell; empty or unparsable cells are NaN
func (f *frame) Float(col string, row int) float64 {
	s := strings.TrimSpace(f.String(col, row))
	if s == "" {
		return math.NaN()
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Warn().Str("Table", f.path).Str("Column", col).Int("Row", row).Str("Value", s).Msg("cannot parse number; treating as undefined")
		return math.NaN()
	}
	return v
}

// formatFloat renders v for a CSV cell; NaN becomes nil so it is written
// as the null string
func formatFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// newSeries builds a text column for export
func newSeries(name string, vals []interface{}) rdf.Series {
	return rdf.NewSeriesString(name, &rdf.SeriesInit{Capacity: len(vals)}, vals...)
}

// write replaces the file at path with the columns given. The file is
// written next to its destination and renamed into place.
func write(path string, header []string, cols [][]interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	buf := &bytes.Buffer{}
	numRows := 0
	if len(cols) > 0 {
		numRows = len(cols[0])
	}

	if numRows == 0 {
		w := csv.NewWriter(buf)
		if err := w.Write(header); err != nil {
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	} else {
		series := make([]rdf.Series, len(header))
		for idx, name := range header {
			series[idx] = newSeries(name, cols[idx])
		}

		nullString := ""
		df := rdf.NewDataFrame(series...)
		if err := exports.ExportToCSV(context.Background(), buf, df, exports.CSVExportOptions{
			NullString: &nullString,
			Separator:  ',',
		}); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	log.Info().Str("Path", path).Int("NumRows", numRows).Msg("wrote table")
	return nil
}

// read loads the CSV file at path and checks that every required column
// is present
func read(path string, required []string) (*frame, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s; run `marketdash %s` first", ErrMissingTable, path, Producer(path))
		}
		return nil, nil, err
	}

	r := csv.NewReader(bytes.NewReader(content))
	header, err := r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for idx, name := range header {
		cols[strings.TrimSpace(name)] = idx
	}

	missing := make([]string, 0)
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%w: %s lacks %s", ErrMissingColumns, path, strings.Join(missing, ", "))
	}

	f := &frame{path: path, cols: cols}
	if _, err := r.Read(); errors.Is(err, io.EOF) {
		return f, header, nil
	}

	df, err := imports.LoadFromCSV(context.Background(), bytes.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	// column positions follow the loaded series names
	for _, name := range df.Names() {
		idx, err := df.NameToColumn(name)
		if err != nil {
			return nil, nil, err
		}
		cols[strings.TrimSpace(name)] = idx
	}

	f.df = df
	return f, header, nil
}
