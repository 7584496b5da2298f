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

// Package universe defines the groups of instruments that feed each table.
// The default set is compiled into the binary and may be replaced by a
// TOML file with the same layout.
package universe

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/penny-vault/marketdash/common"
)

// Kind names the table a universe is written to
type Kind string

const (
	Sectors Kind = "sectors"
	Macro   Kind = "macro"
	Rates   Kind = "rates"
	Credit  Kind = "credit"
)

var (
	ErrInvalidUniverse = errors.New("invalid universe definition")
	ErrNoUniverse      = errors.New("no universe defined for table")
)

//go:embed universes.toml
var defaultUniverses []byte

// Instrument is one labelled series of a universe
type Instrument struct {
	Label  string `toml:"label"`
	Symbol string `toml:"symbol"`
}

// Universe is an ordered group of instruments sharing a data source and a
// history window
type Universe struct {
	Name        string       `toml:"name"`
	Table       Kind         `toml:"table"`
	Source      string       `toml:"source"`
	HistoryDays int          `toml:"history_days"`
	Start       string       `toml:"start"`
	Instruments []Instrument `toml:"instruments"`
}

// Set is every universe known to the program, in definition order
type Set struct {
	Universes []*Universe `toml:"universe"`
}

// Default returns the universes compiled into the binary
func Default() (*Set, error) {
	return Parse(defaultUniverses)
}

// Load reads universes from the TOML file at path, or the compiled in
// defaults when path is empty
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes and validates a universe definition
func Parse(data []byte) (*Set, error) {
	set := &Set{}
	if err := toml.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUniverse, err.Error())
	}

	for _, u := range set.Universes {
		if err := u.Validate(); err != nil {
			return nil, err
		}
	}

	// wide tables have one column per label next to the date column
	for _, kind := range []Kind{Rates, Credit} {
		columns := map[string]string{"date": "the date column"}
		for _, u := range set.ByTable(kind) {
			for _, label := range u.Labels() {
				if owner, ok := columns[label]; ok {
					return nil, fmt.Errorf("%w: %s label %q clashes with %s in the %s table", ErrInvalidUniverse, u.Name, label, owner, kind)
				}
				columns[label] = u.Name
			}
		}
	}

	return set, nil
}

// ByTable returns the universes written to the given table, in definition order
func (s *Set) ByTable(kind Kind) []*Universe {
	res := make([]*Universe, 0)
	for _, u := range s.Universes {
		if u.Table == kind {
			res = append(res, u)
		}
	}
	return res
}

// Table returns the single universe written to the given table
func (s *Set) Table(kind Kind) (*Universe, error) {
	universes := s.ByTable(kind)
	if len(universes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoUniverse, kind)
	}
	return universes[0], nil
}

// Validate checks that the universe can be fetched
func (u *Universe) Validate() error {
	switch {
	case u.Name == "":
		return fmt.Errorf("%w: missing name", ErrInvalidUniverse)
	case u.Source == "":
		return fmt.Errorf("%w: %s has no source", ErrInvalidUniverse, u.Name)
	case len(u.Instruments) == 0:
		return fmt.Errorf("%w: %s has no instruments", ErrInvalidUniverse, u.Name)
	case u.HistoryDays <= 0 && u.Start == "":
		return fmt.Errorf("%w: %s needs history_days or start", ErrInvalidUniverse, u.Name)
	}

	switch u.Table {
	case Sectors, Macro, Rates, Credit:
	default:
		return fmt.Errorf("%w: %s has unknown table %q", ErrInvalidUniverse, u.Name, u.Table)
	}

	if u.Start != "" {
		if _, err := time.Parse(common.DateFormat, u.Start); err != nil {
			return fmt.Errorf("%w: %s start: %s", ErrInvalidUniverse, u.Name, err.Error())
		}
	}

	seen := make(map[string]bool, len(u.Instruments))
	for _, inst := range u.Instruments {
		if inst.Label == "" || inst.Symbol == "" {
			return fmt.Errorf("%w: %s has an instrument without label or symbol", ErrInvalidUniverse, u.Name)
		}
		if seen[inst.Label] {
			return fmt.Errorf("%w: %s repeats label %q", ErrInvalidUniverse, u.Name, inst.Label)
		}
		seen[inst.Label] = true
	}

	return nil
}

// Range returns the date range to fetch when running at now. A fixed start
// takes precedence over history_days.
func (u *Universe) Range(now time.Time) (begin, end time.Time) {
	end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if u.Start != "" {
		begin, _ = time.Parse(common.DateFormat, u.Start)
		return begin, end
	}
	return end.AddDate(0, 0, -u.HistoryDays), end
}

// Labels returns the instrument labels in definition order
func (u *Universe) Labels() []string {
	labels := make([]string, len(u.Instruments))
	for idx, inst := range u.Instruments {
		labels[idx] = inst.Label
	}
	return labels
}
