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

package render

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is drawn in place of undefined values
const Placeholder = "—"

var (
	printer       = message.NewPrinter(language.English)
	levelReplacer = strings.NewReplacer(",", " ", ".", ",")
)

// FormatPct formats a percentage with an explicit sign and two decimals,
// e.g. +1.23%
func FormatPct(v float64) string {
	if math.IsNaN(v) {
		return Placeholder
	}
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatLevel formats a level with a space as thousands separator and a
// decimal comma, e.g. 1 234,56
func FormatLevel(v float64) string {
	if math.IsNaN(v) {
		return Placeholder
	}
	return levelReplacer.Replace(printer.Sprintf("%.2f", v))
}
