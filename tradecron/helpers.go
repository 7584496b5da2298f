// Copyright 2021-2023
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

package tradecron

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const minutesPerDay = 24 * 60

// expandBriefFormat pads a spec with '*' until it has five cron fields
// besides its modifiers
func expandBriefFormat(spec string) string {
	tokens := strings.Fields(spec)

	want := 5
	for _, token := range tokens {
		if strings.HasPrefix(token, "@") {
			want++
		}
	}
	for len(tokens) < want {
		tokens = append(tokens, "*")
	}

	return strings.Join(tokens, " ")
}

// offsetField parses a signed minute or hour offset; '*' means zero
func offsetField(token, name string) (int, error) {
	if token == "*" {
		return 0, nil
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		log.Error().Str(name, token).Msg("could not parse offset")
		return 0, ErrMalformedTimeSpec
	}
	return n, nil
}

// offsetTimeSpec turns the minute and hour fields into an offset from
// anchor (HHMM) and returns the resulting five field spec. The result must
// fall on the same day.
func offsetTimeSpec(fields []string, anchor int) (string, error) {
	mins, err := offsetField(fields[0], "MinutesToken")
	if err != nil {
		return "", err
	}
	hrs, err := offsetField(fields[1], "HoursToken")
	if err != nil {
		return "", err
	}

	at := (anchor/100)*60 + anchor%100 + hrs*60 + mins
	if at < 0 || at >= minutesPerDay {
		return "", ErrFieldOutOfBounds
	}

	return fmt.Sprintf("%d %d %s", at%60, at/60, strings.Join(fields[2:], " ")), nil
}
