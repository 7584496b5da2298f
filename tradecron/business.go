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

package tradecron

import "time"

// DateOnly strips the clock and location from t, keeping its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsBusinessDay returns true Monday through Friday
func IsBusinessDay(t time.Time) bool {
	return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
}

// LastBusinessDay returns the date of t if it is a business day, otherwise
// the business day preceding it
func LastBusinessDay(t time.Time) time.Time {
	d := DateOnly(t)
	for !IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// BusinessDaysBefore steps back n business days from t. A weekend date
// counts the preceding Friday as its first step.
func BusinessDaysBefore(t time.Time, n int) time.Time {
	d := DateOnly(t)
	for n > 0 {
		d = d.AddDate(0, 0, -1)
		if IsBusinessDay(d) {
			n--
		}
	}
	return d
}

// PreviousYearEnd returns the last business day of the calendar year
// before the year of t
func PreviousYearEnd(t time.Time) time.Time {
	return LastBusinessDay(time.Date(t.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC))
}

// WeekEnding returns the Friday that closes the week containing t; weeks
// run Saturday through Friday
func WeekEnding(t time.Time) time.Time {
	d := DateOnly(t)
	days := (int(time.Friday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, days)
}

// MonthEnding returns the last calendar day of the month containing t
func MonthEnding(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}
