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
	"time"

	"github.com/penny-vault/marketdash/common"
)

// MarketStatus answers calendar questions for a market that trades every
// weekday. There is no holiday calendar.
type MarketStatus struct {
	marketHours *MarketHours
	tz          *time.Location
}

func NewMarketStatus(hours *MarketHours) *MarketStatus {
	return &MarketStatus{
		marketHours: hours,
		tz:          common.GetTimezone(),
	}
}

// IsMarketOpen returns true if the specified time is during market hours
// on a market day
func (ms *MarketStatus) IsMarketOpen(t time.Time) bool {
	if !ms.IsMarketDay(t) {
		return false
	}

	t = t.In(ms.tz)
	timeOfDay := t.Hour()*100 + t.Minute()
	return timeOfDay >= ms.marketHours.Open && timeOfDay <= ms.marketHours.Close
}

// IsMarketDay returns true if the specified date is a weekday
func (ms *MarketStatus) IsMarketDay(t time.Time) bool {
	return IsBusinessDay(t.In(ms.tz))
}

// noMarketDayBetween reports whether every day from the day after t,
// walking by step, is closed until the day that stop accepts
func (ms *MarketStatus) noMarketDayBetween(t time.Time, step int, stop func(time.Time) bool) bool {
	t = t.In(ms.tz)
	d := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, ms.tz)
	for d = d.AddDate(0, 0, step); !stop(d); d = d.AddDate(0, 0, step) {
		if ms.IsMarketDay(d) {
			return false
		}
	}
	return true
}

// weekday returns 0 for Monday through 6 for Sunday
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsFirstMarketDayOfWeek returns true when t is a market day and no earlier
// day of its Monday-based week is
func (ms *MarketStatus) IsFirstMarketDayOfWeek(t time.Time) bool {
	week := weekday(t.In(ms.tz))
	return ms.IsMarketDay(t) && ms.noMarketDayBetween(t, -1, func(d time.Time) bool { return weekday(d) > week })
}

// IsLastMarketDayOfWeek returns true when t is a market day and no later
// day of its week is
func (ms *MarketStatus) IsLastMarketDayOfWeek(t time.Time) bool {
	week := weekday(t.In(ms.tz))
	return ms.IsMarketDay(t) && ms.noMarketDayBetween(t, 1, func(d time.Time) bool { return weekday(d) < week })
}

// IsFirstMarketDayOfMonth returns true when t is the first market day of
// its month
func (ms *MarketStatus) IsFirstMarketDayOfMonth(t time.Time) bool {
	month := t.In(ms.tz).Month()
	return ms.IsMarketDay(t) && ms.noMarketDayBetween(t, -1, func(d time.Time) bool { return d.Month() != month })
}

// IsLastMarketDayOfMonth returns true when t is the last market day of its
// month
func (ms *MarketStatus) IsLastMarketDayOfMonth(t time.Time) bool {
	month := t.In(ms.tz).Month()
	return ms.IsMarketDay(t) && ms.noMarketDayBetween(t, 1, func(d time.Time) bool { return d.Month() != month })
}
