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
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	AtOpen       = "@open"
	AtClose      = "@close"
	AtWeekBegin  = "@weekbegin"
	AtWeekEnd    = "@weekend"
	AtMonthBegin = "@monthbegin"
	AtMonthEnd   = "@monthend"
)

// maxSteps bounds the candidates examined by Next
const maxSteps = 10_000

// MarketHours holds open and close as HHMM in the schedule timezone
type MarketHours struct {
	Open  int
	Close int
}

var (
	RegularHours = MarketHours{
		Open:  930,
		Close: 1600,
	}
	ExtendedHours = MarketHours{
		Open:  700,
		Close: 2000,
	}
	EuropeanHours = MarketHours{
		Open:  900,
		Close: 1730,
	}
)

type TradeCron struct {
	Schedule       cron.Schedule
	ScheduleString string
	TimeSpec       string
	TimeFlag       string
	DateFlag       string
	marketStatus   *MarketStatus
}

var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// New parses a market aware cron spec. The spec is a standard five field
// cron expression (minute hour day-of-month month day-of-week); missing
// trailing fields default to '*'. It may carry one time modifier and one
// date modifier:
//
//	@open, @close           minute and hour become an offset from the open
//	                        or close of the market, e.g. "@close 30"
//	@weekbegin, @weekend    first or last market day of the week
//	@monthbegin, @monthend  first or last market day of the month
//
// Without a time modifier, matches outside market hours are skipped. With
// one, the computed time runs on every selected market day.
func New(cronSpec string, hours MarketHours) (*TradeCron, error) {
	spec := strings.TrimSpace(cronSpec)
	if spec == "" {
		return nil, ErrMalformedTimeSpec
	}

	fields := make([]string, 0, 5)
	var timeFlag, dateFlag string
	for _, token := range strings.Fields(expandBriefFormat(spec)) {
		if token[0] != '@' {
			fields = append(fields, token)
			continue
		}

		var slot *string
		switch token {
		case AtOpen, AtClose:
			slot = &timeFlag
		case AtWeekBegin, AtWeekEnd, AtMonthBegin, AtMonthEnd:
			slot = &dateFlag
		default:
			return nil, ErrUnknownModifier
		}
		if *slot != "" {
			return nil, ErrConflictingModifiers
		}
		*slot = token
	}

	timeSpec := strings.Join(fields, " ")
	if timeFlag != "" {
		anchor := hours.Open
		if timeFlag == AtClose {
			anchor = hours.Close
		}

		var err error
		if timeSpec, err = offsetTimeSpec(fields, anchor); err != nil {
			return nil, err
		}
	}

	schedule, err := specParser.Parse(timeSpec)
	if err != nil {
		log.Error().Err(err).Str("TimeSpec", timeSpec).Str("TradeCronSpec", cronSpec).Msg("robfig/cron could not parse timespec")
		return nil, err
	}

	return &TradeCron{
		Schedule:       schedule,
		ScheduleString: cronSpec,
		TimeSpec:       timeSpec,
		TimeFlag:       timeFlag,
		DateFlag:       dateFlag,
		marketStatus:   NewMarketStatus(&hours),
	}, nil
}

// dayMatches reports whether the date of t is a market day selected by the
// date modifier
func (tc *TradeCron) dayMatches(t time.Time) bool {
	ms := tc.marketStatus
	switch tc.DateFlag {
	case AtWeekBegin:
		return ms.IsFirstMarketDayOfWeek(t)
	case AtWeekEnd:
		return ms.IsLastMarketDayOfWeek(t)
	case AtMonthBegin:
		return ms.IsFirstMarketDayOfMonth(t)
	case AtMonthEnd:
		return ms.IsLastMarketDayOfMonth(t)
	default:
		return ms.IsMarketDay(t)
	}
}

// IsTradeDay reports whether the schedule fires on the date of forDate; the
// time of day is ignored
func (tc *TradeCron) IsTradeDay(forDate time.Time) bool {
	day := time.Date(forDate.Year(), forDate.Month(), forDate.Day(), 0, 0, 0, 0, tc.marketStatus.tz)
	next := tc.Next(day.Add(-time.Nanosecond)).In(tc.marketStatus.tz)
	return next.Year() == day.Year() && next.YearDay() == day.YearDay()
}

// Next returns the first time after forDate at which the schedule fires
func (tc *TradeCron) Next(forDate time.Time) time.Time {
	ms := tc.marketStatus
	candidate := forDate
	for step := 0; step < maxSteps; step++ {
		candidate = tc.Schedule.Next(candidate)
		local := candidate.In(ms.tz)

		if !tc.dayMatches(local) {
			// resume just before midnight so the whole next day is considered
			nextDay := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, ms.tz)
			candidate = nextDay.Add(-time.Nanosecond)
			continue
		}

		if tc.TimeFlag != "" || ms.IsMarketOpen(local) {
			return candidate
		}
	}

	log.Panic().Str("TimeSpec", tc.TimeSpec).Str("DateFlag", tc.DateFlag).Msg("schedule never matched a market time")
	return time.Time{}
}

// Location returns the timezone schedules are evaluated in
func (tc *TradeCron) Location() *time.Location {
	return tc.marketStatus.tz
}
