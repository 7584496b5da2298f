// Copyright 2021-2022
// SPDX-License-Identifier: Apache-2.0
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

package common

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DateFormat is the layout used for every date written to disk
const DateFormat = "2006-01-02"

// SetupLogging configures the global zerolog logger from the log.* viper keys
func SetupLogging() {
	// Set level
	level := viper.GetString("log.level")
	level = strings.ToLower(level)

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "warning", "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Logger = log.Output(logWriter(viper.GetString("log.output"), viper.GetBool("log.pretty")))

	// Set report caller
	if viper.GetBool("log.report_caller") {
		log.Logger = log.With().Caller().Logger()
	}

	// setup stack marshaler
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	log.Debug().Str("Level", zerolog.GlobalLevel().String()).Msg("logging configured")
}

// logWriter returns the destination for log messages; anything other than
// stdout or stderr is treated as a file path and rotated by lumberjack
func logWriter(output string, pretty bool) io.Writer {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "", "stderr":
		out = os.Stderr
	default:
		out = &lumberjack.Logger{
			Filename:   output,
			MaxSize:    viper.GetInt("log.max_size"),
			MaxBackups: viper.GetInt("log.max_backups"),
			MaxAge:     viper.GetInt("log.max_age"),
			Compress:   true,
		}
	}

	if pretty {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: output != "stdout" && output != "stderr" && output != ""}
	}
	return out
}

// GetTimezone returns the location used to evaluate schedules
func GetTimezone() *time.Location {
	name := viper.GetString("timezone")
	if name == "" {
		name = "Europe/Paris"
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		log.Panic().Err(err).Str("Timezone", name).Msg("could not load timezone")
	}
	return tz
}
