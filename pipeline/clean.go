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

package pipeline

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Clean removes the tables in dataDir and the images in outputDir and
// returns the removed paths. Missing directories are not an error.
func Clean(dataDir, outputDir string) ([]string, error) {
	removed := make([]string, 0)
	for _, pattern := range []string{filepath.Join(dataDir, "*.csv"), filepath.Join(outputDir, "*.png")} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return removed, err
		}

		for _, path := range matches {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return removed, err
			}
			log.Debug().Str("Path", path).Msg("removed")
			removed = append(removed, path)
		}
	}

	log.Info().Int("NumRemoved", len(removed)).Msg("clean done")
	return removed, nil
}
