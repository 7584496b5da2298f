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

package data

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/penny-vault/marketdash/common"
	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

// diskCache stores successful HTTP responses on disk. Keys include the
// current date so cached entries expire every day.
type diskCache struct {
	base  http.RoundTripper
	dir   string
	today func() time.Time
}

func newDiskCache(dir string) *diskCache {
	return &diskCache{
		dir:   dir,
		today: time.Now,
	}
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	key := c.key(req)

	if resp, err := c.get(key, req); err == nil {
		log.Debug().Str("Url", redact(req.URL.String())).Msg("http cache hit")
		return resp, nil
	}

	base := c.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Warn().Err(err).Str("Key", key).Msg("could not write http cache entry")
	}

	return resp, nil
}

func (c *diskCache) key(req *http.Request) string {
	sum := blake3.Sum256([]byte(c.today().Format(common.DateFormat) + " " + req.Method + " " + req.URL.String()))
	return hex.EncodeToString(sum[:])
}

func (c *diskCache) path(key string) string {
	return filepath.Join(c.dir, key+".lz4")
}

// cachedResponse is the on-disk form of a response
type cachedResponse struct {
	StatusCode int         `json:"status_code"`
	Header     http.Header `json:"header"`
	Body       []byte      `json:"body"`
}

func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	fh, err := os.Open(c.path(key))
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	content, err := io.ReadAll(lz4.NewReader(fh))
	if err != nil {
		return nil, err
	}

	cached := cachedResponse{}
	if err := json.Unmarshal(content, &cached); err != nil {
		return nil, err
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", cached.StatusCode, http.StatusText(cached.StatusCode)),
		StatusCode:    cached.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        cached.Header,
		Body:          io.NopCloser(bytes.NewReader(cached.Body)),
		ContentLength: int64(len(cached.Body)),
		Request:       req,
	}, nil
}

// put writes the response to disk and replaces resp.Body with an unread copy
func (c *diskCache) put(key string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return err
	}

	content, err := json.Marshal(cachedResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	zw := lz4.NewWriter(tmp)
	if _, err := zw.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), c.path(key))
}
