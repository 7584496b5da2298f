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
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout    = 20 * time.Second
	DefaultRetryDelay = time.Second
	userAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// ClientOptions configures the HTTP client shared by every provider
type ClientOptions struct {
	Timeout    time.Duration
	RetryDelay time.Duration

	// CacheDir enables the daily on-disk response cache when not empty
	CacheDir string
}

// Client performs GET requests against data providers. A response of
// HTTP 429 is retried once after RetryDelay; any other status >= 400 is
// an error.
type Client struct {
	http       *http.Client
	retryDelay time.Duration
}

func NewClient(opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}

	client := &http.Client{Timeout: opts.Timeout}
	if opts.CacheDir != "" {
		client.Transport = newDiskCache(opts.CacheDir)
	}

	return &Client{
		http:       client,
		retryDelay: opts.RetryDelay,
	}
}

// Get fetches url and returns the response body
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	body, status, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		log.Warn().Str("Url", redact(rawURL)).Dur("RetryDelay", c.retryDelay).Msg("rate limited; retrying once")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}

		if body, status, err = c.do(ctx, rawURL); err != nil {
			return nil, err
		}
		if status == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %s", ErrRateLimited, redact(rawURL))
		}
	}

	if status >= 400 {
		log.Debug().Str("Url", redact(rawURL)).Int("StatusCode", status).Bytes("Body", truncate(body, 512)).Msg("provider returned an error")
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, status)
	}

	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// redact hides credentials passed as query parameters
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	for _, param := range []string{"api_key", "token", "c"} {
		if q.Has(param) {
			q.Set(param, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
