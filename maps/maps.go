// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

// Package maps is the low-level HTTP gateway for Google Maps Web Service
// calls. Every outbound request goes through one chokepoint that applies
// rate limiting, retry-with-exponential-backoff on transient failures, and
// error normalization. Resolution services never talk to the network
// directly.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBase is the Google Maps Web Services root.
const DefaultBase = "https://maps.googleapis.com/maps/api"

const bodySnippetLen = 200

// Options configures a Maps gateway. The zero value of every field except
// APIKey falls back to the defaults below.
type Options struct {
	// APIKey is the Google Maps Platform key injected into every call.
	APIKey string

	// BaseURL overrides the API root, mainly for tests.
	BaseURL string

	// QPS caps outbound queries per second. <= 0 disables throttling.
	QPS float64

	// MaxRetries is the number of retry attempts on transient failures.
	// 0 falls back to the default; negative disables retries.
	MaxRetries int

	// BackoffMin is the initial retry backoff.
	BackoffMin time.Duration

	// BackoffMax caps the exponential backoff.
	BackoffMax time.Duration

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests. Its Timeout is
	// left untouched when set.
	HTTPClient *http.Client
}

// Defaults match the upstream service's recommended client behavior.
const (
	DefaultQPS        = 5.0
	DefaultMaxRetries = 5
	DefaultBackoffMin = 1 * time.Second
	DefaultBackoffMax = 30 * time.Second
	DefaultTimeout    = 15 * time.Second
)

// Maps executes rate-limited, retried GET calls against the Maps API family
// and decodes JSON responses. A single instance is safe for concurrent use.
type Maps struct {
	base       string
	key        string
	limiter    *Limiter
	maxRetries int
	backoffMin time.Duration
	backoffMax time.Duration
	client     *http.Client
}

// New creates a gateway with the provided options.
func New(options *Options) *Maps {
	if options == nil {
		options = &Options{}
	}

	base := options.BaseURL
	if base == "" {
		base = DefaultBase
	}

	qps := options.QPS
	if qps == 0 {
		qps = DefaultQPS
	}

	maxRetries := options.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	} else if maxRetries < 0 {
		maxRetries = 0
	}

	backoffMin := options.BackoffMin
	if backoffMin == 0 {
		backoffMin = DefaultBackoffMin
	}

	backoffMax := options.BackoffMax
	if backoffMax == 0 {
		backoffMax = DefaultBackoffMax
	}

	if backoffMax < backoffMin {
		backoffMax = backoffMin
	}

	client := options.HTTPClient
	if client == nil {
		timeout := options.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}

		client = &http.Client{Timeout: timeout}
	}

	return &Maps{
		base:       base,
		key:        options.APIKey,
		limiter:    NewLimiter(qps),
		maxRetries: maxRetries,
		backoffMin: backoffMin,
		backoffMax: backoffMax,
		client:     client,
	}
}

// Request executes a GET against endpoint (e.g. "geocode/json") with the
// given query parameters and decodes the JSON response into out. The API key
// is injected; callers must not supply it. Transient failures (HTTP 408,
// 429, 5xx, connection errors, timeouts) are retried with exponential
// backoff; everything else fails immediately with a GatewayError. A call
// either fully decodes a response or fails, never both.
func (m *Maps) Request(ctx context.Context, endpoint string, params url.Values, out any) error {
	if endpoint == "" {
		return &InvalidArgumentError{Name: "endpoint"}
	}

	if len(params) == 0 {
		return &InvalidArgumentError{Name: "params"}
	}

	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}

	q.Set("key", m.key)

	requestURL := m.base + "/" + endpoint + "?" + q.Encode()
	backoff := m.backoffMin
	attempt := 0

	for {
		if err := m.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}

		body, transient, err := m.once(ctx, requestURL)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return &GatewayError{Err: fmt.Errorf("decoding response: %w", err)}
			}

			return nil
		}

		if !transient {
			return err
		}

		attempt++
		if attempt > m.maxRetries {
			return &GatewayError{Err: fmt.Errorf("exceeded retries: %w", err)}
		}

		if err := sleep(ctx, backoff); err != nil {
			return err
		}

		backoff = min(backoff*2, m.backoffMax)
	}
}

// once performs a single HTTP attempt. The second return value reports
// whether the failure is transient and worth retrying.
func (m *Maps) once(ctx context.Context, requestURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, false, &GatewayError{Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := m.client.Do(req)
	if err != nil {
		// A cancelled context is the caller's deadline, not an upstream
		// hiccup.
		if ctx.Err() != nil {
			return nil, false, &GatewayError{Err: ctx.Err()}
		}

		return nil, true, &GatewayError{Err: err}
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, &GatewayError{Status: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode == http.StatusOK {
		return body, false, nil
	}

	gwErr := &GatewayError{Status: resp.StatusCode, Body: snippet(body)}

	return nil, transientStatus(resp.StatusCode), gwErr
}

func snippet(body []byte) string {
	if len(body) > bodySnippetLen {
		body = body[:bodySnippetLen]
	}

	return string(body)
}

// sleep blocks for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for retry backoff: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
