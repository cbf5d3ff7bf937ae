// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fastOptions returns gateway options pointing at the test server with
// backoffs short enough to keep the suite quick.
func fastOptions(serverURL string) *Options {
	return &Options{
		APIKey:     "test-key",
		BaseURL:    serverURL,
		QPS:        -1,
		MaxRetries: 3,
		BackoffMin: 2 * time.Millisecond,
		BackoffMax: 8 * time.Millisecond,
		Timeout:    2 * time.Second,
	}
}

func TestRequestSuccessInjectsKey(t *testing.T) {
	var gotKey, gotAddress string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotAddress = r.URL.Query().Get("address")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	m := New(fastOptions(server.URL))

	var out struct {
		Status string `json:"status"`
	}

	err := m.Request(context.Background(), "geocode/json", url.Values{"address": {"x"}}, &out)
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	if out.Status != "OK" {
		t.Errorf("Status = %q, want OK", out.Status)
	}

	if gotKey != "test-key" {
		t.Errorf("key = %q, want test-key", gotKey)
	}

	if gotAddress != "x" {
		t.Errorf("address = %q, want x", gotAddress)
	}
}

func TestRequestValidatesArguments(t *testing.T) {
	m := New(&Options{APIKey: "k", QPS: -1})

	var out any

	err := m.Request(context.Background(), "", url.Values{"a": {"b"}}, &out)
	if !IsInvalidArgument(err) {
		t.Errorf("empty endpoint: error = %v, want InvalidArgumentError", err)
	}

	err = m.Request(context.Background(), "geocode/json", url.Values{}, &out)
	if !IsInvalidArgument(err) {
		t.Errorf("empty params: error = %v, want InvalidArgumentError", err)
	}
}

func TestRequestRetriesTransientStatuses(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer server.Close()

	m := New(fastOptions(server.URL))

	var out struct {
		Status string `json:"status"`
	}

	err := m.Request(context.Background(), "geocode/json", url.Values{"address": {"x"}}, &out)
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("upstream calls = %d, want 3", got)
	}
}

func TestRequestExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	options := fastOptions(server.URL)
	options.MaxRetries = 2
	m := New(options)

	var out any

	err := m.Request(context.Background(), "geocode/json", url.Values{"address": {"x"}}, &out)
	if !IsGatewayError(err) {
		t.Fatalf("Request() error = %v, want GatewayError", err)
	}

	if !strings.Contains(err.Error(), "exceeded retries") {
		t.Errorf("error = %q, want to mention exceeded retries", err)
	}

	// Initial attempt plus MaxRetries.
	if got := calls.Load(); got != 3 {
		t.Errorf("upstream calls = %d, want 3", got)
	}
}

func TestRequestDoesNotRetryNonTransient(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"bad request", http.StatusBadRequest},
		{"not found", http.StatusNotFound},
		{"forbidden", http.StatusForbidden},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var calls atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			m := New(fastOptions(server.URL))

			var out any

			err := m.Request(context.Background(), "geocode/json", url.Values{"address": {"x"}}, &out)

			var gwErr *GatewayError
			if !errors.As(err, &gwErr) {
				t.Fatalf("Request() error = %v, want GatewayError", err)
			}

			if gwErr.Status != test.status {
				t.Errorf("Status = %d, want %d", gwErr.Status, test.status)
			}

			if got := calls.Load(); got != 1 {
				t.Errorf("upstream calls = %d, want 1", got)
			}
		})
	}
}

func TestRequestTruncatesErrorBody(t *testing.T) {
	long := strings.Repeat("x", 1000)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(long))
	}))
	defer server.Close()

	m := New(fastOptions(server.URL))

	var out any

	err := m.Request(context.Background(), "geocode/json", url.Values{"address": {"x"}}, &out)

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("Request() error = %v, want GatewayError", err)
	}

	if len(gwErr.Body) != bodySnippetLen {
		t.Errorf("len(Body) = %d, want %d", len(gwErr.Body), bodySnippetLen)
	}
}

func TestRequestMalformedBodyFailsWithoutRetry(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	m := New(fastOptions(server.URL))

	var out struct{}

	err := m.Request(context.Background(), "geocode/json", url.Values{"address": {"x"}}, &out)
	if !IsGatewayError(err) {
		t.Fatalf("Request() error = %v, want GatewayError", err)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}
}

func TestRequestBackoffGrowsAndCaps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	options := fastOptions(server.URL)
	options.MaxRetries = 3
	options.BackoffMin = 10 * time.Millisecond
	options.BackoffMax = 20 * time.Millisecond
	m := New(options)

	var out any

	start := time.Now()

	err := m.Request(context.Background(), "geocode/json", url.Values{"address": {"x"}}, &out)
	if !IsGatewayError(err) {
		t.Fatalf("Request() error = %v, want GatewayError", err)
	}

	// Backoffs: 10ms, then 20ms (doubled), then 20ms (capped).
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("elapsed = %v, want >= 50ms of backoff", elapsed)
	}
}

func TestRequestBackoffHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	options := fastOptions(server.URL)
	options.BackoffMin = 10 * time.Second
	options.BackoffMax = 10 * time.Second
	m := New(options)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out any

	start := time.Now()

	err := m.Request(ctx, "geocode/json", url.Values{"address": {"x"}}, &out)
	if err == nil {
		t.Fatal("Request() expected error after cancellation")
	}

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancellation took %v, want well under the 10s backoff", elapsed)
	}
}
