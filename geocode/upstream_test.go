// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/geogate/geogate/maps"
)

// fakeUpstream simulates the Maps API family: one handler per endpoint
// path, with per-endpoint call counting so tests can assert how many
// upstream calls were made.
type fakeUpstream struct {
	mu       sync.Mutex
	calls    map[string]int
	queries  map[string]url.Values
	handlers map[string]http.HandlerFunc
	server   *httptest.Server
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()

	f := &fakeUpstream{
		calls:    make(map[string]int),
		queries:  make(map[string]url.Values),
		handlers: make(map[string]http.HandlerFunc),
	}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.URL.Path]++
		f.queries[r.URL.Path] = r.URL.Query()
		handler := f.handlers[r.URL.Path]
		f.mu.Unlock()

		if handler == nil {
			http.NotFound(w, r)

			return
		}

		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	return f
}

// respond registers a static JSON body for an endpoint path.
func (f *fakeUpstream) respond(path, body string) {
	f.handle(path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
}

func (f *fakeUpstream) handle(path string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handlers[path] = handler
}

func (f *fakeUpstream) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[path]
}

// query returns the parameters of the last call to an endpoint.
func (f *fakeUpstream) query(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.queries[path]
}

// gateway returns a Maps instance pointed at the fake with fast retries and
// no throttling.
func (f *fakeUpstream) gateway() *maps.Maps {
	return maps.New(&maps.Options{
		APIKey:     "test-key",
		BaseURL:    f.server.URL,
		QPS:        -1,
		MaxRetries: 1,
		BackoffMin: time.Millisecond,
		BackoffMax: 2 * time.Millisecond,
		Timeout:    2 * time.Second,
	})
}

const geocodeParisBody = `{
	"status": "OK",
	"results": [{
		"formatted_address": "Paris, France",
		"place_id": "ChIJD7fiBh9u5kcRYJSMaMOCCwQ",
		"types": ["locality", "political"],
		"geometry": {"location": {"lat": 48.856614, "lng": 2.3522219}},
		"address_components": [
			{"long_name": "Paris", "short_name": "Paris", "types": ["locality", "political"]},
			{"long_name": "Paris", "short_name": "75", "types": ["administrative_area_level_2", "political"]},
			{"long_name": "Île-de-France", "short_name": "IDF", "types": ["administrative_area_level_1", "political"]},
			{"long_name": "France", "short_name": "FR", "types": ["country", "political"]},
			{"long_name": "75001", "short_name": "75001", "types": ["postal_code"]}
		]
	}]
}`

const zeroResultsBody = `{"status": "ZERO_RESULTS", "results": []}`

func float64ptr(v float64) *float64 { return &v }

func int64ptr(v int64) *int64 { return &v }
