// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"testing"
	"time"
)

func TestTimezoneLookup(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.respond("/timezone/json", `{"status": "OK", "timeZoneId": "Australia/Sydney", "rawOffset": 36000}`)

	tz := NewTimezone(upstream.gateway())
	tz.now = func() time.Time { return time.Unix(1700000000, 0) }

	got, err := tz.Lookup(context.Background(), -33.8688, 151.2093)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	if got != "Australia/Sydney" {
		t.Errorf("Lookup() = %q, want Australia/Sydney", got)
	}

	q := upstream.query("/timezone/json")
	if got := q.Get("location"); got != "-33.8688,151.2093" {
		t.Errorf("location = %q", got)
	}

	// Zone rules are timestamp-dependent, so the current time rides along.
	if got := q.Get("timestamp"); got != "1700000000" {
		t.Errorf("timestamp = %q, want 1700000000", got)
	}
}

func TestTimezoneLookupAbsentZone(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.respond("/timezone/json", `{"status": "ZERO_RESULTS"}`)

	tz := NewTimezone(upstream.gateway())

	got, err := tz.Lookup(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	if got != "" {
		t.Errorf("Lookup() = %q, want empty for absent zone", got)
	}
}
