// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/geogate/geogate/maps"
)

// Timezone is a thin wrapper over the Time Zone API.
type Timezone struct {
	maps *maps.Maps
	now  func() time.Time
}

// NewTimezone creates the time zone service.
func NewTimezone(m *maps.Maps) *Timezone {
	return &Timezone{maps: m, now: time.Now}
}

// Lookup returns the IANA zone id for a coordinate, or "" when the upstream
// has none. The current timestamp is sent because zone rules depend on it
// (daylight saving).
func (t *Timezone) Lookup(ctx context.Context, lat, lng float64) (string, error) {
	var resp struct {
		TimeZoneID string `json:"timeZoneId"`
	}

	err := t.maps.Request(ctx, "timezone/json", url.Values{
		"location":  {Coord(lat, lng)},
		"timestamp": {strconv.FormatInt(t.now().Unix(), 10)},
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.TimeZoneID, nil
}
