// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"net/url"
	"strings"

	"github.com/geogate/geogate/maps"
)

// Mode is a Distance Matrix travel mode.
type Mode string

const (
	ModeDriving   Mode = "driving"
	ModeWalking   Mode = "walking"
	ModeBicycling Mode = "bicycling"
	ModeTransit   Mode = "transit"
)

// Summary is the compact distance/duration extract of the first
// row/element of a routing response. Missing upstream sub-objects leave the
// corresponding fields nil, not an error.
type Summary struct {
	DistanceText    string `json:"distance_text,omitempty"`
	DistanceMeters  *int64 `json:"distance_meters,omitempty"`
	DurationText    string `json:"duration_text,omitempty"`
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
}

// DistanceMatrix is a thin wrapper over the Distance Matrix API.
type DistanceMatrix struct {
	maps *maps.Maps
}

// NewDistanceMatrix creates the distance service.
func NewDistanceMatrix(m *maps.Maps) *DistanceMatrix {
	return &DistanceMatrix{maps: m}
}

type distanceResponse struct {
	Rows []struct {
		Elements []struct {
			Distance *valueText `json:"distance"`
			Duration *valueText `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

type valueText struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

// Summary computes distance and duration between two waypoints, each either
// "lat,lng" (see Coord) or free text. An empty mode defaults to driving.
func (d *DistanceMatrix) Summary(ctx context.Context, origin, destination string, mode Mode) (*Summary, error) {
	if strings.TrimSpace(origin) == "" {
		return nil, &maps.InvalidArgumentError{Name: "origin"}
	}

	if strings.TrimSpace(destination) == "" {
		return nil, &maps.InvalidArgumentError{Name: "destination"}
	}

	if mode == "" {
		mode = ModeDriving
	}

	var resp distanceResponse

	err := d.maps.Request(ctx, "distancematrix/json", url.Values{
		"origins":      {origin},
		"destinations": {destination},
		"mode":         {string(mode)},
	}, &resp)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return summary, nil
	}

	element := resp.Rows[0].Elements[0]
	if element.Distance != nil {
		summary.DistanceText = element.Distance.Text
		summary.DistanceMeters = &element.Distance.Value
	}

	if element.Duration != nil {
		summary.DurationText = element.Duration.Text
		summary.DurationSeconds = &element.Duration.Value
	}

	return summary, nil
}
