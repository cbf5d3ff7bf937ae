// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"net/url"
	"strconv"
)

// staticMapBase is the Static Maps endpoint. Unlike the JSON APIs it
// returns an image, so this component only builds URLs and never makes a
// network call.
const staticMapBase = "https://maps.googleapis.com/maps/api/staticmap"

const (
	defaultZoom = 12
	defaultSize = "400x300"
)

// StaticMap builds preview-image URLs.
type StaticMap struct {
	key  string
	base string
}

// NewStaticMap creates a URL builder carrying the API key.
func NewStaticMap(apiKey string) *StaticMap {
	return &StaticMap{key: apiKey, base: staticMapBase}
}

// Pin returns a URL for a map centered on the coordinate with a single
// marker. zoom <= 0 and an empty size fall back to the defaults.
func (s *StaticMap) Pin(lat, lng float64, zoom int, size string) string {
	if zoom <= 0 {
		zoom = defaultZoom
	}

	if size == "" {
		size = defaultSize
	}

	center := Coord(lat, lng)
	params := url.Values{
		"center":  {center},
		"zoom":    {strconv.Itoa(zoom)},
		"size":    {size},
		"markers": {center},
		"key":     {s.key},
	}

	return s.base + "?" + params.Encode()
}
