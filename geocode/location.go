// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocode provides the resolution services built on top of the maps
// gateway: geocoding, place text search, distance, time zone and static map
// URLs, plus the fallback orchestration between them. Every service produces
// the same normalized location shape.
package geocode

import (
	"context"
	"encoding/json"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/geogate/geogate/cache"
)

// AddressComponent is one entry of a result's address_components, kept in
// the upstream wire shape.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// Location is the canonical result shape shared by the geocoding and
// place-resolution paths. Every field is optional; absence means the
// upstream did not provide it, not an error. The places path fills
// AddressComponents verbatim instead of the decomposed admin fields, a
// shape difference callers must tolerate.
type Location struct {
	FormattedAddress  string             `json:"formatted_address,omitempty"`
	Lat               *float64           `json:"lat,omitempty"`
	Lng               *float64           `json:"lng,omitempty"`
	PlaceID           string             `json:"place_id,omitempty"`
	Types             string             `json:"types,omitempty"`
	CountryCode       string             `json:"country_code,omitempty"`
	CountryName       string             `json:"country_name,omitempty"`
	AdminLevel1       string             `json:"admin_level_1,omitempty"`
	AdminLevel2       string             `json:"admin_level_2,omitempty"`
	Locality          string             `json:"locality,omitempty"`
	PostalCode        string             `json:"postal_code,omitempty"`
	AddressComponents []AddressComponent `json:"address_components,omitempty"`
}

// Coord formats a coordinate pair the way the upstream APIs expect it.
func Coord(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

// geometry is the shared wire shape for result coordinates.
type geometry struct {
	Location struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	} `json:"location"`
}

// component returns the first address component carrying the given type.
func component(comps []AddressComponent, kind string, wantLong bool) string {
	for _, c := range comps {
		if slices.Contains(c.Types, kind) {
			if wantLong {
				return c.LongName
			}

			return c.ShortName
		}
	}

	return ""
}

func joinTypes(types []string) string {
	return strings.Join(types, ",")
}

// lookupLocation reads a cached location. Cache failures degrade to a miss;
// the cache is an accelerator, never a gate.
func lookupLocation(ctx context.Context, c cache.Cache, key string) (*Location, bool) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		log.Printf("Cache read failed for %q - %s", key, err)

		return nil, false
	}

	if !ok {
		return nil, false
	}

	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		log.Printf("Discarding undecodable cache entry %q - %s", key, err)

		return nil, false
	}

	return &loc, true
}

// storeLocation writes a resolved location to the cache, best effort.
func storeLocation(ctx context.Context, c cache.Cache, key string, loc *Location) {
	raw, err := json.Marshal(loc)
	if err != nil {
		log.Printf("Encoding cache entry %q - %s", key, err)

		return
	}

	if err := c.Set(ctx, key, raw); err != nil {
		log.Printf("Cache write failed for %q - %s", key, err)
	}
}
