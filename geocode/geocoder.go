// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"net/url"
	"strings"

	"github.com/geogate/geogate/cache"
	"github.com/geogate/geogate/maps"
)

// Geocoder resolves free-form addresses and city/state/country triples into
// normalized locations via the Geocoding API, memoizing results in the
// configured cache.
type Geocoder struct {
	maps  *maps.Maps
	cache cache.Cache
}

// NewGeocoder creates a geocoder. A nil cache means no memoization.
func NewGeocoder(m *maps.Maps, c cache.Cache) *Geocoder {
	if c == nil {
		c = cache.Nop{}
	}

	return &Geocoder{maps: m, cache: c}
}

type geocodeResponse struct {
	Status  string          `json:"status"`
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	PlaceID           string             `json:"place_id"`
	Types             []string           `json:"types"`
	Geometry          geometry           `json:"geometry"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// geocodeKey derives the cache key for a free-form query. The country hint
// is case-normalized so "us" and "US" share an entry.
func geocodeKey(address, countryHint string) string {
	return "geocode::" + address + "::" + strings.ToUpper(strings.TrimSpace(countryHint))
}

// flattenGeocode reduces one geocoding result into the normalized location
// shape: geometry to lat/lng, the first matching address component for each
// decomposed field, long name for the country name and short name for the
// code.
func flattenGeocode(result *geocodeResult) *Location {
	comps := result.AddressComponents

	return &Location{
		FormattedAddress: result.FormattedAddress,
		Lat:              result.Geometry.Location.Lat,
		Lng:              result.Geometry.Location.Lng,
		PlaceID:          result.PlaceID,
		Types:            joinTypes(result.Types),
		CountryCode:      component(comps, "country", false),
		CountryName:      component(comps, "country", true),
		AdminLevel1:      component(comps, "administrative_area_level_1", false),
		AdminLevel2:      component(comps, "administrative_area_level_2", false),
		Locality:         firstNonEmpty(component(comps, "locality", false), component(comps, "postal_town", false)),
		PostalCode:       component(comps, "postal_code", false),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

// Freeform geocodes a human-entered address string, optionally biased by an
// ISO-3166 country code. Fails with NotFoundError when the upstream reports
// no results.
func (g *Geocoder) Freeform(ctx context.Context, address, countryHint string) (*Location, error) {
	if strings.TrimSpace(address) == "" {
		return nil, &maps.InvalidArgumentError{Name: "address"}
	}

	key := geocodeKey(address, countryHint)
	if loc, ok := lookupLocation(ctx, g.cache, key); ok {
		return loc, nil
	}

	params := url.Values{"address": {address}}
	if hint := strings.TrimSpace(countryHint); hint != "" {
		params.Set("components", "country:"+strings.ToUpper(hint))
	}

	var resp geocodeResponse
	if err := g.maps.Request(ctx, "geocode/json", params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != "OK" || len(resp.Results) == 0 {
		return nil, &NotFoundError{Query: address}
	}

	loc := flattenGeocode(&resp.Results[0])
	storeLocation(ctx, g.cache, key, loc)

	return loc, nil
}

// CityStateCountry geocodes a structured (city, optional state, country)
// triple by joining the non-empty parts into one free-form query. A country
// bias hint is derived only when the country token is short enough to be an
// ISO-2/3 code; full country names go into the query text instead.
func (g *Geocoder) CityStateCountry(ctx context.Context, city, state, country string) (*Location, error) {
	query := joinParts(city, state, country)
	if query == "" {
		return nil, &maps.InvalidArgumentError{Name: "city/state/country"}
	}

	return g.Freeform(ctx, query, countryCodeHint(country))
}

func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, ", ")
}

func countryCodeHint(country string) string {
	country = strings.TrimSpace(country)
	if country == "" || len(country) > 3 {
		return ""
	}

	return strings.ToUpper(country)
}
