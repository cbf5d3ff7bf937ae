// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
)

// Status tags a resolution outcome. Batch callers record it per row.
type Status string

const (
	// StatusOK means the geocoder succeeded.
	StatusOK Status = "ok"
	// StatusOKPlaces means the text-search fallback succeeded.
	StatusOKPlaces Status = "ok_places"
	// StatusNotFound means both services reported no such place.
	StatusNotFound Status = "not_found"
	// StatusSkippedEmpty means there was no usable input and no upstream
	// call was made.
	StatusSkippedEmpty Status = "skipped_empty"
	// StatusError means a service failed for a reason other than "no such
	// place" (transport outage, invalid argument). Err carries the cause.
	StatusError Status = "error"
)

// Outcome is the tagged result of an orchestrated lookup. A not-found
// outcome carries a nil Location, never a partially populated one.
type Outcome struct {
	Status   Status    `json:"status"`
	Location *Location `json:"location,omitempty"`
	Err      error     `json:"-"`
}

// Resolver composes the geocoder with the place resolver: structured or
// free-form geocoding first, text-search fallback second. The fallback
// triggers only on a not-found outcome from the geocoder; a transport
// failure is reported as an error rather than masked by a second lookup
// that would be just as likely to fail.
type Resolver struct {
	geocoder *Geocoder
	places   *Places
}

// NewResolver creates a fallback orchestrator over the two services.
func NewResolver(geocoder *Geocoder, places *Places) *Resolver {
	return &Resolver{geocoder: geocoder, places: places}
}

// Resolve looks up a free-form query, falling back to place text search
// when geocoding finds nothing.
func (r *Resolver) Resolve(ctx context.Context, query, countryHint string) Outcome {
	if joinParts(query) == "" {
		return Outcome{Status: StatusSkippedEmpty}
	}

	loc, err := r.geocoder.Freeform(ctx, query, countryHint)

	return r.fallback(ctx, query, countryHint, loc, err)
}

// ResolveCityStateCountry looks up a structured triple, falling back to a
// text search over the same joined query.
func (r *Resolver) ResolveCityStateCountry(ctx context.Context, city, state, country string) Outcome {
	query := joinParts(city, state, country)
	if query == "" {
		return Outcome{Status: StatusSkippedEmpty}
	}

	loc, err := r.geocoder.CityStateCountry(ctx, city, state, country)

	return r.fallback(ctx, query, countryCodeHint(country), loc, err)
}

func (r *Resolver) fallback(ctx context.Context, query, countryHint string, loc *Location, err error) Outcome {
	if err == nil {
		return Outcome{Status: StatusOK, Location: loc}
	}

	if !IsNotFound(err) {
		return Outcome{Status: StatusError, Err: err}
	}

	loc, err = r.places.TextToLocation(ctx, query, countryHint)
	if err == nil {
		return Outcome{Status: StatusOKPlaces, Location: loc}
	}

	if IsNotFound(err) {
		return Outcome{Status: StatusNotFound}
	}

	return Outcome{Status: StatusError, Err: err}
}
