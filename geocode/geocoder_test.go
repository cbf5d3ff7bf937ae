// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"context"
	"testing"

	"github.com/geogate/geogate/cache"
	"github.com/geogate/geogate/maps"
	"github.com/google/go-cmp/cmp"
)

func TestFreeformFlattensFirstResult(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.respond("/geocode/json", geocodeParisBody)

	geocoder := NewGeocoder(upstream.gateway(), nil)

	got, err := geocoder.Freeform(context.Background(), "Paris", "")
	if err != nil {
		t.Fatalf("Freeform() error = %v", err)
	}

	want := &Location{
		FormattedAddress: "Paris, France",
		Lat:              float64ptr(48.856614),
		Lng:              float64ptr(2.3522219),
		PlaceID:          "ChIJD7fiBh9u5kcRYJSMaMOCCwQ",
		Types:            "locality,political",
		CountryCode:      "FR",
		CountryName:      "France",
		AdminLevel1:      "IDF",
		AdminLevel2:      "75",
		Locality:         "Paris",
		PostalCode:       "75001",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Freeform() mismatch (-want +got):\n%s", diff)
	}
}

func TestFreeformPostalTownFallback(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.respond("/geocode/json", `{
		"status": "OK",
		"results": [{
			"formatted_address": "Cambridge, UK",
			"geometry": {"location": {"lat": 52.2053, "lng": 0.1218}},
			"address_components": [
				{"long_name": "Cambridge", "short_name": "Cambridge", "types": ["postal_town"]},
				{"long_name": "United Kingdom", "short_name": "GB", "types": ["country", "political"]}
			]
		}]
	}`)

	geocoder := NewGeocoder(upstream.gateway(), nil)

	got, err := geocoder.Freeform(context.Background(), "Cambridge", "")
	if err != nil {
		t.Fatalf("Freeform() error = %v", err)
	}

	if got.Locality != "Cambridge" {
		t.Errorf("Locality = %q, want postal_town fallback Cambridge", got.Locality)
	}
}

func TestFreeformNotFound(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.respond("/geocode/json", zeroResultsBody)

	geocoder := NewGeocoder(upstream.gateway(), nil)

	_, err := geocoder.Freeform(context.Background(), "xyzzy nowhere", "")
	if !IsNotFound(err) {
		t.Errorf("Freeform() error = %v, want NotFoundError", err)
	}
}

func TestFreeformCountryBias(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.respond("/geocode/json", geocodeParisBody)

	geocoder := NewGeocoder(upstream.gateway(), nil)

	if _, err := geocoder.Freeform(context.Background(), "Paris", "fr"); err != nil {
		t.Fatalf("Freeform() error = %v", err)
	}

	q := upstream.query("/geocode/json")
	if got := q.Get("components"); got != "country:FR" {
		t.Errorf("components = %q, want country:FR", got)
	}

	if got := q.Get("address"); got != "Paris" {
		t.Errorf("address = %q, want Paris", got)
	}
}

func TestFreeformCacheHitSkipsUpstream(t *testing.T) {
	upstream := newFakeUpstream(t)
	upstream.respond("/geocode/json", geocodeParisBody)

	geocoder := NewGeocoder(upstream.gateway(), cache.NewMemory())
	ctx := context.Background()

	first, err := geocoder.Freeform(ctx, "123 Main St", "us")
	if err != nil {
		t.Fatalf("first Freeform() error = %v", err)
	}

	// The country hint is case-normalized in the key, so "US" hits the
	// entry written under "us".
	second, err := geocoder.Freeform(ctx, "123 Main St", "US")
	if err != nil {
		t.Fatalf("second Freeform() error = %v", err)
	}

	if got := upstream.count("/geocode/json"); got != 1 {
		t.Errorf("upstream calls = %d, want 1", got)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached location mismatch (-first +second):\n%s", diff)
	}
}

func TestFreeformEmptyAddress(t *testing.T) {
	geocoder := NewGeocoder(maps.New(&maps.Options{QPS: -1}), nil)

	_, err := geocoder.Freeform(context.Background(), "   ", "")
	if !maps.IsInvalidArgument(err) {
		t.Errorf("Freeform() error = %v, want InvalidArgumentError", err)
	}
}

func TestCityStateCountry(t *testing.T) {
	tests := []struct {
		name          string
		city          string
		state         string
		country       string
		wantAddress   string
		wantComponent string
	}{
		{
			"short country code becomes a bias hint",
			"Newcastle", "NSW", "au",
			"Newcastle, NSW, au", "country:AU",
		},
		{
			"full country name stays in the query",
			"Springfield", "", "United States",
			"Springfield, United States", "",
		},
		{
			"blank state is dropped from the query",
			"Montevideo", " ", "UY",
			"Montevideo, UY", "country:UY",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			upstream := newFakeUpstream(t)
			upstream.respond("/geocode/json", geocodeParisBody)

			geocoder := NewGeocoder(upstream.gateway(), nil)

			_, err := geocoder.CityStateCountry(context.Background(), test.city, test.state, test.country)
			if err != nil {
				t.Fatalf("CityStateCountry() error = %v", err)
			}

			q := upstream.query("/geocode/json")
			if got := q.Get("address"); got != test.wantAddress {
				t.Errorf("address = %q, want %q", got, test.wantAddress)
			}

			if got := q.Get("components"); got != test.wantComponent {
				t.Errorf("components = %q, want %q", got, test.wantComponent)
			}
		})
	}
}

func TestCityStateCountryAllEmpty(t *testing.T) {
	geocoder := NewGeocoder(maps.New(&maps.Options{QPS: -1}), nil)

	_, err := geocoder.CityStateCountry(context.Background(), "", "", "")
	if !maps.IsInvalidArgument(err) {
		t.Errorf("CityStateCountry() error = %v, want InvalidArgumentError", err)
	}
}

func TestGeocodeKeyNormalization(t *testing.T) {
	if geocodeKey("123 Main St", "us") != geocodeKey("123 Main St", "US") {
		t.Error("cache keys differ for us/US country hints")
	}

	if geocodeKey("123 Main St", "us") == geocodeKey("123 main st", "us") {
		t.Error("cache keys must not case-fold the address itself")
	}
}
