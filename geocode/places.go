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

// detailsFields is the fixed field set requested from Place Details.
const detailsFields = "formatted_address,geometry,address_component,place_id,type"

// Places recovers locations that plain geocoding misses by running a Places
// Text Search and promoting the top candidate through Place Details into the
// normalized location shape.
type Places struct {
	maps  *maps.Maps
	cache cache.Cache
}

// NewPlaces creates a place resolver. A nil cache means no memoization.
func NewPlaces(m *maps.Maps, c cache.Cache) *Places {
	if c == nil {
		c = cache.Nop{}
	}

	return &Places{maps: m, cache: c}
}

type textSearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID string `json:"place_id"`
	} `json:"results"`
}

type placeDetailsResponse struct {
	Result struct {
		FormattedAddress  string             `json:"formatted_address"`
		PlaceID           string             `json:"place_id"`
		Types             []string           `json:"types"`
		Geometry          geometry           `json:"geometry"`
		AddressComponents []AddressComponent `json:"address_components"`
	} `json:"result"`
}

func placesKey(query, countryHint string) string {
	return "places::" + query + "::" + strings.ToUpper(strings.TrimSpace(countryHint))
}

// TextToLocation resolves an arbitrary text query (e.g. "Newcastle, NSW,
// AU") into a normalized location. Fails with NotFoundError when no
// candidate exists or the top candidate lacks a place id. Unlike the
// geocoding path, the raw address_components are kept verbatim.
func (p *Places) TextToLocation(ctx context.Context, query, countryHint string) (*Location, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &maps.InvalidArgumentError{Name: "query"}
	}

	key := placesKey(query, countryHint)
	if loc, ok := lookupLocation(ctx, p.cache, key); ok {
		return loc, nil
	}

	params := url.Values{"query": {query}}
	if hint := strings.TrimSpace(countryHint); hint != "" {
		params.Set("region", strings.ToUpper(hint))
	}

	var search textSearchResponse
	if err := p.maps.Request(ctx, "place/textsearch/json", params, &search); err != nil {
		return nil, err
	}

	if len(search.Results) == 0 {
		return nil, &NotFoundError{Query: query}
	}

	placeID := search.Results[0].PlaceID
	if placeID == "" {
		return nil, &NotFoundError{Query: query}
	}

	var details placeDetailsResponse

	err := p.maps.Request(ctx, "place/details/json", url.Values{
		"place_id": {placeID},
		"fields":   {detailsFields},
	}, &details)
	if err != nil {
		return nil, err
	}

	result := details.Result
	loc := &Location{
		FormattedAddress:  result.FormattedAddress,
		Lat:               result.Geometry.Location.Lat,
		Lng:               result.Geometry.Location.Lng,
		PlaceID:           result.PlaceID,
		Types:             joinTypes(result.Types),
		AddressComponents: result.AddressComponents,
	}

	storeLocation(ctx, p.cache, key, loc)

	return loc, nil
}
