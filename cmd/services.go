// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver

	"github.com/geogate/geogate/cache"
	"github.com/geogate/geogate/config"
	"github.com/geogate/geogate/geocode"
	"github.com/geogate/geogate/history"
	"github.com/geogate/geogate/maps"
	"github.com/geogate/geogate/utils/httputils"
)

// services bundles the wired-up lookup stack the commands share.
type services struct {
	cfg      *config.Config
	db       *sql.DB
	gateway  *maps.Maps
	geocoder *geocode.Geocoder
	places   *geocode.Places
	resolver *geocode.Resolver
	lookups  history.Repository
}

// newServices builds the stack from the environment. The cache and lookup
// log are DuckDB-backed when GEOGATE_CACHE is set, in-memory otherwise.
func newServices(ctx context.Context) (*services, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}

	key, err := cfg.ResolveAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	s := &services{cfg: cfg}

	var store cache.Cache = cache.NewMemory()

	if cfg.CachePath != "" {
		s.db, err = sql.Open("duckdb", cfg.CachePath)
		if err != nil {
			return nil, fmt.Errorf("opening cache database: %w", err)
		}

		durable, err := cache.NewDuckDB(s.db)
		if err != nil {
			s.db.Close()

			return nil, fmt.Errorf("initializing cache: %w", err)
		}

		store = durable

		s.lookups = history.NewRepository(s.db)
		if err := s.lookups.CreateSchema(); err != nil {
			s.db.Close()

			return nil, fmt.Errorf("creating lookup log schema: %w", err)
		}
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = -1
	}

	s.gateway = maps.New(&maps.Options{
		APIKey:     key,
		QPS:        cfg.QPS,
		MaxRetries: retries,
		HTTPClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport(),
		},
	})

	s.geocoder = geocode.NewGeocoder(s.gateway, store)
	s.places = geocode.NewPlaces(s.gateway, store)
	s.resolver = geocode.NewResolver(s.geocoder, s.places)

	return s, nil
}

func (s *services) close() {
	if s.db != nil {
		s.db.Close()
	}
}

// transport decorates the default transport with a User-Agent and, when
// requested, HTTP tracing.
func transport() http.RoundTripper {
	var rt http.RoundTripper = &httputils.AppendRequestHeadersRoundTripper{
		Transport: http.DefaultTransport,
		Headers: map[string]string{
			"User-Agent": fmt.Sprintf("geogate/%s (+https://github.com/geogate/geogate)", Version),
		},
	}

	if rootOptions.traceHTTP || rootOptions.traceHTTPBody {
		rt = &httputils.LoggingRoundTripper{
			Transport: rt,
			Writer:    os.Stderr,
			DumpBody:  rootOptions.traceHTTPBody,
		}
	}

	return rt
}

// parseCoord splits a "lat,lng" argument.
func parseCoord(arg string) (float64, float64, error) {
	parts := strings.SplitN(arg, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected lat,lng but got %q", arg)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing latitude %q: %w", parts[0], err)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing longitude %q: %w", parts[1], err)
	}

	return lat, lng, nil
}
