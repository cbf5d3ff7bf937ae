// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes the lookup services over a small JSON API for
// interactive use. Callers see locations and tagged outcomes, never the raw
// upstream payloads.
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geogate/geogate/geocode"
	"github.com/geogate/geogate/history"
	"github.com/geogate/geogate/maps"
)

// Server wires the lookup services to HTTP routes.
type Server struct {
	geocoder *geocode.Geocoder
	resolver *geocode.Resolver
	distance *geocode.DistanceMatrix
	timezone *geocode.Timezone
	static   *geocode.StaticMap
	lookups  history.Repository
	addr     string
}

// New creates a server. lookups may be nil to disable the history routes and
// recording.
func New(
	geocoder *geocode.Geocoder,
	resolver *geocode.Resolver,
	distance *geocode.DistanceMatrix,
	timezone *geocode.Timezone,
	static *geocode.StaticMap,
	lookups history.Repository,
	addr string,
) *Server {
	return &Server{
		geocoder: geocoder,
		resolver: resolver,
		distance: distance,
		timezone: timezone,
		static:   static,
		lookups:  lookups,
		addr:     addr,
	}
}

// Run registers the routes and serves until the listener fails.
func (s *Server) Run() error {
	r := gin.Default()
	s.register(r)

	return r.Run(s.addr)
}

func (s *Server) register(r *gin.Engine) {
	r.GET("/api/geocode", s.getGeocode)
	r.GET("/api/resolve", s.getResolve)
	r.GET("/api/distance", s.getDistance)
	r.GET("/api/timezone", s.getTimezone)
	r.GET("/api/staticmap", s.getStaticMap)

	if s.lookups != nil {
		r.GET("/api/history/recent", s.getHistoryRecent)
		r.GET("/api/history/near", s.getHistoryNear)
	}
}

func (s *Server) getGeocode(ctx *gin.Context) {
	loc, err := s.geocoder.Freeform(ctx.Request.Context(), ctx.Query("q"), ctx.Query("country"))
	if err != nil {
		writeError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, loc)
}

func (s *Server) getResolve(ctx *gin.Context) {
	var outcome geocode.Outcome

	query := ctx.Query("q")
	if query != "" {
		outcome = s.resolver.Resolve(ctx.Request.Context(), query, ctx.Query("country"))
	} else {
		city, state, country := ctx.Query("city"), ctx.Query("state"), ctx.Query("ctry")
		query = joinNonEmpty(city, state, country)
		outcome = s.resolver.ResolveCityStateCountry(ctx.Request.Context(), city, state, country)
	}

	s.record(query, outcome)

	if outcome.Status == geocode.StatusError {
		ctx.JSON(http.StatusBadGateway, gin.H{
			"status": outcome.Status,
			"error":  outcome.Err.Error(),
		})

		return
	}

	ctx.JSON(http.StatusOK, outcome)
}

func (s *Server) getDistance(ctx *gin.Context) {
	summary, err := s.distance.Summary(
		ctx.Request.Context(),
		ctx.Query("origin"),
		ctx.Query("destination"),
		geocode.Mode(ctx.Query("mode")),
	)
	if err != nil {
		writeError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, summary)
}

func (s *Server) getTimezone(ctx *gin.Context) {
	lat, lng, ok := coordinateParams(ctx)
	if !ok {
		return
	}

	zone, err := s.timezone.Lookup(ctx.Request.Context(), lat, lng)
	if err != nil {
		writeError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"time_zone_id": zone})
}

func (s *Server) getStaticMap(ctx *gin.Context) {
	lat, lng, ok := coordinateParams(ctx)
	if !ok {
		return
	}

	zoom, _ := strconv.Atoi(ctx.Query("zoom"))

	ctx.JSON(http.StatusOK, gin.H{
		"url": s.static.Pin(lat, lng, zoom, ctx.Query("size")),
	})
}

func (s *Server) getHistoryRecent(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	lookups, err := s.lookups.Recent(limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if lookups == nil {
		lookups = []*history.Lookup{}
	}

	ctx.JSON(http.StatusOK, lookups)
}

func (s *Server) getHistoryNear(ctx *gin.Context) {
	lat, lng, ok := coordinateParams(ctx)
	if !ok {
		return
	}

	rings, _ := strconv.Atoi(ctx.Query("rings"))

	lookups, err := s.lookups.Near(lat, lng, rings)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if lookups == nil {
		lookups = []*history.Lookup{}
	}

	ctx.JSON(http.StatusOK, lookups)
}

// record appends the outcome to the lookup log. Logging failures are not the
// caller's problem; gin already logged the request.
func (s *Server) record(query string, outcome geocode.Outcome) {
	if s.lookups == nil || query == "" || outcome.Status == geocode.StatusError {
		return
	}

	lookup := &history.Lookup{
		Query:  query,
		Status: string(outcome.Status),
	}

	if outcome.Location != nil {
		lookup.Lat = outcome.Location.Lat
		lookup.Lng = outcome.Location.Lng
	}

	_ = s.lookups.Record(lookup)
}

func coordinateParams(ctx *gin.Context) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(ctx.Query("lat"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lat query parameter is required"})

		return 0, 0, false
	}

	lng, err := strconv.ParseFloat(ctx.Query("lng"), 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "lng query parameter is required"})

		return 0, 0, false
	}

	return lat, lng, true
}

func joinNonEmpty(parts ...string) string {
	joined := ""

	for _, part := range parts {
		if part == "" {
			continue
		}

		if joined != "" {
			joined += ", "
		}

		joined += part
	}

	return joined
}

func writeError(ctx *gin.Context, err error) {
	switch {
	case maps.IsInvalidArgument(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case geocode.IsNotFound(err):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
