// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

// Package enrich resolves batches of rows through the fallback resolver,
// one outcome per row. A failing row never aborts the batch.
package enrich

import (
	"context"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/geogate/geogate/geocode"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Resolver is the subset of the fallback orchestrator the enricher needs.
type Resolver interface {
	Resolve(ctx context.Context, query, countryHint string) geocode.Outcome
	ResolveCityStateCountry(ctx context.Context, city, state, country string) geocode.Outcome
}

// AddressRow is a free-form address with an optional country bias.
type AddressRow struct {
	Address string
	Country string
}

// PlaceRow is a structured city/state/country triple. Any part may be empty.
type PlaceRow struct {
	City    string
	State   string
	Country string
}

// Metrics tracks per-status counts for a batch.
type Metrics struct {
	OK           int
	OKPlaces     int
	NotFound     int
	SkippedEmpty int
	Errors       int
}

// Merge combines two Metrics.
func (m *Metrics) Merge(o *Metrics) *Metrics {
	m.OK += o.OK
	m.OKPlaces += o.OKPlaces
	m.NotFound += o.NotFound
	m.SkippedEmpty += o.SkippedEmpty
	m.Errors += o.Errors

	return m
}

func (m *Metrics) observe(status geocode.Status) {
	switch status {
	case geocode.StatusOK:
		m.OK++
	case geocode.StatusOKPlaces:
		m.OKPlaces++
	case geocode.StatusNotFound:
		m.NotFound++
	case geocode.StatusSkippedEmpty:
		m.SkippedEmpty++
	default:
		m.Errors++
	}
}

// Options control batch execution.
type Options struct {
	// MaxProcs caps concurrent resolutions. Zero means one per CPU. The
	// gateway's rate limiter still paces the upstream calls.
	MaxProcs int

	// Description labels the progress bar.
	Description string
}

// Enricher runs batches through a resolver.
type Enricher struct {
	resolver Resolver
	options  Options
}

// New creates an enricher. Options may be nil.
func New(resolver Resolver, options *Options) *Enricher {
	e := &Enricher{resolver: resolver}
	if options != nil {
		e.options = *options
	}

	return e
}

// EnrichAddresses resolves free-form address rows. The returned slice is
// index-aligned with rows.
func (e *Enricher) EnrichAddresses(ctx context.Context, rows []AddressRow) ([]geocode.Outcome, *Metrics) {
	return e.run(ctx, len(rows), func(ctx context.Context, i int) geocode.Outcome {
		return e.resolver.Resolve(ctx, rows[i].Address, rows[i].Country)
	})
}

// EnrichCityStateCountry resolves structured rows. The returned slice is
// index-aligned with rows.
func (e *Enricher) EnrichCityStateCountry(ctx context.Context, rows []PlaceRow) ([]geocode.Outcome, *Metrics) {
	return e.run(ctx, len(rows), func(ctx context.Context, i int) geocode.Outcome {
		return e.resolver.ResolveCityStateCountry(ctx, rows[i].City, rows[i].State, rows[i].Country)
	})
}

func (e *Enricher) run(ctx context.Context, n int, resolve func(context.Context, int) geocode.Outcome) ([]geocode.Outcome, *Metrics) {
	maxProcs := e.options.MaxProcs
	if maxProcs == 0 {
		maxProcs = runtime.NumCPU()
	}

	description := e.options.Description
	if description == "" {
		description = "Resolving"
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxProcs)
	metricsChan := make(chan *Metrics, n)
	outcomes := make([]geocode.Outcome, n)

	for i := range n {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			outcome := resolve(ctx, i)
			outcomes[i] = outcome

			metrics := &Metrics{}
			metrics.observe(outcome.Status)
			metricsChan <- metrics

			if outcome.Err != nil {
				log.Printf("Row %d failed - %s", i, outcome.Err)
			}

			if bar != nil {
				if err := bar.Add(1); err != nil {
					log.Printf("Updating progress bar for row %d: %s", i, err)
				}
			}
		}(i)
	}

	wg.Wait()
	close(metricsChan)

	total := &Metrics{}
	for metrics := range metricsChan {
		total.Merge(metrics)
	}

	return outcomes, total
}
