// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

// Package config assembles runtime settings from the environment. Nothing
// else in the module reads environment variables; services take explicit
// values through their constructors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultQPS        = 5.0
	DefaultMaxRetries = 5
	DefaultTimeout    = 15 * time.Second
	DefaultAddr       = ":8080"
)

// Config carries the settings the services need.
type Config struct {
	// APIKey authenticates upstream calls. May be empty; see ResolveAPIKey.
	APIKey string

	// QPS caps the upstream request rate. Non-positive disables the cap.
	QPS float64

	// MaxRetries bounds retry attempts after the first try.
	MaxRetries int

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration

	// CachePath is the DuckDB file backing the cache and lookup log. Empty
	// means in-memory only.
	CachePath string

	// Addr is the listen address of the interactive server.
	Addr string
}

// FromEnv builds a Config from GOOGLE_MAPS_API_KEY, GEOGATE_QPS,
// GEOGATE_MAX_RETRIES, GEOGATE_TIMEOUT, GEOGATE_CACHE and GEOGATE_ADDR,
// applying defaults for whatever is unset.
func FromEnv() (*Config, error) {
	cfg := &Config{
		APIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		QPS:        DefaultQPS,
		MaxRetries: DefaultMaxRetries,
		Timeout:    DefaultTimeout,
		CachePath:  os.Getenv("GEOGATE_CACHE"),
		Addr:       DefaultAddr,
	}

	if s := os.Getenv("GEOGATE_QPS"); s != "" {
		qps, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing GEOGATE_QPS %q: %w", s, err)
		}

		cfg.QPS = qps
	}

	if s := os.Getenv("GEOGATE_MAX_RETRIES"); s != "" {
		retries, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("parsing GEOGATE_MAX_RETRIES %q: %w", s, err)
		}

		cfg.MaxRetries = retries
	}

	if s := os.Getenv("GEOGATE_TIMEOUT"); s != "" {
		timeout, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("parsing GEOGATE_TIMEOUT %q: %w", s, err)
		}

		cfg.Timeout = timeout
	}

	if s := os.Getenv("GEOGATE_ADDR"); s != "" {
		cfg.Addr = s
	}

	return cfg, nil
}
