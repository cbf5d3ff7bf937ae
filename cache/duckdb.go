// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DuckDB is the durable cache variant: a single key-value table in an
// embedded DuckDB database. Writes are upserts keyed by primary key,
// last-writer-wins.
type DuckDB struct {
	db *sql.DB
}

// NewDuckDB wraps an open DuckDB handle, creating the kv table if absent.
// The same handle may back other stores; the table is namespaced to this
// cache.
func NewDuckDB(db *sql.DB) (*DuckDB, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS geocode_cache (
			k VARCHAR PRIMARY KEY,
			v VARCHAR NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &DuckDB{db: db}, nil
}

func (c *DuckDB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string

	err := c.db.QueryRowContext(ctx, `SELECT v FROM geocode_cache WHERE k = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}

	return []byte(value), true, nil
}

func (c *DuckDB) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO geocode_cache (k, v) VALUES (?, ?)`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	return nil
}
