// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

// Package history persists a log of resolved lookups so interactive callers
// can revisit what was already asked, and find earlier answers near a
// coordinate without another upstream call.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uber/h3-go/v4"
)

// h3Res is the indexing resolution for the near-lookup; res 7 cells are
// roughly neighborhood sized.
const h3Res = 7

// Lookup is one recorded resolution.
type Lookup struct {
	ID        int       `json:"id"`
	Query     string    `json:"query"`
	Status    string    `json:"status"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	cell int64
}

func (l *Lookup) computeCell() error {
	l.cell = 0

	if l.Lat == nil || l.Lng == nil {
		return nil
	}

	cell, err := h3.LatLngToCell(h3.NewLatLng(*l.Lat, *l.Lng), h3Res)
	if err != nil {
		return fmt.Errorf("converting to h3 cell: %w", err)
	}

	l.cell = int64(cell)

	return nil
}

// Repository handles persistence of the lookup log.
type Repository interface {
	// CreateSchema creates the lookups table if absent.
	CreateSchema() error

	// Record appends one resolved lookup.
	Record(lookup *Lookup) error

	// Recent returns the most recent lookups, newest first.
	Recent(limit int) ([]*Lookup, error)

	// Near returns located lookups whose H3 cell falls within the given
	// number of rings around the coordinate, newest first.
	Near(lat, lng float64, rings int) ([]*Lookup, error)
}

type sqlLookupRepository struct {
	db *sql.DB
}

// NewRepository creates a lookup repository over an open DuckDB handle.
func NewRepository(db *sql.DB) Repository {
	return &sqlLookupRepository{db: db}
}

func (r *sqlLookupRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS lookups_seq START 1;

		CREATE TABLE IF NOT EXISTS lookups (
			id INTEGER PRIMARY KEY DEFAULT nextval('lookups_seq'),
			query VARCHAR NOT NULL,
			query_folded VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			lat DOUBLE,
			lng DOUBLE,
			h3_res7 UBIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	return err
}

func (r *sqlLookupRepository) Record(lookup *Lookup) error {
	if strings.TrimSpace(lookup.Query) == "" {
		return fmt.Errorf("lookup query can't be empty")
	}

	if err := lookup.computeCell(); err != nil {
		return err
	}

	if lookup.CreatedAt.IsZero() {
		lookup.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO lookups (query, query_folded, status, lat, lng, h3_res7, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		lookup.Query,
		foldQuery(lookup.Query),
		lookup.Status,
		lookup.Lat,
		lookup.Lng,
		lookup.cell,
		lookup.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording lookup: %w", err)
	}

	return nil
}

func (r *sqlLookupRepository) Recent(limit int) ([]*Lookup, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, query, status, lat, lng, created_at
		FROM lookups
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent lookups: %w", err)
	}

	return scanLookups(rows)
}

func (r *sqlLookupRepository) Near(lat, lng float64, rings int) ([]*Lookup, error) {
	if rings < 0 {
		rings = 0
	}

	center, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), h3Res)
	if err != nil {
		return nil, fmt.Errorf("converting to h3 cell: %w", err)
	}

	disk, err := h3.GridDisk(center, rings)
	if err != nil {
		return nil, fmt.Errorf("computing grid disk: %w", err)
	}

	placeholders := make([]string, len(disk))
	args := make([]any, len(disk))

	for i, cell := range disk {
		placeholders[i] = "?"
		args[i] = int64(cell)
	}

	query := fmt.Sprintf(`
		SELECT id, query, status, lat, lng, created_at
		FROM lookups
		WHERE lat IS NOT NULL AND h3_res7 IN (%s)
		ORDER BY id DESC
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing nearby lookups: %w", err)
	}

	return scanLookups(rows)
}

func scanLookups(rows *sql.Rows) ([]*Lookup, error) {
	defer rows.Close()

	var lookups []*Lookup

	for rows.Next() {
		lookup := &Lookup{}

		err := rows.Scan(
			&lookup.ID,
			&lookup.Query,
			&lookup.Status,
			&lookup.Lat,
			&lookup.Lng,
			&lookup.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning lookup: %w", err)
		}

		lookups = append(lookups, lookup)
	}

	return lookups, rows.Err()
}
