// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache provides the pluggable memoization store that sits in front
// of the resolution services. Keys are strings derived from the query;
// values are JSON-encoded documents. Entries are never expired or evicted
// here; durability is a backend concern.
package cache

import (
	"context"
	"sync"
)

// Cache is the capability the resolution services depend on. Implementations
// must tolerate concurrent readers.
type Cache interface {
	// Get returns the value stored under key, or ok=false on a miss.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// Nop is the "no cache configured" state: a permanent miss that never
// errors. Services hold a Nop instead of checking for nil.
type Nop struct{}

func (Nop) Get(_ context.Context, _ string) ([]byte, bool, error) { return nil, false, nil }

func (Nop) Set(_ context.Context, _ string, _ []byte) error { return nil }

// Memory is a process-local cache; its lifetime is the process lifetime.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), value...), true, nil
}

func (c *Memory) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = append([]byte(nil), value...)

	return nil
}
