// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package maps

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter enforces a rough max-queries-per-second ceiling for outbound
// calls. It is a token bucket with burst 1, so two consecutive permitted
// calls are separated by at least 1/qps. Safe for concurrent use; a nil or
// zero-rate limiter never waits.
type Limiter struct {
	rl *rate.Limiter
}

// NewLimiter creates a limiter for the given queries-per-second cap.
// qps <= 0 disables throttling.
func NewLimiter(qps float64) *Limiter {
	if qps <= 0 {
		return &Limiter{}
	}

	return &Limiter{rl: rate.NewLimiter(rate.Limit(qps), 1)}
}

// Wait blocks until it is safe to issue the next call, or until ctx is
// cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.rl == nil {
		return nil
	}

	return l.rl.Wait(ctx)
}
