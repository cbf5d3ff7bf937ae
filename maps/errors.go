// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package maps

import (
	"errors"
	"fmt"
	"net/http"
)

// GatewayError is the normalized failure for an outbound call: a transport
// error or non-2xx response after the retry budget, or any non-retryable
// HTTP status. Status is 0 for pure transport failures.
type GatewayError struct {
	Status int
	Body   string // first 200 bytes of the response body
	Err    error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("HTTP %d: %v", e.Status, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError reports whether err is (or wraps) a GatewayError.
func IsGatewayError(err error) bool {
	var gwErr *GatewayError

	return errors.As(err, &gwErr)
}

// InvalidArgumentError indicates a caller supplied an empty required field.
// It is local to the call and never retried.
type InvalidArgumentError struct {
	Name string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("argument %q cannot be empty", e.Name)
}

// IsInvalidArgument reports whether err is (or wraps) an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var argErr *InvalidArgumentError

	return errors.As(err, &argErr)
}

// Statuses expected to resolve on retry.
func transientStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout, // 408
		http.StatusTooManyRequests,     // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	}

	return false
}
