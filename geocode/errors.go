// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package geocode

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a well-formed upstream response carrying zero
// usable results: "no such place", as opposed to "the service failed". Only
// this class of failure triggers the text-search fallback.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no location found for %q", e.Query)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError

	return errors.As(err, &nfErr)
}
