// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package history

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldQuery normalizes a lookup query for accent-insensitive matching:
// accents removed, lowercased, trimmed. "São Paulo" and "sao paulo" fold to
// the same string.
func foldQuery(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}
