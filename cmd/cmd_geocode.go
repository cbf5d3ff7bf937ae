// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geogate/geogate/geocode"
	"github.com/geogate/geogate/history"
)

var geocodeOptions struct {
	country string
	city    string
	state   string
	ctry    string
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode [query]",
	Short: "Resolve an address or place name to a location",
	Long: `
Resolve a free-form query (or a --city/--state/--ctry triple) through the
geocoder, falling back to place text search when geocoding finds nothing.
Prints the tagged outcome as JSON.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		structured := geocodeOptions.city != "" || geocodeOptions.state != "" || geocodeOptions.ctry != ""

		if len(args) == 0 && !structured {
			return errors.New("either a query argument or --city/--state/--ctry is required")
		}

		if len(args) > 0 && structured {
			return errors.New("a query argument and --city/--state/--ctry are mutually exclusive")
		}

		s, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		var outcome geocode.Outcome

		if structured {
			outcome = s.resolver.ResolveCityStateCountry(
				cmd.Context(),
				geocodeOptions.city,
				geocodeOptions.state,
				geocodeOptions.ctry,
			)
		} else {
			outcome = s.resolver.Resolve(cmd.Context(), args[0], geocodeOptions.country)
		}

		if outcome.Status == geocode.StatusError {
			return outcome.Err
		}

		recordLookup(s, lookupQuery(args, structured), outcome)

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(outcome)
	},
}

func lookupQuery(args []string, structured bool) string {
	if !structured {
		return args[0]
	}

	parts := []string{}

	for _, part := range []string{geocodeOptions.city, geocodeOptions.state, geocodeOptions.ctry} {
		if s := strings.TrimSpace(part); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
	geocodeCmd.Flags().StringVar(
		&geocodeOptions.country,
		"country",
		"",
		"ISO country code biasing the geocoder (e.g. fr)",
	)
	geocodeCmd.Flags().StringVar(&geocodeOptions.city, "city", "", "City of a structured lookup")
	geocodeCmd.Flags().StringVar(&geocodeOptions.state, "state", "", "State or province of a structured lookup")
	geocodeCmd.Flags().StringVar(&geocodeOptions.ctry, "ctry", "", "Country of a structured lookup")
}

func recordLookup(s *services, query string, outcome geocode.Outcome) {
	if s.lookups == nil || strings.TrimSpace(query) == "" || outcome.Status == geocode.StatusError {
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

	if err := s.lookups.Record(lookup); err != nil {
		log.Printf("Recording lookup - %s", err)
	}
}
