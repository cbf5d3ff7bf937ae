// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/geogate/geogate/enrich"
	"github.com/geogate/geogate/geocode"
)

var enrichOptions struct {
	country  string
	maxProcs int
}

// enrichLine is one output record: the input query plus its outcome.
type enrichLine struct {
	Query    string            `json:"query"`
	Status   geocode.Status    `json:"status"`
	Location *geocode.Location `json:"location,omitempty"`
}

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Resolve a batch of queries read from stdin",
	Long: `
Read one query per line from stdin and resolve each through the fallback
orchestrator. Writes one JSON object per line to stdout, index-aligned with
the input; a failing line never aborts the batch. Shows a progress bar on a
terminal.
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var rows []enrich.AddressRow

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			rows = append(rows, enrich.AddressRow{
				Address: scanner.Text(),
				Country: enrichOptions.country,
			})
		}

		if err := scanner.Err(); err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}

		s, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		enricher := enrich.New(s.resolver, &enrich.Options{
			MaxProcs:    enrichOptions.maxProcs,
			Description: "Resolving queries",
		})

		outcomes, metrics := enricher.EnrichAddresses(cmd.Context(), rows)

		encoder := json.NewEncoder(os.Stdout)

		for i, outcome := range outcomes {
			recordLookup(s, rows[i].Address, outcome)

			err := encoder.Encode(enrichLine{
				Query:    rows[i].Address,
				Status:   outcome.Status,
				Location: outcome.Location,
			})
			if err != nil {
				return err
			}
		}

		log.Printf(
			"Enrichment complete - %d ok, %d via places, %d not found, %d skipped, %d errors from %d rows",
			metrics.OK,
			metrics.OKPlaces,
			metrics.NotFound,
			metrics.SkippedEmpty,
			metrics.Errors,
			len(rows),
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringVar(
		&enrichOptions.country,
		"country",
		"",
		"ISO country code biasing every query (e.g. fr)",
	)
	enrichCmd.Flags().IntVar(
		&enrichOptions.maxProcs,
		"max-procs",
		0,
		"Max number of concurrent resolutions. Defaults to the number of CPUs",
	)
}
