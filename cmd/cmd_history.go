// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/geogate/geogate/history"
)

var historyOptions struct {
	limit int
	rings int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the lookup log",
}

var historyRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Most recent lookups, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withLookups(cmd, func(lookups history.Repository) ([]*history.Lookup, error) {
			return lookups.Recent(historyOptions.limit)
		})
	},
}

var historyNearCmd = &cobra.Command{
	Use:   "near <lat,lng>",
	Short: "Lookups resolved near a coordinate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseCoord(args[0])
		if err != nil {
			return err
		}

		return withLookups(cmd, func(lookups history.Repository) ([]*history.Lookup, error) {
			return lookups.Near(lat, lng, historyOptions.rings)
		})
	},
}

func withLookups(cmd *cobra.Command, list func(history.Repository) ([]*history.Lookup, error)) error {
	s, err := newServices(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	if s.lookups == nil {
		return errors.New("lookup history needs a durable cache; set GEOGATE_CACHE")
	}

	lookups, err := list(s.lookups)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(lookups)
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyRecentCmd)
	historyCmd.AddCommand(historyNearCmd)
	historyRecentCmd.Flags().IntVar(&historyOptions.limit, "limit", 20, "Max number of lookups to list")
	historyNearCmd.Flags().IntVar(&historyOptions.rings, "rings", 1, "Neighborhood size in hexagonal rings")
}
