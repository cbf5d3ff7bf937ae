// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geogate/geogate/geocode"
)

var timezoneCmd = &cobra.Command{
	Use:   "timezone <lat,lng>",
	Short: "IANA time zone at a coordinate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseCoord(args[0])
		if err != nil {
			return err
		}

		s, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		zone, err := geocode.NewTimezone(s.gateway).Lookup(cmd.Context(), lat, lng)
		if err != nil {
			return err
		}

		fmt.Println(zone)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(timezoneCmd)
}
