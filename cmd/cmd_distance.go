// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/geogate/geogate/geocode"
)

var distanceMode string

var distanceCmd = &cobra.Command{
	Use:   "distance <origin> <destination>",
	Short: "Distance and travel time between two places",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		summary, err := geocode.NewDistanceMatrix(s.gateway).Summary(
			cmd.Context(),
			args[0],
			args[1],
			geocode.Mode(distanceMode),
		)
		if err != nil {
			return err
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(summary)
	},
}

func init() {
	rootCmd.AddCommand(distanceCmd)
	distanceCmd.Flags().StringVar(
		&distanceMode,
		"mode",
		string(geocode.ModeDriving),
		"Travel mode: driving, walking, bicycling or transit",
	)
}
