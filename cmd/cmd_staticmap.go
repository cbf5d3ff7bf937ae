// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geogate/geogate/config"
	"github.com/geogate/geogate/geocode"
)

var staticmapOptions struct {
	zoom int
	size string
}

var staticmapCmd = &cobra.Command{
	Use:   "staticmap <lat,lng>",
	Short: "URL of a static map image with a pin at a coordinate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseCoord(args[0])
		if err != nil {
			return err
		}

		// URL building needs only the key, not the whole stack.
		key, err := staticmapKey(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println(geocode.NewStaticMap(key).Pin(lat, lng, staticmapOptions.zoom, staticmapOptions.size))

		return nil
	},
}

func staticmapKey(ctx context.Context) (string, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return "", err
	}

	return cfg.ResolveAPIKey(ctx)
}

func init() {
	rootCmd.AddCommand(staticmapCmd)
	staticmapCmd.Flags().IntVar(&staticmapOptions.zoom, "zoom", 0, "Zoom level. Defaults to 12")
	staticmapCmd.Flags().StringVar(&staticmapOptions.size, "size", "", "Image size as WxH. Defaults to 400x300")
}
