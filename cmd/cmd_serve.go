// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/geogate/geogate/geocode"
	"github.com/geogate/geogate/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lookup services over a JSON API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newServices(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		if s.lookups == nil {
			log.Print("GEOGATE_CACHE is not set; lookup history is disabled")
		}

		log.Printf("Listening on %s", s.cfg.Addr)

		return server.New(
			s.geocoder,
			s.resolver,
			geocode.NewDistanceMatrix(s.gateway),
			geocode.NewTimezone(s.gateway),
			geocode.NewStaticMap(s.cfg.APIKey),
			s.lookups,
			s.cfg.Addr,
		).Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
