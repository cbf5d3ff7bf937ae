// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootOptions struct {
	traceHTTP     bool
	traceHTTPBody bool
}

var rootCmd = &cobra.Command{
	Use:   "geogate",
	Short: "rate-limited, cached gateway to the Google Maps web services",
	Long: `
geogate geocodes addresses and place names through the Google Maps web
services, with client-side rate limiting, retries and a memoization cache so
repeated lookups never hit the network twice.
`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(
		&rootOptions.traceHTTP,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	rootCmd.PersistentFlags().BoolVar(
		&rootOptions.traceHTTPBody,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}

var Version = "dev"

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
