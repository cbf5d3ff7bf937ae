// Copyright 2025 The Geogate Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/geogate/geogate/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
