// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package main is the entry point for the openEO backend CLI.
package main

import (
	"os"

	"github.com/eodcgmbh/openeo-backend/cmd/openeo/app"
	"github.com/eodcgmbh/openeo-backend/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
