// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the openeo command-line
// application.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eodcgmbh/openeo-backend/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:               "openeo",
	DisableAutoGenTag: true,
	Short:             "openeo runs a spec-conformant openEO data-processing API backend",
	Long: `openeo runs a spec-conformant openEO data-processing API backend.

The backend stores users, batch jobs and saved process graphs in a local
SQLite database and authenticates requests against a configurable OIDC
identity provider.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
}

// NewRootCmd creates a new root command for the openeo CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

func configFileFlag(cmd *cobra.Command) string {
	configFile, _ := cmd.Flags().GetString("config")
	return configFile
}
