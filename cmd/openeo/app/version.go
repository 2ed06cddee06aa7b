// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eodcgmbh/openeo-backend/pkg/versions"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the backend version",
	Long:  "Show the version, commit and build date of this binary.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := versions.GetVersionInfo()

		if versionFormat == "json" {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			cmd.Println(string(out))
			return nil
		}

		cmd.Printf("Version: %s\n", info.Version)
		cmd.Printf("Commit: %s\n", info.Commit)
		cmd.Printf("Build date: %s\n", info.BuildDate)
		cmd.Printf("Go version: %s\n", info.GoVersion)
		cmd.Printf("Platform: %s\n", info.Platform)
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "text", "Output format (text or json)")
}
