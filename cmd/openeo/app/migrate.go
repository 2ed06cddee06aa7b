// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/spf13/cobra"

	"github.com/eodcgmbh/openeo-backend/pkg/config"
	"github.com/eodcgmbh/openeo-backend/pkg/logger"
	"github.com/eodcgmbh/openeo-backend/pkg/storage/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFileFlag(cmd))
		if err != nil {
			return err
		}

		// Opening the database applies all pending migrations.
		db, err := sqlite.Open(cmd.Context(), cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Infof("database at %s is up to date", cfg.DatabasePath)
		return nil
	},
}
