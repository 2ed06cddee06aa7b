// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eodcgmbh/openeo-backend/pkg/api"
	"github.com/eodcgmbh/openeo-backend/pkg/auth"
	"github.com/eodcgmbh/openeo-backend/pkg/config"
	"github.com/eodcgmbh/openeo-backend/pkg/logger"
	"github.com/eodcgmbh/openeo-backend/pkg/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the openEO backend API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func serve(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configFileFlag(cmd))
	if err != nil {
		return err
	}

	db, err := sqlite.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := sqlite.NewUserStore(db)
	if err != nil {
		return err
	}
	jobs, err := sqlite.NewJobStore(db)
	if err != nil {
		return err
	}
	graphs, err := sqlite.NewProcessGraphStore(db)
	if err != nil {
		return err
	}

	policies, err := auth.ParsePolicies(cfg.OIDCPolicies)
	if err != nil {
		return err
	}
	issuer := auth.NewIssuerClient(cfg.OIDCIssuer, cfg.RequestTimeout, policies)
	authenticator := auth.NewOIDCAuthenticator(issuer, users)

	server := api.NewServer(cfg, authenticator, jobs, graphs)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Error shutting down server: %v", err)
		}
	}()

	logger.Infof("openEO backend listening on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
