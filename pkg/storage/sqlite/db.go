// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package sqlite implements the storage repositories on top of a local
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/eodcgmbh/openeo-backend/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// DB wraps the SQLite connection shared by the repositories built on it.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies all
// pending migrations.
func Open(ctx context.Context, path string) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// The modernc driver serializes writes itself, but limiting the pool to
	// one connection keeps transactions from starving each other on the
	// busy timeout.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debugf("sqlite database ready at %s", path)
	return &DB{db: db}, nil
}

// DB returns the underlying connection pool.
func (d *DB) DB() *sql.DB {
	return d.db
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// runMigrations brings the schema up to date from the embedded migration
// files. Goose wants the .sql files at the root of the filesystem it is
// handed, so the migrations/ prefix is stripped first.
func runMigrations(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("scoping embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(database.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("preparing migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
