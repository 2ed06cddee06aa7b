// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/eodcgmbh/openeo-backend/pkg/storage"
)

// scanner is an interface satisfied by both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

// Mapping declares how an entity type maps to its one storage schema: the
// table, the ordered column list, which columns form the primary key, and
// the bidirectional conversion between entity and row.
type Mapping[E any] struct {
	// Table is the table name.
	Table string

	// Columns is the full ordered column list.
	Columns []string

	// Key names the primary key columns, in order. It must be a subset
	// of Columns.
	Key []string

	// ToRow converts an entity into values ordered like Columns.
	ToRow func(E) ([]any, error)

	// FromRow scans one row, ordered like Columns, into an entity.
	FromRow func(scanner) (E, error)
}

// Store is the generic SQLite-backed repository. Every operation is a
// single atomic statement against the store; no state is carried between
// calls.
type Store[E any] struct {
	db *sql.DB
	m  Mapping[E]

	columnList string
	keyWhere   string
}

// NewStore builds a repository for the given mapping.
func NewStore[E any](db *DB, m Mapping[E]) (*Store[E], error) {
	if m.Table == "" || len(m.Columns) == 0 {
		return nil, fmt.Errorf("mapping for %T is missing table or columns", *new(E))
	}
	if m.ToRow == nil || m.FromRow == nil {
		return nil, fmt.Errorf("mapping for table %s is missing a conversion function", m.Table)
	}
	if len(m.Key) == 0 {
		return nil, fmt.Errorf("mapping for table %s declares no primary key", m.Table)
	}
	for _, k := range m.Key {
		if !slices.Contains(m.Columns, k) {
			return nil, fmt.Errorf("key column %s is not in the column list of table %s", k, m.Table)
		}
	}

	keyPredicates := make([]string, len(m.Key))
	for i, k := range m.Key {
		keyPredicates[i] = k + " = ?"
	}

	return &Store[E]{
		db:         db.DB(),
		m:          m,
		columnList: strings.Join(m.Columns, ", "),
		keyWhere:   strings.Join(keyPredicates, " AND "),
	}, nil
}

var _ storage.Repository[struct{}] = (*Store[struct{}])(nil)

// Create inserts a new row, failing with storage.ErrAlreadyExists when the
// primary key is already present.
func (s *Store[E]) Create(ctx context.Context, entity E) error {
	row, err := s.m.ToRow(entity)
	if err != nil {
		return fmt.Errorf("converting %s entity to row: %w", s.m.Table, err)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.m.Table, s.columnList, placeholders(len(s.m.Columns)))

	if _, err := s.db.ExecContext(ctx, query, row...); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("inserting into %s: %w", s.m.Table, err)
	}
	return nil
}

// Get retrieves one entity by primary key. The key values must match the
// mapping's key definition in number and order.
func (s *Store[E]) Get(ctx context.Context, key ...any) (E, error) {
	var zero E
	if len(key) != len(s.m.Key) {
		return zero, fmt.Errorf("table %s expects %d key values, got %d", s.m.Table, len(s.m.Key), len(key))
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", s.columnList, s.m.Table, s.keyWhere)

	entity, err := s.m.FromRow(s.db.QueryRowContext(ctx, query, key...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, storage.ErrNotFound
		}
		return zero, fmt.Errorf("scanning %s row: %w", s.m.Table, err)
	}
	return entity, nil
}

// List returns all rows for the type matching the optional filter.
func (s *Store[E]) List(ctx context.Context, filter *storage.Filter) ([]E, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", s.columnList, s.m.Table)

	var args []any
	if filter != nil {
		if !slices.Contains(s.m.Columns, filter.Column) {
			return nil, fmt.Errorf("table %s has no column %s", s.m.Table, filter.Column)
		}
		query += fmt.Sprintf(" WHERE %s = ?", filter.Column)
		args = append(args, filter.Value)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.m.Table, err)
	}
	defer func() { _ = rows.Close() }()

	var result []E
	for rows.Next() {
		entity, scanErr := s.m.FromRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning %s row: %w", s.m.Table, scanErr)
		}
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", s.m.Table, err)
	}
	return result, nil
}

// Modify merges the full entity state into storage keyed by its primary
// key. The row is blindly overwritten; no changed-since-read check is made.
func (s *Store[E]) Modify(ctx context.Context, entity E) error {
	row, err := s.m.ToRow(entity)
	if err != nil {
		return fmt.Errorf("converting %s entity to row: %w", s.m.Table, err)
	}

	var assignments []string
	for _, c := range s.m.Columns {
		if slices.Contains(s.m.Key, c) {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = excluded.%s", c, c))
	}

	conflict := "DO NOTHING"
	if len(assignments) > 0 {
		conflict = "DO UPDATE SET " + strings.Join(assignments, ", ")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) %s",
		s.m.Table, s.columnList, placeholders(len(s.m.Columns)),
		strings.Join(s.m.Key, ", "), conflict)

	if _, err := s.db.ExecContext(ctx, query, row...); err != nil {
		return fmt.Errorf("upserting into %s: %w", s.m.Table, err)
	}
	return nil
}

// Delete removes the row with the given primary key.
func (s *Store[E]) Delete(ctx context.Context, key ...any) error {
	if len(key) != len(s.m.Key) {
		return fmt.Errorf("table %s expects %d key values, got %d", s.m.Table, len(s.m.Key), len(key))
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", s.m.Table, s.keyWhere)

	res, err := s.db.ExecContext(ctx, query, key...)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", s.m.Table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetFirstOrDefault returns the first entity matching the filter, or
// ok=false when nothing matches.
func (s *Store[E]) GetFirstOrDefault(ctx context.Context, filter storage.Filter) (E, bool, error) {
	var zero E
	found, err := s.List(ctx, &filter)
	if err != nil {
		return zero, false, err
	}
	if len(found) == 0 {
		return zero, false, nil
	}
	return found[0], true, nil
}

// placeholders returns n comma separated "?" markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isUniqueViolation checks for a SQLite primary key or UNIQUE constraint
// violation.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
