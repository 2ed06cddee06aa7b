// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the generic persistence bridge used by every
// stateful resource in the backend. An entity type is persisted through a
// Repository, parameterized over the entity and backed by a declared row
// mapping; see the sqlite subpackage for the implementation.
package storage

import (
	"context"
)

// Filter expresses a single equality predicate for List operations.
// It is a transient value, never persisted.
type Filter struct {
	// Column is the storage column to compare.
	Column string

	// Value is the value the column must equal.
	Value any
}

// Repository is the persistence contract shared by every entity type.
// Each call is one atomic unit of work against the backing store; no
// transaction or cursor state is retained between calls.
type Repository[E any] interface {
	// Create inserts a new row. It returns ErrAlreadyExists when the
	// primary key is already present.
	Create(ctx context.Context, entity E) error

	// Get retrieves an entity by primary key. The key values must match
	// the entity's key definition in number and order. Absence is a normal
	// outcome and reported as ErrNotFound.
	Get(ctx context.Context, key ...any) (E, error)

	// List returns all rows for the type, optionally restricted by a
	// single-column equality filter. Ordering is storage-default.
	List(ctx context.Context, filter *Filter) ([]E, error)

	// Modify merges the full entity state into storage keyed by its
	// primary key. This is a blind overwrite of the row; it does not
	// check whether the row changed since it was last read.
	Modify(ctx context.Context, entity E) error

	// Delete removes the row with the given primary key.
	Delete(ctx context.Context, key ...any) error

	// GetFirstOrDefault returns the first entity matching the filter, or
	// ok=false when nothing matches.
	GetFirstOrDefault(ctx context.Context, filter Filter) (entity E, ok bool, err error)
}
