// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eodcgmbh/openeo-backend/pkg/model"
	"github.com/eodcgmbh/openeo-backend/pkg/storage"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.Context(), filepath.Join(t.TempDir(), "store-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testUser() model.User {
	return model.User{
		UserID:    uuid.New(),
		Subject:   "subject-" + uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func testJob(owner uuid.UUID) model.Job {
	return model.Job{
		JobID: uuid.New(),
		Process: model.ProcessGraphWithMetadata{
			ID:           "NDVI1",
			ProcessGraph: json.RawMessage(`{"ndvi":{"process_id":"ndvi"}}`),
		},
		Status:      model.StatusCreated,
		OwnerID:     owner,
		Created:     time.Now().UTC().Truncate(time.Millisecond),
		Title:       "test job",
		Description: "a job for the store tests",
	}
}

func testGraph(owner uuid.UUID, name string) model.ProcessGraph {
	return model.ProcessGraph{
		Name:    name,
		OwnerID: owner,
		Graph:   json.RawMessage(`{"add":{"process_id":"add"}}`),
		Created: time.Now().UTC().Truncate(time.Millisecond),
		Summary: "adds things",
	}
}

func TestUserStore_RoundTrip(t *testing.T) {
	t.Parallel()

	users, err := NewUserStore(testDB(t))
	require.NoError(t, err)

	user := testUser()
	require.NoError(t, users.Create(t.Context(), user))

	got, err := users.Get(t.Context(), user.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, user.Subject, got.Subject)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
}

func TestUserStore_CreateConflict(t *testing.T) {
	t.Parallel()

	users, err := NewUserStore(testDB(t))
	require.NoError(t, err)

	user := testUser()
	require.NoError(t, users.Create(t.Context(), user))

	err = users.Create(t.Context(), user)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	// A different user id with the same subject hits the unique subject
	// constraint and is a conflict too.
	duplicate := testUser()
	duplicate.Subject = user.Subject
	err = users.Create(t.Context(), duplicate)
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)
}

func TestUserStore_GetNotFound(t *testing.T) {
	t.Parallel()

	users, err := NewUserStore(testDB(t))
	require.NoError(t, err)

	_, err = users.Get(t.Context(), uuid.NewString())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUserStore_GetFirstOrDefault(t *testing.T) {
	t.Parallel()

	users, err := NewUserStore(testDB(t))
	require.NoError(t, err)

	user := testUser()
	require.NoError(t, users.Create(t.Context(), user))

	got, ok, err := users.GetFirstOrDefault(t.Context(), storage.Filter{Column: "subject", Value: user.Subject})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.UserID, got.UserID)

	_, ok, err = users.GetFirstOrDefault(t.Context(), storage.Filter{Column: "subject", Value: "nobody"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJobStore_RoundTrip(t *testing.T) {
	t.Parallel()

	jobs, err := NewJobStore(testDB(t))
	require.NoError(t, err)

	job := testJob(uuid.New())
	require.NoError(t, jobs.Create(t.Context(), job))

	got, err := jobs.Get(t.Context(), job.JobID.String())
	require.NoError(t, err)
	assert.Equal(t, job.JobID, got.JobID)
	assert.Equal(t, job.OwnerID, got.OwnerID)
	assert.Equal(t, job.Status, got.Status)
	assert.Equal(t, job.Process, got.Process)
	assert.Equal(t, job.Title, got.Title)
	assert.True(t, job.Created.Equal(got.Created))
}

func TestJobStore_ListByOwner(t *testing.T) {
	t.Parallel()

	jobs, err := NewJobStore(testDB(t))
	require.NoError(t, err)

	owner := uuid.New()
	other := uuid.New()
	require.NoError(t, jobs.Create(t.Context(), testJob(owner)))
	require.NoError(t, jobs.Create(t.Context(), testJob(owner)))
	require.NoError(t, jobs.Create(t.Context(), testJob(other)))

	mine, err := jobs.List(t.Context(), &storage.Filter{Column: "owner_id", Value: owner.String()})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := jobs.List(t.Context(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestJobStore_ListRejectsUnknownColumn(t *testing.T) {
	t.Parallel()

	jobs, err := NewJobStore(testDB(t))
	require.NoError(t, err)

	_, err = jobs.List(t.Context(), &storage.Filter{Column: "no_such_column", Value: "x"})
	assert.Error(t, err)
}

func TestJobStore_ModifyIsBlindOverwrite(t *testing.T) {
	t.Parallel()

	jobs, err := NewJobStore(testDB(t))
	require.NoError(t, err)

	job := testJob(uuid.New())
	require.NoError(t, jobs.Create(t.Context(), job))

	job.Title = "renamed"
	job.Status = model.StatusQueued
	require.NoError(t, jobs.Modify(t.Context(), job))

	got, err := jobs.Get(t.Context(), job.JobID.String())
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, model.StatusQueued, got.Status)

	// Modify also inserts when the row does not exist yet.
	fresh := testJob(uuid.New())
	require.NoError(t, jobs.Modify(t.Context(), fresh))
	_, err = jobs.Get(t.Context(), fresh.JobID.String())
	require.NoError(t, err)
}

func TestJobStore_Delete(t *testing.T) {
	t.Parallel()

	jobs, err := NewJobStore(testDB(t))
	require.NoError(t, err)

	job := testJob(uuid.New())
	require.NoError(t, jobs.Create(t.Context(), job))
	require.NoError(t, jobs.Delete(t.Context(), job.JobID.String()))

	_, err = jobs.Get(t.Context(), job.JobID.String())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = jobs.Delete(t.Context(), job.JobID.String())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestProcessGraphStore_CompositeKey(t *testing.T) {
	t.Parallel()

	graphs, err := NewProcessGraphStore(testDB(t))
	require.NoError(t, err)

	alice := uuid.New()
	bob := uuid.New()

	// Two users may store a graph under the same name.
	require.NoError(t, graphs.Create(t.Context(), testGraph(alice, "ndvi")))
	require.NoError(t, graphs.Create(t.Context(), testGraph(bob, "ndvi")))

	err = graphs.Create(t.Context(), testGraph(alice, "ndvi"))
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	got, err := graphs.Get(t.Context(), "ndvi", alice.String())
	require.NoError(t, err)
	assert.Equal(t, alice, got.OwnerID)
	assert.Equal(t, "adds things", got.Summary)

	require.NoError(t, graphs.Delete(t.Context(), "ndvi", alice.String()))
	_, err = graphs.Get(t.Context(), "ndvi", alice.String())
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Bob's graph is untouched.
	_, err = graphs.Get(t.Context(), "ndvi", bob.String())
	require.NoError(t, err)
}

func TestProcessGraphStore_KeyArity(t *testing.T) {
	t.Parallel()

	graphs, err := NewProcessGraphStore(testDB(t))
	require.NoError(t, err)

	_, err = graphs.Get(t.Context(), "ndvi")
	assert.Error(t, err)
}

func TestNewStore_RejectsBadMappings(t *testing.T) {
	t.Parallel()

	db := testDB(t)

	type row struct{ A string }
	toRow := func(r row) ([]any, error) { return []any{r.A}, nil }
	fromRow := func(sc scanner) (row, error) {
		var r row
		return r, sc.Scan(&r.A)
	}

	_, err := NewStore(db, Mapping[row]{Table: "t", Columns: []string{"a"}, ToRow: toRow, FromRow: fromRow})
	assert.Error(t, err, "missing key")

	_, err = NewStore(db, Mapping[row]{Table: "t", Columns: []string{"a"}, Key: []string{"b"}, ToRow: toRow, FromRow: fromRow})
	assert.Error(t, err, "key not in columns")

	_, err = NewStore(db, Mapping[row]{Table: "t", Columns: []string{"a"}, Key: []string{"a"}, FromRow: fromRow})
	assert.Error(t, err, "missing conversion")
}
