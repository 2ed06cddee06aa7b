// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob() Job {
	return Job{
		JobID: uuid.New(),
		Process: ProcessGraphWithMetadata{
			ID:           "NDVI1",
			ProcessGraph: json.RawMessage(`{"ndvi":{"process_id":"ndvi"}}`),
		},
		Status:      StatusCreated,
		OwnerID:     uuid.New(),
		Created:     time.Now().UTC(),
		Title:       "A",
		Description: "original description",
	}
}

func strPtr(s string) *string { return &s }

func TestJobPatch_AppliesSuppliedFields(t *testing.T) {
	t.Parallel()

	job := testJob()
	err := job.Patch(JobPatch{
		Title:       strPtr("B"),
		Description: strPtr("new description"),
	})
	require.NoError(t, err)

	assert.Equal(t, "B", job.Title)
	assert.Equal(t, "new description", job.Description)
}

func TestJobPatch_SkipsFalsyValues(t *testing.T) {
	t.Parallel()

	job := testJob()
	sync := false
	err := job.Patch(JobPatch{
		Title:       strPtr(""),
		Synchronous: &sync,
	})
	require.NoError(t, err)

	// Supplied-but-falsy values are never applied.
	assert.Equal(t, "A", job.Title)
	assert.False(t, job.Synchronous)
}

func TestJobPatch_Idempotent(t *testing.T) {
	t.Parallel()

	patch := JobPatch{
		Title:   strPtr("B"),
		Process: &ProcessGraphWithMetadata{ID: "X", ProcessGraph: json.RawMessage(`{"a":1}`)},
	}

	once := testJob()
	require.NoError(t, once.Patch(patch))

	twice := testJob()
	require.NoError(t, twice.Patch(patch))
	require.NoError(t, twice.Patch(patch))

	assert.Equal(t, once, twice)
}

func TestJobPatch_RejectsInvalidStatusJump(t *testing.T) {
	t.Parallel()

	job := testJob()
	job.Status = StatusFinished

	queued := StatusQueued
	err := job.Patch(JobPatch{Status: &queued})
	require.Error(t, err)
	assert.Equal(t, StatusFinished, job.Status)
}

func TestJobPatch_CancelBeforeRunningCollapsesToCreated(t *testing.T) {
	t.Parallel()

	job := testJob()
	canceled := StatusCanceled
	require.NoError(t, job.Patch(JobPatch{Status: &canceled}))
	assert.Equal(t, StatusCreated, job.Status)
}

func TestJobPatch_ProcessReplacedWhenDifferent(t *testing.T) {
	t.Parallel()

	job := testJob()
	incoming := ProcessGraphWithMetadata{
		ID:           "EVI1",
		ProcessGraph: json.RawMessage(`{"evi":{"process_id":"evi"}}`),
	}
	require.NoError(t, job.Patch(JobPatch{Process: &incoming}))
	assert.Equal(t, incoming, job.Process)

	// An empty payload is falsy and never applied.
	require.NoError(t, job.Patch(JobPatch{Process: &ProcessGraphWithMetadata{}}))
	assert.Equal(t, incoming, job.Process)
}

func TestProcessGraphPatch(t *testing.T) {
	t.Parallel()

	graph := ProcessGraph{
		Name:    "ndvi",
		OwnerID: uuid.New(),
		Graph:   json.RawMessage(`{"a":1}`),
		Summary: "old summary",
	}

	graph.Patch(ProcessGraphPatch{
		Graph:   json.RawMessage(`{"a":2}`),
		Summary: strPtr(""),
	})

	assert.Equal(t, json.RawMessage(`{"a":2}`), graph.Graph)
	assert.Equal(t, "old summary", graph.Summary)
}
