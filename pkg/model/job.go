// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProcessGraphWithMetadata is the process payload embedded in a job: the
// opaque graph body plus its descriptive metadata. The graph itself is never
// interpreted by this core.
type ProcessGraphWithMetadata struct {
	ID           string          `json:"id"`
	Summary      string          `json:"summary,omitempty"`
	Description  string          `json:"description,omitempty"`
	Parameters   json.RawMessage `json:"parameters,omitempty"`
	Returns      json.RawMessage `json:"returns,omitempty"`
	ProcessGraph json.RawMessage `json:"process_graph"`
}

// IsZero reports whether no process payload was supplied.
func (p ProcessGraphWithMetadata) IsZero() bool {
	return p.ID == "" && len(p.ProcessGraph) == 0
}

// Equal compares two process payloads field by field.
func (p ProcessGraphWithMetadata) Equal(other ProcessGraphWithMetadata) bool {
	return p.ID == other.ID &&
		p.Summary == other.Summary &&
		p.Description == other.Description &&
		bytes.Equal(p.Parameters, other.Parameters) &&
		bytes.Equal(p.Returns, other.Returns) &&
		bytes.Equal(p.ProcessGraph, other.ProcessGraph)
}

// Job is a batch job owned by the user that created it.
type Job struct {
	JobID       uuid.UUID                `json:"job_id"`
	Process     ProcessGraphWithMetadata `json:"process"`
	Status      Status                   `json:"status"`
	OwnerID     uuid.UUID                `json:"owner_id"`
	Created     time.Time                `json:"created"`
	Title       string                   `json:"title,omitempty"`
	Description string                   `json:"description,omitempty"`
	Synchronous bool                     `json:"synchronous"`
}

// JobPatch is a partial update to a job. A nil field was not supplied by
// the client.
type JobPatch struct {
	Title       *string                   `json:"title,omitempty"`
	Description *string                   `json:"description,omitempty"`
	Process     *ProcessGraphWithMetadata `json:"process,omitempty"`
	Status      *Status                   `json:"status,omitempty"`
	Synchronous *bool                     `json:"synchronous,omitempty"`
}

// Patch merges the supplied fields of p into the job. Fields whose incoming
// value is falsy (empty string, false, empty payload) are skipped even when
// supplied; a supplied value equal to the current one is a no-op. A status
// change must follow the job state machine.
func (j *Job) Patch(p JobPatch) error {
	if p.Status != nil && *p.Status != "" {
		next, err := NextStatus(j.Status, *p.Status)
		if err != nil {
			return err
		}
		j.Status = next
	}

	applyString(&j.Title, p.Title)
	applyString(&j.Description, p.Description)
	applyBool(&j.Synchronous, p.Synchronous)

	if p.Process != nil && !p.Process.IsZero() && !j.Process.Equal(*p.Process) {
		j.Process = *p.Process
	}

	return nil
}
