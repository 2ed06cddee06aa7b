// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
)

// Status is the lifecycle state of a batch job.
type Status string

// Job status values.
const (
	StatusCreated  Status = "created"
	StatusQueued   Status = "queued"
	StatusRunning  Status = "running"
	StatusCanceled Status = "canceled"
	StatusFinished Status = "finished"
	StatusError    Status = "error"
)

// statusTransitions lists the permitted forward moves of the job state
// machine. Canceling a job that never ran collapses back to created, which
// is handled in NextStatus rather than here.
var statusTransitions = map[Status][]Status{
	StatusCreated: {StatusQueued},
	StatusQueued:  {StatusRunning},
	StatusRunning: {StatusFinished, StatusError, StatusCanceled},
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCreated, StatusQueued, StatusRunning, StatusCanceled, StatusFinished, StatusError:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// CanTransition reports whether a job may move from one status to the next.
// A no-op transition is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	if from == StatusCreated && to == StatusCanceled {
		// Collapses back to created, see NextStatus.
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatus resolves the status a job ends up in when a transition is
// requested. Canceling before the job ever ran keeps it in created.
func NextStatus(from, to Status) (Status, error) {
	if !CanTransition(from, to) {
		return "", fmt.Errorf("job status cannot move from %s to %s", from, to)
	}
	if from == StatusCreated && to == StatusCanceled {
		return StatusCreated, nil
	}
	return to, nil
}
