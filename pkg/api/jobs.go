// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/eodcgmbh/openeo-backend/pkg/errors"
	"github.com/eodcgmbh/openeo-backend/pkg/model"
	"github.com/eodcgmbh/openeo-backend/pkg/storage"
)

// autoNameSize is the length of generated process graph identifiers when a
// job request supplies none.
const autoNameSize = 16

// batchJob is the wire representation of a job.
type batchJob struct {
	ID          string                          `json:"id"`
	Title       string                          `json:"title,omitempty"`
	Description string                          `json:"description,omitempty"`
	Process     *model.ProcessGraphWithMetadata `json:"process,omitempty"`
	Status      model.Status                    `json:"status"`
	Created     time.Time                       `json:"created"`
}

// jobsRequest is the body of job create and update requests.
type jobsRequest struct {
	Title       *string                         `json:"title,omitempty"`
	Description *string                         `json:"description,omitempty"`
	Process     *model.ProcessGraphWithMetadata `json:"process,omitempty"`
	Status      *model.Status                   `json:"status,omitempty"`
	Synchronous *bool                           `json:"synchronous,omitempty"`
}

type jobsGetResponse struct {
	Jobs  []batchJob `json:"jobs"`
	Links []string   `json:"links"`
}

func toBatchJob(j model.Job) batchJob {
	process := j.Process
	return batchJob{
		ID:          j.JobID.String(),
		Title:       j.Title,
		Description: j.Description,
		Process:     &process,
		Status:      j.Status,
		Created:     j.Created,
	}
}

// handleListJobs lists the caller's batch jobs. Synchronous executions are
// filtered out; they are not listable jobs.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	found, err := s.jobs.List(r.Context(), &storage.Filter{Column: "owner_id", Value: user.UserID.String()})
	if err != nil {
		writeError(w, err)
		return
	}

	jobs := make([]batchJob, 0, len(found))
	for _, j := range found {
		if j.Synchronous {
			continue
		}
		jobs = append(jobs, toBatchJob(j))
	}

	writeJSON(w, http.StatusOK, jobsGetResponse{Jobs: jobs, Links: []string{}})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var body jobsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.NewValidationError("request body is not a valid job request", err))
		return
	}
	if body.Process == nil || len(body.Process.ProcessGraph) == 0 {
		writeError(w, errors.NewValidationError("job request carries no process graph", nil))
		return
	}

	process := *body.Process
	if process.ID == "" {
		process.ID = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:autoNameSize])
	}

	job := model.Job{
		JobID:   uuid.New(),
		Process: process,
		Status:  model.StatusCreated,
		OwnerID: user.UserID,
		Created: time.Now().UTC(),
	}
	if body.Title != nil {
		job.Title = *body.Title
	}
	if body.Description != nil {
		job.Description = *body.Description
	}
	if body.Synchronous != nil {
		job.Synchronous = *body.Synchronous
	}

	if err := s.jobs.Create(r.Context(), job); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/jobs/%s", job.JobID))
	w.Header().Set("OpenEO-Identifier", job.JobID.String())
	w.WriteHeader(http.StatusCreated)
}

// ownedJob loads a job and enforces ownership. A job owned by someone else
// is indistinguishable from a missing one.
func (s *Server) ownedJob(r *http.Request) (model.Job, error) {
	user, _ := UserFromContext(r.Context())

	jobID, err := uuid.Parse(chi.URLParam(r, "job_id"))
	if err != nil {
		return model.Job{}, errors.NewValidationError("job id is not a valid identifier", err)
	}

	job, err := s.jobs.Get(r.Context(), jobID.String())
	if err != nil {
		return model.Job{}, err
	}
	if job.OwnerID != user.UserID {
		return model.Job{}, storage.ErrNotFound
	}
	return job, nil
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.ownedJob(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchJob(job))
}

func (s *Server) handlePatchJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.ownedJob(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body jobsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.NewValidationError("request body is not a valid job request", err))
		return
	}

	patch := model.JobPatch{
		Title:       body.Title,
		Description: body.Description,
		Process:     body.Process,
		Status:      body.Status,
		Synchronous: body.Synchronous,
	}
	if err := job.Patch(patch); err != nil {
		writeError(w, errors.NewValidationError(err.Error(), nil))
		return
	}

	if err := s.jobs.Modify(r.Context(), job); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.ownedJob(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.jobs.Delete(r.Context(), job.JobID.String()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
