// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eodcgmbh/openeo-backend/pkg/model"
	"github.com/eodcgmbh/openeo-backend/pkg/storage"
)

// Row mappings for the core entities. Timestamps are stored as RFC 3339
// text, identifiers as their canonical string form and embedded documents
// as serialized JSON.

// NewUserStore returns the repository for users.
func NewUserStore(db *DB) (storage.Repository[model.User], error) {
	return NewStore(db, Mapping[model.User]{
		Table:   "users",
		Columns: []string{"user_id", "subject", "created_at"},
		Key:     []string{"user_id"},
		ToRow: func(u model.User) ([]any, error) {
			return []any{
				u.UserID.String(),
				u.Subject,
				u.CreatedAt.UTC().Format(time.RFC3339Nano),
			}, nil
		},
		FromRow: func(sc scanner) (model.User, error) {
			var (
				id, subject, createdAt string
			)
			if err := sc.Scan(&id, &subject, &createdAt); err != nil {
				return model.User{}, err
			}
			userID, err := uuid.Parse(id)
			if err != nil {
				return model.User{}, fmt.Errorf("parsing user_id: %w", err)
			}
			created, err := time.Parse(time.RFC3339Nano, createdAt)
			if err != nil {
				return model.User{}, fmt.Errorf("parsing created_at: %w", err)
			}
			return model.User{UserID: userID, Subject: subject, CreatedAt: created}, nil
		},
	})
}

// NewJobStore returns the repository for batch jobs.
func NewJobStore(db *DB) (storage.Repository[model.Job], error) {
	return NewStore(db, Mapping[model.Job]{
		Table: "jobs",
		Columns: []string{
			"job_id", "process", "status", "owner_id",
			"created", "title", "description", "synchronous",
		},
		Key: []string{"job_id"},
		ToRow: func(j model.Job) ([]any, error) {
			process, err := json.Marshal(j.Process)
			if err != nil {
				return nil, fmt.Errorf("encoding process: %w", err)
			}
			return []any{
				j.JobID.String(),
				string(process),
				string(j.Status),
				j.OwnerID.String(),
				j.Created.UTC().Format(time.RFC3339Nano),
				j.Title,
				j.Description,
				j.Synchronous,
			}, nil
		},
		FromRow: func(sc scanner) (model.Job, error) {
			var (
				id, process, status, ownerID, created, title, description string
				synchronous                                               bool
			)
			err := sc.Scan(&id, &process, &status, &ownerID, &created, &title, &description, &synchronous)
			if err != nil {
				return model.Job{}, err
			}

			job := model.Job{Title: title, Description: description, Synchronous: synchronous}
			if job.JobID, err = uuid.Parse(id); err != nil {
				return model.Job{}, fmt.Errorf("parsing job_id: %w", err)
			}
			if job.OwnerID, err = uuid.Parse(ownerID); err != nil {
				return model.Job{}, fmt.Errorf("parsing owner_id: %w", err)
			}
			if job.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
				return model.Job{}, fmt.Errorf("parsing created: %w", err)
			}
			if job.Status, err = model.ParseStatus(status); err != nil {
				return model.Job{}, err
			}
			if err = json.Unmarshal([]byte(process), &job.Process); err != nil {
				return model.Job{}, fmt.Errorf("decoding process: %w", err)
			}
			return job, nil
		},
	})
}

// NewProcessGraphStore returns the repository for saved process graphs,
// keyed by the pair (name, owner_id).
func NewProcessGraphStore(db *DB) (storage.Repository[model.ProcessGraph], error) {
	return NewStore(db, Mapping[model.ProcessGraph]{
		Table: "process_graphs",
		Columns: []string{
			"name", "owner_id", "graph", "created",
			"summary", "description", "parameters", "returns",
		},
		Key: []string{"name", "owner_id"},
		ToRow: func(g model.ProcessGraph) ([]any, error) {
			return []any{
				g.Name,
				g.OwnerID.String(),
				string(g.Graph),
				g.Created.UTC().Format(time.RFC3339Nano),
				g.Summary,
				g.Description,
				string(g.Parameters),
				string(g.Returns),
			}, nil
		},
		FromRow: func(sc scanner) (model.ProcessGraph, error) {
			var (
				name, ownerID, graph, created         string
				summary, description, params, returns string
			)
			err := sc.Scan(&name, &ownerID, &graph, &created, &summary, &description, &params, &returns)
			if err != nil {
				return model.ProcessGraph{}, err
			}

			pg := model.ProcessGraph{
				Name:        name,
				Summary:     summary,
				Description: description,
				Graph:       rawOrNil(graph),
				Parameters:  rawOrNil(params),
				Returns:     rawOrNil(returns),
			}
			if pg.OwnerID, err = uuid.Parse(ownerID); err != nil {
				return model.ProcessGraph{}, fmt.Errorf("parsing owner_id: %w", err)
			}
			if pg.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
				return model.ProcessGraph{}, fmt.Errorf("parsing created: %w", err)
			}
			return pg, nil
		},
	})
}

func rawOrNil(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}
