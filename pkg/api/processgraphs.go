// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eodcgmbh/openeo-backend/pkg/errors"
	"github.com/eodcgmbh/openeo-backend/pkg/model"
	"github.com/eodcgmbh/openeo-backend/pkg/storage"
)

// processGraphBody is the wire representation of a stored process graph.
type processGraphBody struct {
	ID          string          `json:"id"`
	Graph       json.RawMessage `json:"process_graph,omitempty"`
	Summary     *string         `json:"summary,omitempty"`
	Description *string         `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Returns     json.RawMessage `json:"returns,omitempty"`
}

type processGraphsGetResponse struct {
	Processes []processGraphBody `json:"processes"`
	Links     []string           `json:"links"`
}

func toProcessGraphBody(g model.ProcessGraph) processGraphBody {
	body := processGraphBody{
		ID:         g.Name,
		Graph:      g.Graph,
		Parameters: g.Parameters,
		Returns:    g.Returns,
	}
	if g.Summary != "" {
		body.Summary = &g.Summary
	}
	if g.Description != "" {
		body.Description = &g.Description
	}
	return body
}

func (s *Server) handleListProcessGraphs(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	found, err := s.graphs.List(r.Context(), &storage.Filter{Column: "owner_id", Value: user.UserID.String()})
	if err != nil {
		writeError(w, err)
		return
	}

	graphs := make([]processGraphBody, 0, len(found))
	for _, g := range found {
		graphs = append(graphs, toProcessGraphBody(g))
	}
	writeJSON(w, http.StatusOK, processGraphsGetResponse{Processes: graphs, Links: []string{}})
}

func (s *Server) handleGetProcessGraph(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	graph, err := s.graphs.Get(r.Context(), chi.URLParam(r, "name"), user.UserID.String())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProcessGraphBody(graph))
}

// handlePutProcessGraph stores a process graph under the caller's key pair
// (name, owner). A first PUT creates the graph; a later PUT merges the
// supplied fields into the stored one and blindly overwrites the row.
func (s *Server) handlePutProcessGraph(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	name := chi.URLParam(r, "name")

	var body processGraphBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.NewValidationError("request body is not a valid process graph", err))
		return
	}

	existing, err := s.graphs.Get(r.Context(), name, user.UserID.String())
	switch {
	case err == nil:
		existing.Patch(model.ProcessGraphPatch{
			Graph:       body.Graph,
			Summary:     body.Summary,
			Description: body.Description,
			Parameters:  body.Parameters,
			Returns:     body.Returns,
		})
		if err := s.graphs.Modify(r.Context(), existing); err != nil {
			writeError(w, err)
			return
		}
	case stderrors.Is(err, storage.ErrNotFound):
		if len(body.Graph) == 0 {
			writeError(w, errors.NewValidationError("process graph body is missing", nil))
			return
		}
		graph := model.ProcessGraph{
			Name:       name,
			OwnerID:    user.UserID,
			Graph:      body.Graph,
			Created:    time.Now().UTC(),
			Parameters: body.Parameters,
			Returns:    body.Returns,
		}
		if body.Summary != nil {
			graph.Summary = *body.Summary
		}
		if body.Description != nil {
			graph.Description = *body.Description
		}
		if err := s.graphs.Create(r.Context(), graph); err != nil {
			writeError(w, err)
			return
		}
	default:
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleDeleteProcessGraph(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	if err := s.graphs.Delete(r.Context(), chi.URLParam(r, "name"), user.UserID.String()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
