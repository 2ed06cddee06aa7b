// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProcessGraph is a user-defined, reusable process graph. It is keyed by the
// pair (Name, OwnerID); two users may store graphs under the same name.
type ProcessGraph struct {
	// Name is the user chosen identifier of the graph.
	Name string `json:"id"`

	// OwnerID is the user that owns this graph.
	OwnerID uuid.UUID `json:"owner_id"`

	// Graph is the opaque graph body.
	Graph json.RawMessage `json:"process_graph"`

	// Created is when the graph was first stored.
	Created time.Time `json:"created"`

	Summary     string          `json:"summary,omitempty"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Returns     json.RawMessage `json:"returns,omitempty"`
}

// ProcessGraphPatch is a partial update to a stored process graph.
type ProcessGraphPatch struct {
	Graph       json.RawMessage `json:"process_graph,omitempty"`
	Summary     *string         `json:"summary,omitempty"`
	Description *string         `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Returns     json.RawMessage `json:"returns,omitempty"`
}

// Patch merges the supplied fields of p into the graph under the same merge
// rule as Job.Patch.
func (g *ProcessGraph) Patch(p ProcessGraphPatch) {
	applyString(&g.Summary, p.Summary)
	applyString(&g.Description, p.Description)

	graph := []byte(g.Graph)
	applyRaw(&graph, p.Graph)
	g.Graph = graph

	params := []byte(g.Parameters)
	applyRaw(&params, p.Parameters)
	g.Parameters = params

	returns := []byte(g.Returns)
	applyRaw(&returns, p.Returns)
	g.Returns = returns
}
