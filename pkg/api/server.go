// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package api wires the resource handlers of the openEO backend: thin,
// declarative glue between the HTTP surface, the authenticator and the
// persistence bridge.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eodcgmbh/openeo-backend/pkg/auth"
	"github.com/eodcgmbh/openeo-backend/pkg/config"
	"github.com/eodcgmbh/openeo-backend/pkg/logger"
	"github.com/eodcgmbh/openeo-backend/pkg/model"
	"github.com/eodcgmbh/openeo-backend/pkg/storage"
	"github.com/eodcgmbh/openeo-backend/pkg/versions"
)

// Server holds the wired dependencies of the HTTP surface.
type Server struct {
	cfg           *config.Config
	authenticator auth.Authenticator
	jobs          storage.Repository[model.Job]
	graphs        storage.Repository[model.ProcessGraph]
}

// NewServer wires the resource handlers.
func NewServer(
	cfg *config.Config,
	authenticator auth.Authenticator,
	jobs storage.Repository[model.Job],
	graphs storage.Repository[model.ProcessGraph],
) *Server {
	return &Server{
		cfg:           cfg,
		authenticator: authenticator,
		jobs:          jobs,
		graphs:        graphs,
	}
}

// Router registers all routes and returns the handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleCapabilities)
	r.Get("/health", s.handleHealth)
	r.Get("/.well-known/openeo", s.handleWellKnown)
	r.Get("/conformance", s.handleConformance)
	r.Get("/credentials/oidc", s.handleCredentialsOIDC)
	r.Get("/file_formats", s.handleFileFormats)
	r.Get("/udf_runtimes", s.handleUDFRuntimes)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)

		r.Get("/me", s.handleMe)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", s.handleListJobs)
			r.Post("/", s.handleCreateJob)
			r.Get("/{job_id}", s.handleGetJob)
			r.Patch("/{job_id}", s.handlePatchJob)
			r.Delete("/{job_id}", s.handleDeleteJob)
		})

		r.Route("/process_graphs", func(r chi.Router) {
			r.Get("/", s.handleListProcessGraphs)
			r.Get("/{name}", s.handleGetProcessGraph)
			r.Put("/{name}", s.handlePutProcessGraph)
			r.Delete("/{name}", s.handleDeleteProcessGraph)
		})
	})

	return r
}

// requireUser authenticates the request and stores the resulting user in
// the request context. Resource handlers below this middleware never touch
// the identity provider themselves.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authenticator.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debugw("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// capabilitiesResponse is the openEO capabilities document.
type capabilitiesResponse struct {
	APIVersion     string               `json:"api_version"`
	BackendVersion string               `json:"backend_version"`
	STACVersion    string               `json:"stac_version"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Endpoints      []capabilityEndpoint `json:"endpoints"`
}

type capabilityEndpoint struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

// capabilityEndpoints is the advertised endpoint list, kept in step with
// Router.
var capabilityEndpoints = []capabilityEndpoint{
	{Path: "/", Methods: []string{"GET"}},
	{Path: "/health", Methods: []string{"GET"}},
	{Path: "/.well-known/openeo", Methods: []string{"GET"}},
	{Path: "/conformance", Methods: []string{"GET"}},
	{Path: "/credentials/oidc", Methods: []string{"GET"}},
	{Path: "/file_formats", Methods: []string{"GET"}},
	{Path: "/udf_runtimes", Methods: []string{"GET"}},
	{Path: "/me", Methods: []string{"GET"}},
	{Path: "/jobs", Methods: []string{"GET", "POST"}},
	{Path: "/jobs/{job_id}", Methods: []string{"GET", "PATCH", "DELETE"}},
	{Path: "/process_graphs", Methods: []string{"GET"}},
	{Path: "/process_graphs/{name}", Methods: []string{"GET", "PUT", "DELETE"}},
}

func (s *Server) handleCapabilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, capabilitiesResponse{
		APIVersion:     s.cfg.OpenEOVersion,
		BackendVersion: versions.GetVersionInfo().Version,
		STACVersion:    "1.0.0",
		Title:          s.cfg.APITitle,
		Description:    s.cfg.APIDescription,
		Endpoints:      capabilityEndpoints,
	})
}

func (*Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (*Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"user_id": user.UserID.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorw("encoding response", "error", err)
	}
}
