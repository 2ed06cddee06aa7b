// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"net/http"
	"strings"
)

// STAC conformance classes this deployment declares.
const (
	conformanceSTACCore        = "https://api.stacspec.org/v1.0.0/core"
	conformanceSTACCollections = "https://api.stacspec.org/v1.0.0/collections"
)

// wellKnownVersion is one entry in the version discovery document.
type wellKnownVersion struct {
	URL        string `json:"url"`
	Production bool   `json:"production"`
	APIVersion string `json:"api_version"`
}

type wellKnownResponse struct {
	Versions []wellKnownVersion `json:"versions"`
}

// handleWellKnown serves the version discovery document at
// /.well-known/openeo, pointing clients at the versioned API root.
func (s *Server) handleWellKnown(w http.ResponseWriter, _ *http.Request) {
	url := fmt.Sprintf("%s/openeo/%s/", strings.TrimSuffix(s.cfg.APIURL, "/"), s.cfg.OpenEOVersion)

	writeJSON(w, http.StatusOK, wellKnownResponse{
		Versions: []wellKnownVersion{
			{URL: url, Production: false, APIVersion: s.cfg.OpenEOVersion},
		},
	})
}

type conformanceResponse struct {
	ConformsTo []string `json:"conformsTo"`
}

func (*Server) handleConformance(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, conformanceResponse{
		ConformsTo: []string{conformanceSTACCore, conformanceSTACCollections},
	})
}

// oidcProvider describes one identity provider a client may authenticate
// against. This backend verifies against exactly one.
type oidcProvider struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Issuer string   `json:"issuer"`
	Scopes []string `json:"scopes"`
}

type credentialsOIDCResponse struct {
	Providers []oidcProvider `json:"providers"`
}

func (s *Server) handleCredentialsOIDC(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, credentialsOIDCResponse{
		Providers: []oidcProvider{
			{
				ID:     s.cfg.OIDCOrganisation,
				Title:  s.cfg.APITitle,
				Issuer: s.cfg.OIDCIssuer,
				Scopes: []string{"openid", "email"},
			},
		},
	})
}

type fileFormatsResponse struct {
	Input  map[string]any `json:"input"`
	Output map[string]any `json:"output"`
}

// handleFileFormats advertises the supported processing input and output
// formats. This core processes nothing itself, so both sets are empty until
// a deployment extends them.
func (*Server) handleFileFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, fileFormatsResponse{
		Input:  map[string]any{},
		Output: map[string]any{},
	})
}

func (*Server) handleUDFRuntimes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotImplemented, errorResponse{
		Code: "FeatureUnsupported", Message: "Feature not supported.",
	})
}
