// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package api

import (
	stderrors "errors"
	"net/http"

	"github.com/eodcgmbh/openeo-backend/pkg/errors"
	"github.com/eodcgmbh/openeo-backend/pkg/logger"
	"github.com/eodcgmbh/openeo-backend/pkg/storage"
)

// errorResponse is the openEO error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a typed error onto its status code and an openEO error
// body. Provider internals never reach the client; only the error kind and
// its short message do.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code: "NotFound", Message: "the requested resource does not exist",
		})
		return
	case stderrors.Is(err, storage.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{
			Code: "Conflict", Message: "the resource already exists",
		})
		return
	}

	var typed *errors.Error
	if stderrors.As(err, &typed) {
		if typed.StatusCode() >= http.StatusInternalServerError {
			logger.Errorw("request failed", "kind", typed.Type, "error", typed.Unwrap())
		}
		writeJSON(w, typed.StatusCode(), errorResponse{Code: typed.Type, Message: typed.Message})
		return
	}

	logger.Errorw("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Code: "Internal", Message: "internal server error",
	})
}
