// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrConfiguration, http.StatusInternalServerError},
		{ErrTokenInvalid, http.StatusUnauthorized},
		{ErrAuthorizationDenied, http.StatusForbidden},
		{ErrTokenCantBeValidated, http.StatusUnauthorized},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrInternal, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, New(tc.kind, "msg", nil).StatusCode())
		})
	}
}

func TestErrorStringExcludesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("connection to 10.0.0.1:5432 refused")
	err := NewConfigurationError("identity provider is unreachable", cause)

	assert.Equal(t, "configuration: identity provider is unreachable", err.Error())
	assert.NotContains(t, err.Error(), "10.0.0.1")
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("boom")
	err := NewTokenInvalidError("the provided token is not valid", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestIsKind(t *testing.T) {
	t.Parallel()

	err := NewAuthorizationDeniedError("no policy matched", nil)

	assert.True(t, IsKind(err, ErrAuthorizationDenied))
	assert.False(t, IsKind(err, ErrTokenInvalid))
	assert.False(t, IsKind(stderrors.New("plain"), ErrAuthorizationDenied))

	// Wrapped typed errors are still recognized.
	wrapped := fmt.Errorf("authenticating request: %w", err)
	assert.True(t, IsKind(wrapped, ErrAuthorizationDenied))
}
