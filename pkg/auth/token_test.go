// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eodcgmbh/openeo-backend/pkg/errors"
)

func TestParseBearerToken(t *testing.T) {
	t.Parallel()

	token, err := ParseBearerToken("Bearer oidc/issuer/abc123")
	require.NoError(t, err)
	assert.Equal(t, MethodOIDC, token.Method)
	assert.Equal(t, "issuer", token.Provider)
	assert.Equal(t, "abc123", token.Token)

	token, err = ParseBearerToken("Bearer basic/openeo/rubbish.not.a.token")
	require.NoError(t, err)
	assert.Equal(t, MethodBasic, token.Method)
	assert.Equal(t, "openeo", token.Provider)
}

func TestParseBearerToken_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"no bearer prefix", "oidc/issuer/abc123"},
		{"lowercase prefix", "bearer oidc/issuer/abc123"},
		{"not three segments", "Bearer badtoken"},
		{"four segments", "Bearer /basic/openeo/rubbish.not.a.token"},
		{"no separators", "Bearer basicopeneorubbish.not.a.token"},
		{"empty method", "Bearer //abc"},
		{"empty provider", "Bearer oidc//abc"},
		{"empty token", "Bearer oidc/issuer/"},
		{"unknown method", "Bearer saml/issuer/abc"},
		{"empty string", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseBearerToken(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.ErrValidation), "want validation error, got %v", err)
		})
	}
}
