// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package auth implements the bearer-token authentication pipeline: parsing
// the openEO credential format, verifying tokens against the configured
// identity provider, evaluating authorization policies and provisioning
// local users.
package auth

import (
	"strings"

	"github.com/eodcgmbh/openeo-backend/pkg/errors"
)

// Method is the authentication method segment of a bearer credential.
type Method string

// Recognized authentication methods.
const (
	MethodBasic Method = "basic"
	MethodOIDC  Method = "oidc"
)

const bearerPrefix = "Bearer "

// BearerToken is the parsed form of an openEO bearer credential,
// `Bearer <method>/<provider>/<opaque-token>`.
type BearerToken struct {
	// Method is the authentication method, e.g. oidc.
	Method Method

	// Provider identifies the issuer the token belongs to.
	Provider string

	// Token is the opaque credential to present to the provider.
	Token string
}

// ParseBearerToken parses a raw Authorization header value into its three
// segments. Exactly one wire format is accepted; anything else fails with a
// validation error.
func ParseBearerToken(raw string) (BearerToken, error) {
	if !strings.HasPrefix(raw, bearerPrefix) {
		return BearerToken{}, errors.NewValidationError("authorization header is not a bearer credential", nil)
	}

	segments := strings.Split(strings.TrimPrefix(raw, bearerPrefix), "/")
	if len(segments) != 3 {
		return BearerToken{}, errors.NewValidationError("bearer credential is not of the form method/provider/token", nil)
	}

	method := Method(segments[0])
	switch method {
	case MethodBasic, MethodOIDC:
	default:
		return BearerToken{}, errors.NewValidationError("unknown authentication method", nil)
	}

	if segments[1] == "" {
		return BearerToken{}, errors.NewValidationError("bearer credential has an empty provider segment", nil)
	}
	if segments[2] == "" {
		return BearerToken{}, errors.NewValidationError("bearer credential has an empty token segment", nil)
	}

	return BearerToken{
		Method:   method,
		Provider: segments[1],
		Token:    segments[2],
	}, nil
}
