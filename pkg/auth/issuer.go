// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/eodcgmbh/openeo-backend/pkg/errors"
	"github.com/eodcgmbh/openeo-backend/pkg/logger"
)

const (
	wellKnownConfigPath = "/.well-known/openid-configuration"

	// maxResponseSize bounds provider responses to prevent DoS.
	maxResponseSize = 1024 * 1024

	userAgent = "openeo-backend/1.0"
)

// discoveryDocument is the subset of the OIDC discovery document the
// pipeline needs.
type discoveryDocument struct {
	Issuer           string `json:"issuer"`
	UserinfoEndpoint string `json:"userinfo_endpoint"`
	JWKSURI          string `json:"jwks_uri"`
}

// IssuerClient verifies tokens against one externally configured OIDC
// issuer. One verification is one pass over discovery, key fetch, signature
// check, profile fetch and policy evaluation; nothing is cached between
// calls.
type IssuerClient struct {
	issuer   string
	policies []Policy
	client   *http.Client
}

// NewIssuerClient builds a client for the given issuer URL. The timeout
// bounds every outbound call so a hung provider cannot stall request
// handling.
func NewIssuerClient(issuer string, timeout time.Duration, policies []Policy) *IssuerClient {
	if len(policies) == 0 {
		logger.Warn("no authorization policies configured, any verified user is admitted")
	}
	return &IssuerClient{
		issuer:   strings.TrimSuffix(issuer, "/"),
		policies: policies,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
	}
}

// Issuer returns the normalized issuer URL.
func (c *IssuerClient) Issuer() string {
	return c.issuer
}

// ValidateToken runs the full verification pipeline for one access token
// and returns the verified user profile claims.
func (c *IssuerClient) ValidateToken(ctx context.Context, token string) (map[string]any, error) {
	doc, err := c.discover(ctx)
	if err != nil {
		return nil, err
	}

	keySet, err := c.fetchKeys(ctx, doc.JWKSURI)
	if err != nil {
		return nil, err
	}

	if err := c.verifySignature(token, keySet); err != nil {
		return nil, err
	}

	claims, err := c.fetchProfile(ctx, doc.UserinfoEndpoint, token)
	if err != nil {
		return nil, err
	}

	if !Evaluate(c.policies, claims) {
		return nil, errors.NewAuthorizationDeniedError("user does not match any authorization policy", nil)
	}

	return claims, nil
}

// discover fetches the issuer's well-known configuration document.
func (c *IssuerClient) discover(ctx context.Context) (*discoveryDocument, error) {
	body, err := c.get(ctx, c.issuer+wellKnownConfigPath, "")
	if err != nil {
		return nil, errors.NewConfigurationError("identity provider discovery failed", err)
	}

	var doc discoveryDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.NewConfigurationError("identity provider discovery document is malformed", err)
	}
	if doc.JWKSURI == "" || doc.UserinfoEndpoint == "" {
		return nil, errors.NewConfigurationError("identity provider discovery document is missing required endpoints", nil)
	}
	return &doc, nil
}

// fetchKeys retrieves and parses the provider's signing key set.
func (c *IssuerClient) fetchKeys(ctx context.Context, jwksURI string) (jwk.Set, error) {
	body, err := c.get(ctx, jwksURI, "")
	if err != nil {
		return nil, errors.NewConfigurationError("fetching the identity provider key set failed", err)
	}

	keySet, err := jwk.Parse(body)
	if err != nil {
		return nil, errors.NewConfigurationError("identity provider key set is malformed", err)
	}
	return keySet, nil
}

// verifySignature checks the token signature against the key whose id
// matches the token header, and the issuer claim against the expected
// issuer.
func (c *IssuerClient) verifySignature(token string, keySet jwk.Set) error {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("token header missing kid")
		}
		key, found := keySet.LookupKeyID(kid)
		if !found {
			return nil, fmt.Errorf("key id %s not found in provider key set", kid)
		}
		var rawKey any
		if err := jwk.Export(key, &rawKey); err != nil {
			return nil, fmt.Errorf("exporting raw key: %w", err)
		}
		return rawKey, nil
	}, jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}))
	if err != nil {
		return errors.NewTokenInvalidError("token signature could not be verified", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return errors.NewTokenInvalidError("token carries no claims", nil)
	}
	issuer, err := claims.GetIssuer()
	if err != nil {
		return errors.NewTokenInvalidError("token carries no issuer claim", err)
	}
	if strings.TrimSuffix(issuer, "/") != c.issuer {
		return errors.NewTokenInvalidError("token was issued by a different issuer", nil)
	}
	return nil
}

// fetchProfile calls the provider's userinfo endpoint with the raw token.
func (c *IssuerClient) fetchProfile(ctx context.Context, userinfoURL, token string) (map[string]any, error) {
	body, err := c.get(ctx, userinfoURL, token)
	if err != nil {
		return nil, errors.NewTokenInvalidError("the provided token is not valid", err)
	}

	var claims map[string]any
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, errors.NewTokenInvalidError("user profile response is malformed", err)
	}
	return claims, nil
}

// get performs one bounded GET, optionally with a bearer token, and returns
// the body of a 2xx response.
func (c *IssuerClient) get(ctx context.Context, url, bearer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return body, nil
}
