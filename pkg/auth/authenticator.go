// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	stderrors "errors"

	"github.com/eodcgmbh/openeo-backend/pkg/errors"
	"github.com/eodcgmbh/openeo-backend/pkg/logger"
	"github.com/eodcgmbh/openeo-backend/pkg/model"
	"github.com/eodcgmbh/openeo-backend/pkg/storage"
)

// Authenticator turns a raw Authorization header value into a local user.
// Alternate identity backends can be substituted by providing another
// implementation.
type Authenticator interface {
	// Authenticate validates the header value and returns the local user
	// it belongs to, provisioning one on first sight.
	Authenticate(ctx context.Context, authorization string) (model.User, error)
}

// tokenVerifier is the part of the issuer client the authenticator needs.
type tokenVerifier interface {
	ValidateToken(ctx context.Context, token string) (map[string]any, error)
}

// OIDCAuthenticator is the default Authenticator: it verifies OIDC bearer
// credentials through the issuer client and maps the provider subject onto
// a locally stored user.
type OIDCAuthenticator struct {
	issuer tokenVerifier
	users  storage.Repository[model.User]
}

var _ Authenticator = (*OIDCAuthenticator)(nil)

// NewOIDCAuthenticator builds the default authenticator.
func NewOIDCAuthenticator(issuer tokenVerifier, users storage.Repository[model.User]) *OIDCAuthenticator {
	return &OIDCAuthenticator{issuer: issuer, users: users}
}

// Authenticate implements Authenticator.
func (a *OIDCAuthenticator) Authenticate(ctx context.Context, authorization string) (model.User, error) {
	token, err := ParseBearerToken(authorization)
	if err != nil {
		return model.User{}, err
	}

	if token.Method != MethodOIDC {
		return model.User{}, errors.NewTokenCantBeValidatedError("the provided token cannot be validated", nil)
	}

	claims, err := a.issuer.ValidateToken(ctx, token.Token)
	if err != nil {
		return model.User{}, err
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return model.User{}, errors.NewTokenInvalidError("user profile carries no subject", nil)
	}

	return a.findOrCreate(ctx, subject)
}

// findOrCreate resolves the local user for a provider subject. Provisioning
// is try-create: when a concurrent first authentication wins the insert,
// the resulting conflict is resolved by re-reading exactly once.
func (a *OIDCAuthenticator) findOrCreate(ctx context.Context, subject string) (model.User, error) {
	filter := storage.Filter{Column: "subject", Value: subject}

	user, ok, err := a.users.GetFirstOrDefault(ctx, filter)
	if err != nil {
		return model.User{}, errors.NewInternalError("looking up user", err)
	}
	if ok {
		return user, nil
	}

	user = model.NewUser(subject)
	err = a.users.Create(ctx, user)
	if err == nil {
		logger.Infow("provisioned new user", "user_id", user.UserID.String())
		return user, nil
	}
	if !stderrors.Is(err, storage.ErrAlreadyExists) {
		return model.User{}, errors.NewInternalError("provisioning user", err)
	}

	// Lost the race against a concurrent first authentication; the row
	// exists now.
	user, ok, err = a.users.GetFirstOrDefault(ctx, filter)
	if err != nil {
		return model.User{}, errors.NewInternalError("re-reading user after conflict", err)
	}
	if !ok {
		return model.User{}, errors.NewInternalError("user vanished after create conflict", nil)
	}
	return user, nil
}
