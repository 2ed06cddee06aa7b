// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eodcgmbh/openeo-backend/pkg/errors"
	"github.com/eodcgmbh/openeo-backend/pkg/model"
	"github.com/eodcgmbh/openeo-backend/pkg/storage"
	"github.com/eodcgmbh/openeo-backend/pkg/storage/sqlite"
)

// fakeVerifier stands in for the issuer client.
type fakeVerifier struct {
	claims map[string]any
	err    error
}

func (f *fakeVerifier) ValidateToken(context.Context, string) (map[string]any, error) {
	return f.claims, f.err
}

// fakeUserRepo is an in-memory user repository used to exercise the
// provisioning race paths that a real store cannot produce on demand.
type fakeUserRepo struct {
	users            map[string]model.User
	conflictOnCreate bool
	creates          int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user model.User) error {
	r.creates++
	if r.conflictOnCreate {
		// Simulate a concurrent first authentication winning the insert.
		r.users[user.Subject] = model.NewUser(user.Subject)
		return storage.ErrAlreadyExists
	}
	if _, ok := r.users[user.Subject]; ok {
		return storage.ErrAlreadyExists
	}
	r.users[user.Subject] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, key ...any) (model.User, error) {
	for _, u := range r.users {
		if u.UserID.String() == key[0] {
			return u, nil
		}
	}
	return model.User{}, storage.ErrNotFound
}

func (r *fakeUserRepo) List(context.Context, *storage.Filter) ([]model.User, error) {
	var all []model.User
	for _, u := range r.users {
		all = append(all, u)
	}
	return all, nil
}

func (r *fakeUserRepo) Modify(_ context.Context, user model.User) error {
	r.users[user.Subject] = user
	return nil
}

func (r *fakeUserRepo) Delete(context.Context, ...any) error { return nil }

func (r *fakeUserRepo) GetFirstOrDefault(_ context.Context, filter storage.Filter) (model.User, bool, error) {
	subject, _ := filter.Value.(string)
	user, ok := r.users[subject]
	return user, ok, nil
}

func TestAuthenticate_UnsupportedMethod(t *testing.T) {
	t.Parallel()

	authenticator := NewOIDCAuthenticator(&fakeVerifier{}, newFakeUserRepo())

	_, err := authenticator.Authenticate(context.Background(), "Bearer basic/openeo/abc123")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.ErrTokenCantBeValidated), "got %v", err)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	t.Parallel()

	authenticator := NewOIDCAuthenticator(&fakeVerifier{}, newFakeUserRepo())

	_, err := authenticator.Authenticate(context.Background(), "Bearer badtoken")
	assert.True(t, errors.IsKind(err, errors.ErrValidation), "got %v", err)
}

func TestAuthenticate_VerifierErrorsPropagate(t *testing.T) {
	t.Parallel()

	verifier := &fakeVerifier{err: errors.NewAuthorizationDeniedError("user does not match any authorization policy", nil)}
	authenticator := NewOIDCAuthenticator(verifier, newFakeUserRepo())

	_, err := authenticator.Authenticate(context.Background(), "Bearer oidc/issuer/abc123")
	assert.True(t, errors.IsKind(err, errors.ErrAuthorizationDenied), "got %v", err)
}

func TestAuthenticate_MissingSubject(t *testing.T) {
	t.Parallel()

	verifier := &fakeVerifier{claims: map[string]any{"email": "user@example.org"}}
	authenticator := NewOIDCAuthenticator(verifier, newFakeUserRepo())

	_, err := authenticator.Authenticate(context.Background(), "Bearer oidc/issuer/abc123")
	assert.True(t, errors.IsKind(err, errors.ErrTokenInvalid), "got %v", err)
}

func TestAuthenticate_FirstTimeProvisioning(t *testing.T) {
	t.Parallel()

	db, err := sqlite.Open(t.Context(), filepath.Join(t.TempDir(), "auth-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	users, err := sqlite.NewUserStore(db)
	require.NoError(t, err)

	verifier := &fakeVerifier{claims: map[string]any{"sub": "never-seen-before"}}
	authenticator := NewOIDCAuthenticator(verifier, users)

	first, err := authenticator.Authenticate(t.Context(), "Bearer oidc/issuer/abc123")
	require.NoError(t, err)
	assert.Equal(t, "never-seen-before", first.Subject)

	// Authenticating the same subject again returns the same user and
	// creates no duplicate row.
	second, err := authenticator.Authenticate(t.Context(), "Bearer oidc/issuer/abc123")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)

	all, err := users.List(t.Context(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAuthenticate_CreateConflictFallsBackToRead(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	repo.conflictOnCreate = true

	verifier := &fakeVerifier{claims: map[string]any{"sub": "raced-subject"}}
	authenticator := NewOIDCAuthenticator(verifier, repo)

	user, err := authenticator.Authenticate(context.Background(), "Bearer oidc/issuer/abc123")
	require.NoError(t, err)
	assert.Equal(t, "raced-subject", user.Subject)
	assert.Equal(t, 1, repo.creates)
}
