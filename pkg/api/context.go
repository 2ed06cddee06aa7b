// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"

	"github.com/eodcgmbh/openeo-backend/pkg/model"
)

// userContextKey is the context key for the authenticated user.
type userContextKey struct{}

// WithUser returns a new context with the authenticated user attached.
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(model.User)
	return user, ok
}
