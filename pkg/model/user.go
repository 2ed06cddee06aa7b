// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package model holds the in-memory domain entities of the openEO backend
// and the patch-merge logic used when a client submits a partial update.
package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a locally provisioned identity. It is created by the authenticator
// on the first successful authentication for a given subject and never
// mutated afterwards.
type User struct {
	// UserID is the backend's own identifier for the user.
	UserID uuid.UUID `json:"user_id"`

	// Subject is the stable identifier issued by the identity provider.
	Subject string `json:"subject"`

	// CreatedAt is when the user was first provisioned.
	CreatedAt time.Time `json:"created_at"`
}

// NewUser provisions a user for a provider subject.
func NewUser(subject string) User {
	return User{
		UserID:    uuid.New(),
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
	}
}
