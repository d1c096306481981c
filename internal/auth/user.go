// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// User represents a registered identity and its stored credential record.
// The password hash is one-way and self-describing (algorithm, cost and
// salt are embedded in the hash string); it is never logged or exposed.
type User struct {
	ID             ulid.ULID
	Email          string
	Name           string
	PasswordHash   string
	EmailConfirmed bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CredentialStore manages credential record persistence.
// Email lookups are exact-match: emails are stored and compared
// case-sensitively.
type CredentialStore interface {
	// Create stores a new user. Returns an error wrapping ErrEmailTaken
	// if the email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	// Returns ErrNotFound if no user has the given ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByEmail retrieves a user by email.
	// Returns ErrNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// MarkEmailConfirmed flips the email-confirmed flag to true.
	// The transition is one-way and idempotent: confirming an already
	// confirmed user is a no-op. Returns ErrNotFound for unknown IDs.
	MarkEmailConfirmed(ctx context.Context, id ulid.ULID) error
}
