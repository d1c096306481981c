// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package auth

import "context"

// Notifier delivers confirmation and reset links to users. The engine
// only depends on this capability; delivery transport lives elsewhere.
// Dispatch is best effort: the engine logs failures and never lets a
// delivery error block the caller-visible outcome.
type Notifier interface {
	// SendConfirmation delivers an email-confirmation link carrying the token.
	SendConfirmation(ctx context.Context, user *User, token string) error

	// SendPasswordReset delivers a password-reset link carrying the token.
	SendPasswordReset(ctx context.Context, user *User, token string) error
}
