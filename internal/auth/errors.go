// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned when an email address is already registered.
var ErrEmailTaken = errors.New("email already used")

// ErrTokenInvalid is returned for tokens with a bad signature or encoding.
var ErrTokenInvalid = errors.New("token invalid")

// ErrTokenExpired is returned for well-formed tokens past their expiry.
// Kept distinct from ErrTokenInvalid so callers can offer a re-request.
var ErrTokenExpired = errors.New("token expired")
