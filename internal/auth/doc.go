// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

// Package auth implements credential verification and token lifecycle
// for DeskHub identities: password hashing, signed bearer tokens for
// sessions and email flows, the sign-in decision, and the request-time
// access guard.
package auth
