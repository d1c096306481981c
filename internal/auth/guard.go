// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package auth

import (
	"strings"

	"github.com/samber/oops"
)

// bearerScheme is the only accepted Authorization scheme, case-sensitive.
const bearerScheme = "Bearer"

// Guard makes the request-time access decision: given an Authorization
// header value, produce the authenticated claims or reject. It is a pure
// function of the header plus the codec's fixed secret, safe for any
// number of concurrent requests.
type Guard struct {
	codec *TokenCodec
}

// NewGuard creates a Guard delegating token verification to the codec.
func NewGuard(codec *TokenCodec) (*Guard, error) {
	if codec == nil {
		return nil, oops.Errorf("token codec is required")
	}
	return &Guard{codec: codec}, nil
}

// Authorize validates an Authorization header value and returns the
// session claims. The header must be exactly "Bearer <token>": a single
// space, case-sensitive scheme, non-empty token with no embedded
// whitespace. Every failure - wrong shape, bad signature, expiry -
// collapses into AUTH_UNAUTHORIZED; at this boundary callers only need
// allowed vs not allowed.
func (g *Guard) Authorize(headerValue string) (*Claims, error) {
	scheme, token, found := strings.Cut(headerValue, " ")
	if !found || scheme != bearerScheme || token == "" || strings.ContainsAny(token, " \t") {
		return nil, oops.Code("AUTH_UNAUTHORIZED").Errorf("missing or malformed bearer token")
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return nil, oops.Code("AUTH_UNAUTHORIZED").Wrap(err)
	}
	return claims, nil
}
