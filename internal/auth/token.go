// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/deskhub/identity/internal/observability"
)

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 30 * time.Minute

// Claims is the payload embedded in and recovered from a signed token.
// Session tokens carry id and name; confirmation and reset tokens carry
// only the id. Claims are immutable once issued: a token is a signed
// snapshot, never mutated, only reissued.
type Claims struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs claim sets into opaque bearer strings and verifies
// them back, enforcing expiry. The signing secret and default TTL are
// fixed at construction; the codec holds no other state and is safe for
// unlimited concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a TokenCodec with the given signing secret and
// default time-to-live. A non-positive TTL falls back to DefaultTokenTTL.
func NewTokenCodec(secret []byte, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, oops.Code("TOKEN_CONFIG_INVALID").Errorf("signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: secret, ttl: ttl}, nil
}

// TTL returns the configured default time-to-live.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue serializes the id/name claims plus issued-at and expiry, signs
// with the codec secret and returns the compact token string. Issuing
// the same claims at different instants yields different strings.
func (c *TokenCodec) Issue(id, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:   id,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("operation", "sign token").Wrap(err)
	}
	return token, nil
}

// IssueSession mints a session token carrying the identity id and name.
func (c *TokenCodec) IssueSession(id ulid.ULID, name string) (string, error) {
	token, err := c.Issue(id.String(), name, c.ttl)
	if err == nil {
		observability.RecordTokenIssued("session")
	}
	return token, err
}

// IssueConfirmation mints a token carrying only the identity id, used
// for email confirmation and password reset links.
func (c *TokenCodec) IssueConfirmation(id ulid.ULID) (string, error) {
	token, err := c.Issue(id.String(), "", c.ttl)
	if err == nil {
		observability.RecordTokenIssued("confirmation")
	}
	return token, err
}

// Verify parses and validates a token string and returns its claims.
// Failure kinds are distinct: TOKEN_EXPIRED wraps ErrTokenExpired for a
// legitimate token past its expiry, TOKEN_INVALID wraps ErrTokenInvalid
// for everything else (bad signature, malformed encoding, wrong
// algorithm, missing subject).
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, oops.Code("TOKEN_EXPIRED").Wrap(ErrTokenExpired)
		}
		return nil, oops.Code("TOKEN_INVALID").Wrap(ErrTokenInvalid)
	}
	if !token.Valid || claims.ID == "" {
		return nil, oops.Code("TOKEN_INVALID").Wrap(ErrTokenInvalid)
	}
	return claims, nil
}
