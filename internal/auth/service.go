// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/deskhub/identity/pkg/errutil"
)

// dummyPasswordHash is verified against when a user doesn't exist so the
// unknown-email and wrong-password paths take comparable time.
// This is NOT a real credential - it's a fake hash that will never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$2a$10$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service orchestrates the hasher, token codec, credential store and
// notifier into the authentication decisions. Every operation is a
// single atomic decision over its arguments plus fixed configuration;
// the service holds no mutable state and is safe for concurrent use.
type Service struct {
	store    CredentialStore
	hasher   PasswordHasher
	codec    *TokenCodec
	notifier Notifier
	logger   *slog.Logger
}

// NewService creates a new Service using the default logger.
func NewService(store CredentialStore, hasher PasswordHasher, codec *TokenCodec, notifier Notifier) (*Service, error) {
	return NewServiceWithLogger(store, hasher, codec, notifier, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(store CredentialStore, hasher PasswordHasher, codec *TokenCodec, notifier Notifier, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, oops.Errorf("credential store is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if codec == nil {
		return nil, oops.Errorf("token codec is required")
	}
	if notifier == nil {
		return nil, oops.Errorf("notifier is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		store:    store,
		hasher:   hasher,
		codec:    codec,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// SignIn verifies email/password credentials and returns a session token.
//
// Unknown email and wrong password both fail with AUTH_INVALID_CREDENTIALS
// so the response does not reveal which one it was. An unconfirmed account
// with a known email gets its confirmation mail re-sent and fails with the
// distinct AUTH_EMAIL_NOT_CONFIRMED, before the password is even checked;
// lost confirmation mails are the common support case and the resend is
// deliberate. Store faults propagate unmodified - they are never converted
// into a credentials failure.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Burn a hash comparison anyway to keep timing comparable.
			s.hasher.Verify(password, dummyPasswordHash)
			return "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid credentials")
		}
		return "", oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	if !user.EmailConfirmed {
		token, err := s.codec.IssueConfirmation(user.ID)
		if err != nil {
			return "", oops.Code("AUTH_SIGNIN_FAILED").
				With("operation", "issue confirmation token").
				Wrap(err)
		}
		if err := s.notifier.SendConfirmation(ctx, user, token); err != nil {
			errutil.LogWarn(s.logger, "best-effort confirmation resend failed", err)
		}
		return "", oops.Code("AUTH_EMAIL_NOT_CONFIRMED").Errorf("please confirm your email")
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid credentials")
	}

	token, err := s.codec.IssueSession(user.ID, user.Name)
	if err != nil {
		return "", oops.Code("AUTH_SIGNIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}
	return token, nil
}

// RequestPasswordReset issues a reset token and dispatches the reset link.
// An unknown email succeeds silently with no token and no dispatch, so the
// caller-visible outcome never reveals whether the address is registered.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	token, err := s.codec.IssueConfirmation(user.ID)
	if err != nil {
		return oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "issue reset token").
			Wrap(err)
	}
	if err := s.notifier.SendPasswordReset(ctx, user, token); err != nil {
		errutil.LogWarn(s.logger, "best-effort password reset dispatch failed", err)
	}
	return nil
}

// IssueEmailConfirmation mints a confirmation token for a newly
// registered identity. Delivery is the caller's concern.
func (s *Service) IssueEmailConfirmation(id ulid.ULID) (string, error) {
	return s.codec.IssueConfirmation(id)
}

// ConfirmEmail verifies a confirmation token and flips the subject's
// email-confirmed flag. Token failures propagate with their kind intact
// (TOKEN_INVALID vs TOKEN_EXPIRED). Confirming an already confirmed user
// is a no-op; a token whose subject no longer exists counts as invalid.
func (s *Service) ConfirmEmail(ctx context.Context, token string) error {
	claims, err := s.codec.Verify(token)
	if err != nil {
		return err
	}

	id, err := ulid.Parse(claims.ID)
	if err != nil {
		return oops.Code("TOKEN_INVALID").
			With("operation", "parse subject id").
			Wrap(ErrTokenInvalid)
	}

	if err := s.store.MarkEmailConfirmed(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("TOKEN_INVALID").
				With("id", claims.ID).
				Wrap(ErrTokenInvalid)
		}
		return oops.Code("AUTH_CONFIRM_FAILED").
			With("operation", "mark email confirmed").
			Wrap(err)
	}
	return nil
}

// Register creates a new unconfirmed identity and dispatches its
// confirmation link. The email must be unused and the password must
// match its confirmation.
func (s *Service) Register(ctx context.Context, email, name, password, passwordConfirmation string) (*User, error) {
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, oops.Code("USER_EMAIL_TAKEN").Wrap(ErrEmailTaken)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("USER_REGISTER_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	if password != passwordConfirmation {
		return nil, oops.Code("USER_PASSWORD_MISMATCH").
			Errorf("password and password confirmation do not match")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:           ulid.Make(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, oops.Code("USER_EMAIL_TAKEN").Wrap(err)
		}
		return nil, oops.Code("USER_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	token, err := s.codec.IssueConfirmation(user.ID)
	if err != nil {
		errutil.LogWarn(s.logger, "best-effort confirmation token issuance failed", err)
		return user, nil
	}
	if err := s.notifier.SendConfirmation(ctx, user, token); err != nil {
		errutil.LogWarn(s.logger, "best-effort confirmation dispatch failed", err)
	}
	return user, nil
}
