// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhub/identity/internal/auth"
	"github.com/deskhub/identity/internal/auth/postgres"
)

func testUser() *auth.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &auth.User{
		ID:           ulid.Make(),
		Email:        "john@example.com",
		Name:         "john",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	user := testUser()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful insert",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(
						user.ID.String(),
						user.Email,
						user.Name,
						user.PasswordHash,
						user.EmailConfirmed,
						user.CreatedAt,
						user.UpdatedAt,
					).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "duplicate email maps to ErrEmailTaken",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(
						user.ID.String(),
						user.Email,
						user.Name,
						user.PasswordHash,
						user.EmailConfirmed,
						user.CreatedAt,
						user.UpdatedAt,
					).
					WillReturnError(&pgconn.PgError{
						Code:           pgerrcode.UniqueViolation,
						ConstraintName: "users_email_key",
					})
			},
			wantErr: auth.ErrEmailTaken,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs(
						user.ID.String(),
						user.Email,
						user.Name,
						user.PasswordHash,
						user.EmailConfirmed,
						user.CreatedAt,
						user.UpdatedAt,
					).
					WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := postgres.NewUserRepository(mock)
			err = repo.Create(context.Background(), user)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	user := testUser()
	user.EmailConfirmed = true

	t.Run("returns user by id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		rows := pgxmock.NewRows([]string{
			"id", "email", "name", "password_hash", "email_confirmed",
			"created_at", "updated_at",
		}).AddRow(
			user.ID.String(), user.Email, user.Name, user.PasswordHash,
			user.EmailConfirmed, user.CreatedAt, user.UpdatedAt,
		)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(user.ID.String()).
			WillReturnRows(rows)

		repo := postgres.NewUserRepository(mock)
		got, err := repo.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, got)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("returns ErrNotFound for non-existent id", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		id := ulid.Make()
		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "email", "name", "password_hash", "email_confirmed",
				"created_at", "updated_at",
			}))

		repo := postgres.NewUserRepository(mock)
		got, err := repo.GetByID(context.Background(), id)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("corrupt id column fails the scan", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		id := ulid.Make()
		rows := pgxmock.NewRows([]string{
			"id", "email", "name", "password_hash", "email_confirmed",
			"created_at", "updated_at",
		}).AddRow(
			"not-a-ulid", user.Email, user.Name, user.PasswordHash,
			user.EmailConfirmed, user.CreatedAt, user.UpdatedAt,
		)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs(id.String()).
			WillReturnRows(rows)

		repo := postgres.NewUserRepository(mock)
		got, err := repo.GetByID(context.Background(), id)
		assert.Nil(t, got)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestUserRepository_GetByEmail(t *testing.T) {
	user := testUser()

	t.Run("returns user by exact email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		rows := pgxmock.NewRows([]string{
			"id", "email", "name", "password_hash", "email_confirmed",
			"created_at", "updated_at",
		}).AddRow(
			user.ID.String(), user.Email, user.Name, user.PasswordHash,
			user.EmailConfirmed, user.CreatedAt, user.UpdatedAt,
		)
		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs(user.Email).
			WillReturnRows(rows)

		repo := postgres.NewUserRepository(mock)
		got, err := repo.GetByEmail(context.Background(), user.Email)
		require.NoError(t, err)
		assert.Equal(t, user, got)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("returns ErrNotFound for unknown email", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs("ghost@example.com").
			WillReturnRows(pgxmock.NewRows([]string{
				"id", "email", "name", "password_hash", "email_confirmed",
				"created_at", "updated_at",
			}))

		repo := postgres.NewUserRepository(mock)
		got, err := repo.GetByEmail(context.Background(), "ghost@example.com")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})

	t.Run("database error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err, "failed to create mock")
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
			WithArgs(user.Email).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewUserRepository(mock)
		got, err := repo.GetByEmail(context.Background(), user.Email)
		assert.Nil(t, got)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.NotErrorIs(t, err, auth.ErrNotFound, "a fault is not a miss")
		assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
	})
}

func TestUserRepository_MarkEmailConfirmed(t *testing.T) {
	id := ulid.Make()

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "confirms existing user",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET email_confirmed = TRUE`).
					WithArgs(id.String(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "already confirmed user still matches the row",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				// The update is unconditional on the current flag value.
				mock.ExpectExec(`UPDATE users SET email_confirmed = TRUE`).
					WithArgs(id.String(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "unknown user maps to ErrNotFound",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET email_confirmed = TRUE`).
					WithArgs(id.String(), pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: auth.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users SET email_confirmed = TRUE`).
					WithArgs(id.String(), pgxmock.AnyArg()).
					WillReturnError(errors.New("disk full"))
			},
			errMsg: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err, "failed to create mock")
			defer mock.Close()

			tt.setupMock(mock)

			repo := postgres.NewUserRepository(mock)
			err = repo.MarkEmailConfirmed(context.Background(), id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}
