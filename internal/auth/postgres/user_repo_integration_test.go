// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

//go:build integration

package postgres_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/deskhub/identity/internal/auth"
	"github.com/deskhub/identity/internal/auth/postgres"
	"github.com/deskhub/identity/internal/store"
)

// setupPostgresContainer starts a migrated PostgreSQL container.
func setupPostgresContainer() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:16-alpine",
		pgcontainer.WithDatabase("identity_test"),
		pgcontainer.WithUsername("identity"),
		pgcontainer.WithPassword("identity"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	pool, err := store.NewPool(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup, nil
}

var _ = Describe("UserRepository", func() {
	var pool *pgxpool.Pool
	var repo *postgres.UserRepository
	var cleanup func()

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewUserRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	newUser := func(email string) *auth.User {
		now := time.Now().UTC().Truncate(time.Microsecond)
		return &auth.User{
			ID:           ulid.Make(),
			Email:        email,
			Name:         "john",
			PasswordHash: "$2a$10$hash",
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	Describe("Create", func() {
		It("stores a user retrievable by id and email", func() {
			ctx := context.Background()
			user := newUser("john@example.com")

			Expect(repo.Create(ctx, user)).To(Succeed())

			byID, err := repo.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(byID).To(Equal(user))

			byEmail, err := repo.GetByEmail(ctx, user.Email)
			Expect(err).NotTo(HaveOccurred())
			Expect(byEmail.ID).To(Equal(user.ID))
		})

		It("rejects a duplicate email with ErrEmailTaken", func() {
			ctx := context.Background()

			Expect(repo.Create(ctx, newUser("dup@example.com"))).To(Succeed())

			err := repo.Create(ctx, newUser("dup@example.com"))
			Expect(err).To(MatchError(auth.ErrEmailTaken))
		})
	})

	Describe("GetByEmail", func() {
		It("matches the stored address exactly", func() {
			ctx := context.Background()
			user := newUser("Exact@Example.com")

			Expect(repo.Create(ctx, user)).To(Succeed())

			_, err := repo.GetByEmail(ctx, "exact@example.com")
			Expect(err).To(MatchError(auth.ErrNotFound))

			found, err := repo.GetByEmail(ctx, "Exact@Example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(user.ID))
		})

		It("returns ErrNotFound for an unknown address", func() {
			_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("MarkEmailConfirmed", func() {
		It("flips the flag and stays confirmed on repeat", func() {
			ctx := context.Background()
			user := newUser("confirm@example.com")

			Expect(repo.Create(ctx, user)).To(Succeed())

			Expect(repo.MarkEmailConfirmed(ctx, user.ID)).To(Succeed())
			Expect(repo.MarkEmailConfirmed(ctx, user.ID)).To(Succeed())

			stored, err := repo.GetByID(ctx, user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.EmailConfirmed).To(BeTrue())
		})

		It("returns ErrNotFound for an unknown id", func() {
			err := repo.MarkEmailConfirmed(context.Background(), ulid.Make())
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})
})
