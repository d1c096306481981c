// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package main

import (
	"os"
	"strconv"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/deskhub/identity/internal/config"
	"github.com/deskhub/identity/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long: `Manage the schema of the identity database. The database URL is
taken from the IDENTITY_DATABASE_URL environment variable or the
config file.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					return m.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back all migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					return m.Down()
				})
			},
		},
		&cobra.Command{
			Use:   "steps <n>",
			Short: "Apply n migrations (negative rolls back)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_ARGUMENT").With("steps", args[0]).Wrap(err)
				}
				return withMigrator(cmd, func(m *store.Migrator) error {
					return m.Steps(n)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show the current migration version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, func(m *store.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					if version == 0 {
						cmd.Println("No migrations applied")
						return nil
					}
					cmd.Printf("Version: %d (dirty: %t)\n", version, dirty)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Force the migration version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return oops.Code("INVALID_ARGUMENT").With("version", args[0]).Wrap(err)
				}
				return withMigrator(cmd, func(m *store.Migrator) error {
					return m.Force(version)
				})
			},
		},
	)

	return cmd
}

// withMigrator resolves the database URL, runs fn against a fresh
// Migrator and always closes it.
func withMigrator(cmd *cobra.Command, fn func(*store.Migrator) error) error {
	databaseURL, err := resolveDatabaseURL()
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrf("Warning: failed to close migrator: %v\n", closeErr)
		}
	}()

	if err := fn(migrator); err != nil {
		return err
	}

	cmd.Println("Done")
	return nil
}

// resolveDatabaseURL prefers the environment variable so migrations can
// run in deploy pipelines without a full server config. With --config
// the complete file is loaded and must validate.
func resolveDatabaseURL() (string, error) {
	if url := os.Getenv("IDENTITY_DATABASE_URL"); url != "" {
		return url, nil
	}

	if path := resolveConfigFile(); path != "" {
		cfg, err := config.Load(path, nil)
		if err != nil {
			return "", err
		}
		return cfg.Database.URL, nil
	}

	return "", oops.Code("CONFIG_INVALID").
		Errorf("IDENTITY_DATABASE_URL environment variable is required")
}
