// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/deskhub/identity/internal/auth"
	"github.com/deskhub/identity/internal/auth/postgres"
	"github.com/deskhub/identity/internal/config"
	"github.com/deskhub/identity/internal/httpapi"
	"github.com/deskhub/identity/internal/logging"
	"github.com/deskhub/identity/internal/mail"
	"github.com/deskhub/identity/internal/observability"
	"github.com/deskhub/identity/internal/store"
	"github.com/deskhub/identity/pkg/errutil"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the identity server",
		Long: `Start the identity server: the public HTTP API, the observability
endpoints and the connection to PostgreSQL and the SMTP relay.`,
		RunE: runServe,
	}

	registerConfigFlags(cmd.Flags())

	return cmd
}

// registerConfigFlags declares the flags that override config file
// values. Flag defaults mirror the built-in config defaults so an
// untouched flag never masks a file value. The token secret and mail
// password deliberately have no flags; they would end up in shell
// history and process listings.
func registerConfigFlags(flags *pflag.FlagSet) {
	def := config.Default()

	flags.String("http.addr", def.HTTP.Addr, "public API listen address")
	flags.String("http.base_url", def.HTTP.BaseURL, "externally reachable base URL used in mailed links")
	flags.String("metrics.addr", def.Metrics.Addr, "metrics/health listen address")
	flags.String("database.url", "", "PostgreSQL connection URL")
	flags.Duration("auth.token_ttl", def.Auth.TokenTTL, "token time-to-live")
	flags.Int("auth.bcrypt_cost", def.Auth.BcryptCost, "bcrypt work factor")
	flags.String("mail.host", "", "SMTP relay host")
	flags.Int("mail.port", def.Mail.Port, "SMTP relay port")
	flags.String("mail.username", "", "SMTP relay username")
	flags.String("mail.from", "", "From address for notification mails")
	flags.String("log.format", def.Log.Format, "log format (json or text)")
	flags.String("log.level", def.Log.Level, "log level (debug, info, warn or error)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(resolveConfigFile(), cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("identity", version, cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	slog.Info("connected to database")

	repo := postgres.NewUserRepository(pool)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.TokenSecret), cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	sender, err := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
		From:     cfg.Mail.From,
	})
	if err != nil {
		return err
	}
	notifier, err := mail.NewService(sender, cfg.HTTP.BaseURL)
	if err != nil {
		return err
	}

	service, err := auth.NewService(repo, hasher, codec, notifier)
	if err != nil {
		return err
	}
	guard, err := auth.NewGuard(codec)
	if err != nil {
		return err
	}

	// Readiness follows the database: a server that cannot reach its
	// credential store cannot answer anything useful.
	obsServer := observability.NewServer(cfg.Metrics.Addr, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(pingCtx) == nil
	})
	obsErrCh, err := obsServer.Start()
	if err != nil {
		return err
	}

	handler, err := httpapi.NewHandler(slog.Default(), service, guard, obsServer.Metrics())
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			serveErrCh <- serveErr
		}
	}()

	cmd.Println("identityd started")
	slog.Info("identity server ready",
		"addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
	)

	select {
	case <-ctx.Done():
		slog.Info("received shutdown signal")
	case serveErr := <-serveErrCh:
		errutil.LogError(slog.Default(), "http server failed", serveErr)
	case obsErr, ok := <-obsErrCh:
		if ok && obsErr != nil {
			errutil.LogError(slog.Default(), "observability server failed", obsErr)
		}
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("error shutting down http server", "error", err)
	}
	if err := obsServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
