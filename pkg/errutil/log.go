// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

// Package errutil provides helpers for working with oops errors:
// structured logging, HTTP status mapping, and test assertions.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code, and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	logWith(logger, slog.LevelError, msg, err)
}

// LogWarn logs an error at warning level with the same extraction rules
// as LogError. Used for best-effort operations whose failure is tolerated.
func LogWarn(logger *slog.Logger, msg string, err error) {
	logWith(logger, slog.LevelWarn, msg, err)
}

func logWith(logger *slog.Logger, level slog.Level, msg string, err error) {
	attrs := []any{"error", err.Error()}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	logger.Log(context.Background(), level, msg, attrs...)
}
