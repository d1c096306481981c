// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

const (
	requestTimeout = 30 * time.Second

	// credentialRateLimit caps per-IP attempts on the endpoints that
	// accept credentials or probe for account existence.
	credentialRateLimit  = 10
	credentialRateWindow = time.Minute
)

// NewRouter assembles the HTTP routes with the standard middleware
// chain. The sign-in and forgot-password endpoints carry an extra
// per-IP rate limit.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	credentialLimit := httprate.Limit(
		credentialRateLimit,
		credentialRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)

	r.Route("/auth", func(r chi.Router) {
		r.With(credentialLimit).Post("/login", h.handleSignIn)
		r.With(credentialLimit).Post("/forgot-password", h.handleForgotPassword)
		r.Get("/confirm", h.handleConfirmEmail)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.With(h.requireAuth).Get("/me", h.handleMe)
	})

	return r
}
