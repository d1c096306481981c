// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package httpapi

import (
	"context"
	"net/http"

	"github.com/deskhub/identity/internal/auth"
)

type contextKey int

const claimsKey contextKey = iota

// ClaimsFromContext returns the authenticated session claims stored by
// the requireAuth middleware, or nil outside a guarded route.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// requireAuth rejects requests without a valid bearer token and makes
// the verified claims available downstream. Every failure answers 401
// with the same problem body.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := h.guard.Authorize(r.Header.Get("Authorization"))
		if err != nil {
			respondProblem(w, http.StatusUnauthorized, "Unauthorized", "missing or invalid bearer token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
