// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/deskhub/identity/pkg/errutil"
)

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondProblem sends an RFC7807 problem details response.
func respondProblem(w http.ResponseWriter, status int, title, detail string) {
	respondJSON(w, status, ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// respondError maps a domain error to an HTTP response. Coded domain
// failures keep their message as the problem detail; everything that
// maps to 500 is an infrastructure fault whose internals stay out of
// the response body and go to the log instead.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := errutil.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		errutil.LogError(logger, "request failed", err)
		respondProblem(w, status, "Internal Error", "")
		return
	}
	respondProblem(w, status, http.StatusText(status), err.Error())
}

// decodeJSON decodes a JSON request body into the target struct.
func decodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
