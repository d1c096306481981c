// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package errutil

import (
	"net/http"

	"github.com/samber/oops"
)

// statusByCode maps domain error codes to HTTP status codes. Codes not
// listed here - including infrastructure faults - fall through to 500,
// so an unexpected fault is never dressed up as a security outcome.
var statusByCode = map[string]int{
	"AUTH_INVALID_CREDENTIALS": http.StatusUnauthorized,
	"AUTH_EMAIL_NOT_CONFIRMED": http.StatusUnauthorized,
	"AUTH_UNAUTHORIZED":        http.StatusUnauthorized,
	"TOKEN_INVALID":            http.StatusBadRequest,
	"TOKEN_EXPIRED":            http.StatusBadRequest,
	"USER_EMAIL_TAKEN":         http.StatusBadRequest,
	"USER_PASSWORD_MISMATCH":   http.StatusBadRequest,
	"AUTH_EMPTY_PASSWORD":      http.StatusBadRequest,
	"VALIDATION_FAILED":        http.StatusBadRequest,
}

// HTTPStatus returns the HTTP status code for an error based on its
// oops code. Non-oops errors and unknown codes map to 500.
func HTTPStatus(err error) int {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return http.StatusInternalServerError
	}
	code, ok := oopsErr.Code().(string)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
