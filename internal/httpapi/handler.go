// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

// Package httpapi exposes the authentication flows over HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"

	"github.com/deskhub/identity/internal/auth"
	"github.com/deskhub/identity/internal/observability"
)

// forgotPasswordMessage is the constant response for a password reset
// request. Hit or miss, the caller sees the same body.
const forgotPasswordMessage = "if the email exists, the reset instructions will be sent"

// Handler wires the HTTP endpoints for the authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *auth.Service
	guard     *auth.Guard
	metrics   *observability.Metrics
	validator *validator.Validate
}

// NewHandler constructs a Handler. metrics may be nil; outcome counters
// are then skipped.
func NewHandler(logger *slog.Logger, service *auth.Service, guard *auth.Guard, metrics *observability.Metrics) (*Handler, error) {
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	if service == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if guard == nil {
		return nil, oops.Errorf("guard is required")
	}
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		metrics:   metrics,
		validator: validator.New(),
	}, nil
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type registerRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Name                 string `json:"name" validate:"required"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

type userResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		respondProblem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondProblem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	token, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordSignIn(signInOutcome(err))
		respondError(w, h.logger, err)
		return
	}

	h.recordSignIn("success")
	respondJSON(w, http.StatusOK, signInResponse{AccessToken: token})
}

func (h *Handler) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.recordConfirmation("invalid")
		respondProblem(w, http.StatusBadRequest, "Bad Request", "token is required")
		return
	}

	if err := h.service.ConfirmEmail(r.Context(), token); err != nil {
		h.recordConfirmation(confirmationOutcome(err))
		respondError(w, h.logger, err)
		return
	}

	h.recordConfirmation("success")
	respondJSON(w, http.StatusOK, messageResponse{Message: "Email confirmed"})
}

func (h *Handler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondProblem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondProblem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: forgotPasswordMessage})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondProblem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondProblem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password, req.PasswordConfirmation)
	if err != nil {
		h.recordRegistration(registrationOutcome(err))
		respondError(w, h.logger, err)
		return
	}

	h.recordRegistration("success")
	respondJSON(w, http.StatusCreated, userResponse{
		ID:             user.ID.String(),
		Email:          user.Email,
		Name:           user.Name,
		EmailConfirmed: user.EmailConfirmed,
		CreatedAt:      user.CreatedAt,
	})
}

// handleMe answers with the claims of the presented token. The token is
// self-contained, so no store round trip is needed.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		respondProblem(w, http.StatusUnauthorized, "Unauthorized", "missing or invalid bearer token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":   claims.ID,
		"name": claims.Name,
	})
}

// validationDetail flattens validator errors into a single detail line.
func validationDetail(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid request"
	}
	detail := ""
	for i, fieldErr := range errs {
		if i > 0 {
			detail += "; "
		}
		detail += fieldErr.Field() + " failed on " + fieldErr.Tag()
	}
	return detail
}

func errorCode(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok {
			return code
		}
	}
	return ""
}

func signInOutcome(err error) string {
	switch errorCode(err) {
	case "AUTH_INVALID_CREDENTIALS":
		return "invalid_credentials"
	case "AUTH_EMAIL_NOT_CONFIRMED":
		return "email_not_confirmed"
	default:
		return "error"
	}
}

func confirmationOutcome(err error) string {
	switch errorCode(err) {
	case "TOKEN_INVALID":
		return "invalid"
	case "TOKEN_EXPIRED":
		return "expired"
	default:
		return "error"
	}
}

func registrationOutcome(err error) string {
	switch errorCode(err) {
	case "USER_EMAIL_TAKEN":
		return "email_taken"
	case "USER_PASSWORD_MISMATCH":
		return "password_mismatch"
	default:
		return "error"
	}
}

func (h *Handler) recordSignIn(outcome string) {
	if h.metrics != nil {
		h.metrics.SignInsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) recordConfirmation(outcome string) {
	if h.metrics != nil {
		h.metrics.ConfirmationsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) recordRegistration(outcome string) {
	if h.metrics != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
	}
}
