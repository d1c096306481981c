// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package mail

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/samber/oops"

	"github.com/deskhub/identity/internal/auth"
	"github.com/deskhub/identity/internal/observability"
)

const (
	confirmationSubject = "Welcome to DeskHub! Confirm your Email"
	resetSubject        = "DeskHub | Reset Password"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<p>Hi {{.Name}},</p>
<p>Thanks for signing up. Please confirm your email address:</p>
<p><a href="{{.URL}}">Confirm your email</a></p>
<p>If you did not create an account, you can ignore this mail.</p>`))

var resetTmpl = template.Must(template.New("reset").Parse(`<p>Hi {{.Name}},</p>
<p>Someone requested a password reset for your account. Follow the link to choose a new password:</p>
<p><a href="{{.URL}}">Reset your password</a></p>
<p>If this wasn't you, you can ignore this mail.</p>`))

type templateData struct {
	Name string
	URL  string
}

// Service renders the notification mails and hands them to a Sender.
// It implements auth.Notifier.
type Service struct {
	sender  Sender
	baseURL string
}

// NewService creates a mail Service. baseURL is the externally
// reachable root the confirmation and reset links are built on.
func NewService(sender Sender, baseURL string) (*Service, error) {
	if sender == nil {
		return nil, oops.Errorf("sender is required")
	}
	if baseURL == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("base url is required")
	}
	return &Service{
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// SendConfirmation mails the email-confirmation link.
func (s *Service) SendConfirmation(ctx context.Context, user *auth.User, token string) error {
	link := fmt.Sprintf("%s/auth/confirm?token=%s", s.baseURL, url.QueryEscape(token))
	body, err := render(confirmationTmpl, templateData{Name: user.Name, URL: link})
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, user.Email, confirmationSubject, body); err != nil {
		observability.RecordMailDispatchFailure("confirmation")
		return oops.Code("MAIL_CONFIRMATION_FAILED").Wrap(err)
	}
	return nil
}

// SendPasswordReset mails the password-reset link. The token rides in
// the path, matching the reset page's route shape.
func (s *Service) SendPasswordReset(ctx context.Context, user *auth.User, token string) error {
	link := fmt.Sprintf("%s/auth/reset-password/%s", s.baseURL, url.PathEscape(token))
	body, err := render(resetTmpl, templateData{Name: user.Name, URL: link})
	if err != nil {
		return err
	}
	if err := s.sender.Send(ctx, user.Email, resetSubject, body); err != nil {
		observability.RecordMailDispatchFailure("reset")
		return oops.Code("MAIL_RESET_FAILED").Wrap(err)
	}
	return nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", oops.Code("MAIL_RENDER_FAILED").
			With("template", tmpl.Name()).
			Wrap(err)
	}
	return sb.String(), nil
}

// Compile-time interface check.
var _ auth.Notifier = (*Service)(nil)
