// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

// Package mail renders and dispatches identity notification mails.
package mail

import (
	"context"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/jordan-wright/email"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Sender delivers a single rendered mail.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig holds the relay settings for SMTPSender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sendAttempts bounds retries per mail. SMTP relays drop connections
// routinely enough that a couple of retries pay for themselves.
const sendAttempts = 3

// SMTPSender delivers mail through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates an SMTPSender for the given relay.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("smtp host is required")
	}
	if cfg.Port <= 0 {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("smtp port must be positive, got %d", cfg.Port)
	}
	if cfg.From == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("from address is required")
	}
	return &SMTPSender{cfg: cfg}, nil
}

// Send delivers one mail, retrying transient relay failures with
// fibonacci backoff.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	e := email.NewEmail()
	e.From = s.cfg.From
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	backoff := retry.WithMaxRetries(sendAttempts, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(_ context.Context) error {
		return retry.RetryableError(e.Send(addr, auth))
	})
	if err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("to", to).
			With("subject", subject).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ Sender = (*SMTPSender)(nil)
