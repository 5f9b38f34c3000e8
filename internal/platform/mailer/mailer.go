// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mailer delivers templated e-mails.

Templates live in the embedded templates directory. Each file defines three
blocks: "subject", "plainBody" and "htmlBody".

Drivers:

  - SMTP: real delivery through go-mail with bounded retries.
  - Log: writes the rendered message to the structured log (local development).
*/
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"text/template"
	"time"

	"github.com/go-mail/mail/v2"
)

// TemplateConfirmationCode renders the passwordless sign-in code.
const TemplateConfirmationCode = "confirmation_code.tmpl"

const (
	defaultAttempts = 3
	retryBackoff    = 500 * time.Millisecond
)

//go:embed "templates"
var templateFS embed.FS

// ConfirmationCodeData is the view model of [TemplateConfirmationCode].
type ConfirmationCodeData struct {
	Username string
	Code     string
}

// Message is a fully rendered e-mail.
type Message struct {
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Render executes the three blocks of the named template.
// Subject and plain body are rendered as text, the HTML body is escaped.
func Render(name string, data any) (Message, error) {
	path := "templates/" + name

	text, err := template.New("").ParseFS(templateFS, path)
	if err != nil {
		return Message{}, fmt.Errorf("mailer: parse %s: %w", name, err)
	}
	html, err := htmltemplate.New("").ParseFS(templateFS, path)
	if err != nil {
		return Message{}, fmt.Errorf("mailer: parse %s: %w", name, err)
	}

	var message Message
	blocks := []struct {
		name    string
		execute func(*bytes.Buffer) error
		target  *string
	}{
		{"subject", func(b *bytes.Buffer) error { return text.ExecuteTemplate(b, "subject", data) }, &message.Subject},
		{"plainBody", func(b *bytes.Buffer) error { return text.ExecuteTemplate(b, "plainBody", data) }, &message.PlainBody},
		{"htmlBody", func(b *bytes.Buffer) error { return html.ExecuteTemplate(b, "htmlBody", data) }, &message.HTMLBody},
	}

	for _, block := range blocks {
		buffer := new(bytes.Buffer)
		if err := block.execute(buffer); err != nil {
			return Message{}, fmt.Errorf("mailer: execute %s/%s: %w", name, block.name, err)
		}
		*block.target = buffer.String()
	}
	return message, nil
}

// # SMTP Driver

// SMTP sends messages through an SMTP relay.
type SMTP struct {
	dialer   *mail.Dialer
	sender   string
	attempts int
	logger   *slog.Logger
}

// NewSMTP builds an SMTP mailer. The dialer connects lazily on every send.
func NewSMTP(host string, port int, username, password, sender string, timeout time.Duration, logger *slog.Logger) *SMTP {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = timeout

	return &SMTP{
		dialer:   dialer,
		sender:   sender,
		attempts: defaultAttempts,
		logger:   logger,
	}
}

// Send renders the template and delivers it to recipient.
// The last delivery error is returned once every attempt failed.
func (m *SMTP) Send(ctx context.Context, recipient, templateName string, data any) error {
	rendered, err := Render(templateName, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", rendered.Subject)
	msg.SetBody("text/plain", rendered.PlainBody)
	msg.AddAlternative("text/html", rendered.HTMLBody)

	for attempt := 1; attempt <= m.attempts; attempt++ {
		if err = m.dialer.DialAndSend(msg); err == nil {
			return nil
		}

		m.logger.WarnContext(ctx, "mail_delivery_retry",
			slog.String("template", templateName),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if attempt == m.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("mailer: send cancelled: %w", ctx.Err())
		case <-time.After(retryBackoff):
		}
	}

	return fmt.Errorf("mailer: send failed after %d attempts: %w", m.attempts, err)
}

// # Log Driver

// Log writes messages to the logger instead of delivering them.
// The body carries the code in clear, so config refuses it in production.
type Log struct {
	logger *slog.Logger
}

// NewLog builds a development mailer.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

// Send renders the template and logs the plain-text body.
func (m *Log) Send(ctx context.Context, recipient, templateName string, data any) error {
	rendered, err := Render(templateName, data)
	if err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "mail_logged",
		slog.String("to", recipient),
		slog.String("subject", rendered.Subject),
		slog.String("body", rendered.PlainBody),
	)
	return nil
}
