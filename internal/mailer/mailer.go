// Package mailer sends the customer-facing confirmation mail over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// Config carries the SMTP endpoint for outbound confirmation mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements orders.Mailer against a real SMTP server with
// STARTTLS and plain auth.
type SMTPMailer struct {
	cfg    Config
	send   func(addr string, auth sasl.Client, from string, to []string, r io.Reader) error
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPMailer{cfg: cfg, send: smtp.SendMail, logger: logger}
}

// Send delivers one plain-text mail.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	msg, err := composeMessage(m.cfg.From, to, subject, body)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
	if err := m.send(addr, auth, m.cfg.From, []string{to}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.logger.Info("mailer.sent", "to", to, "subject", subject)
	return nil
}

func composeMessage(from, to, subject, body string) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetSubject(subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}
	fromAddr, err := mail.ParseAddress(from)
	if err != nil {
		fromAddr = &mail.Address{Address: from}
	}
	toAddr, err := mail.ParseAddress(to)
	if err != nil {
		toAddr = &mail.Address{Address: to}
	}
	h.SetAddressList("From", []*mail.Address{fromAddr})
	h.SetAddressList("To", []*mail.Address{toAddr})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("compose mail: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, fmt.Errorf("write mail body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finish mail: %w", err)
	}
	return buf.Bytes(), nil
}
