// Package mail implements the synchronous SMTP sender behind ports.Mailer.
// It speaks plain SMTP with STARTTLS upgrade when the server offers it,
// which covers the common providers without provider SDKs.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcsnext/crm-api/internal/api/metrics"
)

const defaultSendTimeout = 15 * time.Second

// Config captures the SMTP settings for outbound email.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// BaseURL is the API origin embedded in verification links.
	BaseURL string
}

type Mailer struct {
	cfg Config
	log zerolog.Logger
}

func NewMailer(cfg Config, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

func (m *Mailer) SendVerification(ctx context.Context, to, token string) error {
	body, err := render(verificationTemplate, map[string]string{
		"Link": fmt.Sprintf("%s/auth/verify-email?token=%s", m.cfg.BaseURL, token),
	})
	if err != nil {
		return err
	}
	return m.send(ctx, "verification", to, "Verify your NEXT_ account", body)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, code string) error {
	body, err := render(resetTemplate, map[string]string{"Code": code})
	if err != nil {
		return err
	}
	return m.send(ctx, "reset", to, "Your password reset code", body)
}

func (m *Mailer) SendChangeConfirmation(ctx context.Context, to, change string) error {
	body, err := render(confirmationTemplate, map[string]string{"Change": change})
	if err != nil {
		return err
	}
	return m.send(ctx, "confirmation", to, "Account change notification", body)
}

func (m *Mailer) send(ctx context.Context, kind, to, subject, htmlBody string) error {
	if err := m.deliver(ctx, to, subject, htmlBody); err != nil {
		metrics.EmailsSentTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	metrics.EmailsSentTotal.WithLabelValues(kind, "sent").Inc()
	m.log.Debug().Str("kind", kind).Str("to", to).Msg("email sent")
	return nil
}

func (m *Mailer) deliver(ctx context.Context, to, subject, htmlBody string) error {
	dialer := net.Dialer{Timeout: defaultSendTimeout}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < dialer.Timeout {
			dialer.Timeout = remaining
		}
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if m.cfg.Username != "" {
		auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(buildMessage(m.cfg.From, to, subject, htmlBody)); err != nil {
		_ = w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	return w.Close()
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}
