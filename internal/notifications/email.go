package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"reservly/internal/shared/config"
	"reservly/pkg/logger"
)

// EmailSender delivers one notification to its recipient.
type EmailSender interface {
	Send(ctx context.Context, notification *EmailNotification) error
}

// NewEmailSender picks the SMTP sender when a host is configured and the
// console sender otherwise, so development works without a mail relay.
func NewEmailSender(cfg *config.Config) EmailSender {
	if cfg.Email.SMTPHost == "" {
		return &consoleSender{}
	}
	return &smtpSender{cfg: cfg.Email}
}

// smtpSender delivers plain-text mail over authenticated SMTP.
type smtpSender struct {
	cfg config.EmailConfig
}

func (s *smtpSender) Send(_ context.Context, n *EmailNotification) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	msg := buildMessage(s.cfg.FromEmail, n)
	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{n.RecipientEmail}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", n.RecipientEmail, err)
	}
	return nil
}

func buildMessage(from string, n *EmailNotification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", n.RecipientEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", n.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	fmt.Fprintf(&b, "Hello %s,\r\n\r\n%s\r\n", n.RecipientName, n.Subject)
	if date, ok := n.Context["date"].(string); ok {
		start, _ := n.Context["start_time"].(string)
		end, _ := n.Context["end_time"].(string)
		fmt.Fprintf(&b, "\r\nDate: %s\r\nTime: %s to %s\r\n", date, start, end)
	}
	if reason, ok := n.Context["reason"].(string); ok && reason != "" {
		fmt.Fprintf(&b, "Reason: %s\r\n", reason)
	}
	if deadline, ok := n.Context["approval_deadline"].(string); ok {
		fmt.Fprintf(&b, "Approval deadline: %s\r\n", deadline)
	}
	return []byte(b.String())
}

// consoleSender logs instead of sending. Used when SMTP is not configured.
type consoleSender struct{}

func (c *consoleSender) Send(ctx context.Context, n *EmailNotification) error {
	logger.GetDefault().InfoWithContext(ctx, "email notification (console)", map[string]interface{}{
		"kind":      string(n.Kind),
		"recipient": n.RecipientEmail,
		"subject":   n.Subject,
	})
	return nil
}
