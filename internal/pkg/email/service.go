// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
)

// Service sends transactional mail over SMTP. When no SMTP host is
// configured the service is a no-op, so development environments can
// run without a mail server.
type Service struct {
	config *config.Config
}

// NewService creates a new email service
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// SendOrderConfirmation sends the order-placed confirmation email
func (s *Service) SendOrderConfirmation(toEmail, toName, orderCode string, totalAmount int64) error {
	subject := fmt.Sprintf("Order Confirmation - %s", orderCode)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"Thank you for your order!\r\n\r\n"+
			"Order number: %s\r\n"+
			"Order total: ₹%d.%02d\r\n\r\n"+
			"We will let you know as soon as it ships.\r\n\r\n"+
			"— %s",
		toName, orderCode, totalAmount/100, totalAmount%100, s.config.Email.FromName,
	)

	return s.send(toEmail, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	cfg := s.config.Email
	if cfg.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("📧 SMTP not configured, skipping email")
		return nil
	}

	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, cfg.FromEmail, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
