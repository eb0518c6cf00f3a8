package email

import (
	"fmt"
	"html"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendStatusChangeEmail(toEmail, toName, eventTitle, status string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	BaseURL   string // Base URL for the application
}

// sendFunc matches smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   sendFunc
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	return &EmailServiceImpl{
		config: config,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// SendStatusChangeEmail tells the submitter that a reviewer moved their event to a new status
func (s *EmailServiceImpl) SendStatusChangeEmail(toEmail, toName, eventTitle, status string) error {
	// Without credentials only log, so development setups keep working
	if s.config.Host == "" || s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("event", eventTitle).
			Str("status", status).
			Msg("SMTP credentials not configured - status email not sent.")
		return nil
	}

	subject := fmt.Sprintf("Your event %q is now %s - EventSync", eventTitle, status)
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Event %s</h2>
				<p>Hello %s,</p>
				<p>Your event <strong>%s</strong> has been marked as <strong>%s</strong> by the head of department.</p>
				<p>You can review it at <a href="%s">%s</a>.</p>
				<p>Best regards,<br>EventSync</p>
			</div>
		</body>
		</html>
	`,
		html.EscapeString(status),
		html.EscapeString(toName),
		html.EscapeString(eventTitle),
		html.EscapeString(status),
		s.config.BaseURL, s.config.BaseURL,
	)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// buildMessage renders headers in a fixed order followed by the HTML body
func (s *EmailServiceImpl) buildMessage(toEmail, subject, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", toEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	err := s.send(serverAddress, auth, s.config.FromEmail, []string{toEmail}, s.buildMessage(toEmail, subject, htmlBody))
	if err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
