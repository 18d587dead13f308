// utils/email.go
package utils

import (
	"fmt"
	"net/http"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"go-logistics/config"
	"go-logistics/logger"
)

// Mailer sends a single email
type Mailer interface {
	SendEmail(toEmail, subject, htmlContent string) error
}

// NewMailer returns the mailer for the configured provider
func NewMailer(cfg config.EmailConfig) Mailer {
	switch cfg.Provider {
	case "postmark":
		return NewPostmarkMailer(cfg.PostmarkToken, cfg.Sender)
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridKey, cfg.Sender)
	default:
		return LogMailer{}
	}
}

// PostmarkMailer handles sending emails using Postmark
type PostmarkMailer struct {
	client *postmark.Client
	sender string
}

func NewPostmarkMailer(apiToken, sender string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

func (pm *PostmarkMailer) SendEmail(toEmail, subject, htmlContent string) error {
	_, err := pm.client.SendEmail(postmark.Email{
		From:     pm.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendGridMailer handles sending emails using SendGrid
type SendGridMailer struct {
	client *sendgrid.Client
	sender string
}

func NewSendGridMailer(apiKey, sender string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

func (sm *SendGridMailer) SendEmail(toEmail, subject, htmlContent string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("Logistics", sm.sender),
		subject,
		mail.NewEmail("", toEmail),
		htmlContent,
		htmlContent,
	)
	resp, err := sm.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send email: sendgrid returned %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer only logs outgoing mail. Used when no provider is configured.
type LogMailer struct{}

func (LogMailer) SendEmail(toEmail, subject, _ string) error {
	logger.Log.Info("email not sent, no provider configured",
		zap.String("to", toEmail),
		zap.String("subject", subject),
	)
	return nil
}
