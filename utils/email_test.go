package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-logistics/config"
)

func TestNewMailer(t *testing.T) {
	assert.IsType(t, &PostmarkMailer{}, NewMailer(config.EmailConfig{Provider: "postmark", PostmarkToken: "t", Sender: "s@example.com"}))
	assert.IsType(t, &SendGridMailer{}, NewMailer(config.EmailConfig{Provider: "sendgrid", SendGridKey: "k", Sender: "s@example.com"}))
	assert.IsType(t, LogMailer{}, NewMailer(config.EmailConfig{Provider: "log"}))
	assert.IsType(t, LogMailer{}, NewMailer(config.EmailConfig{}))
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.SendEmail("to@example.com", "subject", "<p>body</p>"))
}
