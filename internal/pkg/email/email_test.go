package email

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendStatusChangeEmail_NoCredentialsOnlyLogs(t *testing.T) {
	svc := NewEmailService(SMTPConfig{}, zerolog.Nop())
	svc.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called without credentials")
		return nil
	}

	assert.NoError(t, svc.SendStatusChangeEmail("rep@example.edu", "Rep", "Hack Night", "approved"))
}

func TestSendStatusChangeEmail_Sends(t *testing.T) {
	svc := NewEmailService(SMTPConfig{
		Host:      "smtp.example.edu",
		Port:      587,
		Username:  "mailer",
		Password:  "secret",
		FromName:  "EventSync",
		FromEmail: "noreply@example.edu",
		BaseURL:   "https://events.example.edu",
	}, zerolog.Nop())

	var gotAddr string
	var gotTo []string
	var gotMsg string
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Equal(t, "noreply@example.edu", from)
		return nil
	}

	require.NoError(t, svc.SendStatusChangeEmail("rep@example.edu", "Rep <One>", "Hack Night", "approved"))

	assert.Equal(t, "smtp.example.edu:587", gotAddr)
	assert.Equal(t, []string{"rep@example.edu"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Your event \"Hack Night\" is now approved - EventSync\r\n")
	assert.Contains(t, gotMsg, "Rep &lt;One&gt;")
	assert.Contains(t, gotMsg, "https://events.example.edu")
}

func TestSendStatusChangeEmail_PropagatesFailure(t *testing.T) {
	svc := NewEmailService(SMTPConfig{Host: "h", Port: 25, Username: "u", Password: "p"}, zerolog.Nop())
	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("421 busy") }

	err := svc.SendStatusChangeEmail("rep@example.edu", "Rep", "Hack Night", "rejected")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "421 busy")
}
