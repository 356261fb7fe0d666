package email

import (
	"net/smtp"
	"testing"

	"agroskills-platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPasswordReset(t *testing.T) {
	svc := NewEmailService(&config.Config{
		SMTPHost:      "smtp.test",
		SMTPPort:      "587",
		SMTPUsername:  "user",
		SMTPPassword:  "pass",
		SMTPFromEmail: "noreply@agroskills.com.br",
	})

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		return nil
	}

	require.NoError(t, svc.SendPasswordReset("ana@example.com", "Ana", "https://app/reset?token=abc"))
	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, []string{"ana@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "https://app/reset?token=abc")
	assert.Contains(t, string(gotMsg), "Olá, Ana!")
	assert.True(t, svc.IsConfigured())
}
