package email

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"

	"agroskills-platform/config"
)

// Sender delivers transactional e-mails.
type Sender interface {
	SendPasswordReset(to, name, resetURL string) error
	IsConfigured() bool
}

// EmailService sends e-mail through an authenticated SMTP relay.
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		send:      smtp.SendMail,
	}
}

type resetEmailData struct {
	Name     string
	ResetURL string
}

var resetTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Redefinição de senha</title></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1 style="color: #2e7d32;">AgroSkills</h1>
    <p>Olá{{if .Name}}, {{.Name}}{{end}}!</p>
    <p>Recebemos uma solicitação para redefinir sua senha. Clique no link abaixo para criar uma nova senha:</p>
    <p><a href="{{.ResetURL}}" style="background: #2e7d32; color: #fff; padding: 10px 16px; text-decoration: none;">Redefinir senha</a></p>
    <p>O link expira em 1 hora. Se você não fez essa solicitação, ignore este e-mail.</p>
  </div>
</body>
</html>`))

// SendPasswordReset mails the reset link to the user.
func (s *EmailService) SendPasswordReset(to, name, resetURL string) error {
	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, resetEmailData{Name: name, ResetURL: resetURL}); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		s.fromEmail,
		to,
		mime.QEncoding.Encode("utf-8", "Redefinição de senha - AgroSkills"),
		body.String(),
	))

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != ""
}
