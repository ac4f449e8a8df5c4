package infra

import (
	"fmt"
	"net/smtp"

	"bogogo/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer sends transactional emails over SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     fmt.Sprintf("BOGOGO <%s>", cfg.SMTPUser),
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enviar sends a plain-text email with an optional HTML alternative.
func (m *Mailer) Enviar(to, subject, text, html string) error {
	e := m.nuevo(to, subject, text)
	if html != "" {
		e.HTML = []byte(html)
	}
	return m.send(e)
}

// EnviarRecibo sends the receipt PDF as an attachment.
func (m *Mailer) EnviarRecibo(to, subject, body, pdfPath string) error {
	e := m.nuevo(to, subject, body)
	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}
	return m.send(e)
}

func (m *Mailer) nuevo(to, subject, text string) *email.Email {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(text)
	return e
}

func (m *Mailer) send(e *email.Email) error {
	if m.host == "" {
		return fmt.Errorf("mailer: SMTP_HOST not configured")
	}
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
