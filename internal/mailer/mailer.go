package mailer

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"github.com/critiquehub/critique/internal/config"
)

// Mailer delivers confirmation codes. Services depend on this interface so
// tests can substitute a recorder.
type Mailer interface {
	SendConfirmationCode(to, code string, expiresAt time.Time) error
}

const codeSubject = "Your confirmation code"

const codeBody = `Hello,

Your confirmation code is:

    %s

Exchange it for an access token before %s. If you did not request this
code, you can ignore this message.
`

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost),
		from: cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendConfirmationCode(to, code string, expiresAt time.Time) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = codeSubject
	e.Text = []byte(fmt.Sprintf(codeBody, code, expiresAt.UTC().Format(time.RFC1123)))

	if err := e.Send(m.addr, m.auth); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}
	return nil
}
