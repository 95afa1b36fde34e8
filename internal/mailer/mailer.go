package mailer

import (
	"fmt"
	"log"
	"net/smtp"
)

// Mailer delivers transactional mail. The OTP flow is its only caller today.
type Mailer interface {
	SendOTP(to, code string) error
}

// New builds an SMTP mailer, or a log-only mailer when no SMTP host is
// configured so local development never needs a mail server.
func New(host, port, username, password, from string) Mailer {
	if host == "" {
		log.Printf("smtp disabled, using log mailer")
		return logMailer{}
	}
	return &smtpMailer{
		addr:     host + ":" + port,
		auth:     smtp.PlainAuth("", username, password, host),
		from:     from,
		hasCreds: username != "",
	}
}

type smtpMailer struct {
	addr     string
	auth     smtp.Auth
	from     string
	hasCreds bool
}

func (m *smtpMailer) SendOTP(to, code string) error {
	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your verification code\r\n\r\n"+
		"Your verification code is %s. It expires in 10 minutes.\r\n", m.from, to, code)

	var auth smtp.Auth
	if m.hasCreds {
		auth = m.auth
	}
	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

type logMailer struct{}

func (logMailer) SendOTP(to, code string) error {
	log.Printf("otp mail to=%s code=%s", to, code)
	return nil
}
