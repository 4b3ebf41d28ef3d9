package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

// Sender delivers plain-text mail over SMTP.
type Sender struct {
	host     string
	port     string
	username string
	password string
	from     string
	log      *zap.Logger
}

func NewSender(host, port, username, password, from string, log *zap.Logger) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		log:      log,
	}
}

func (s *Sender) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := e.Send(addr, auth); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
