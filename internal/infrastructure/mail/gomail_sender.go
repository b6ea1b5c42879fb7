// Package mail envía correos por SMTP con gomail.
package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
	"github.com/jhoicas/litethinking-inventario/pkg/config"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

// dialer abstrae gomail.Dialer para poder sustituirlo en tests.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// GomailSender implementa reporting.Mailer.
type GomailSender struct {
	from   string
	dialer dialer
	log    *logger.Logger
}

// NewGomailSender crea el sender a partir de la configuración SMTP.
func NewGomailSender(cfg config.SMTPConfig, log *logger.Logger) *GomailSender {
	if log == nil {
		log = logger.Nop()
	}
	return &GomailSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		log:    log.Named("mail"),
	}
}

// Send arma el mensaje y lo entrega al servidor SMTP.
func (s *GomailSender) Send(ctx context.Context, mail reporting.Mail) error {
	if len(mail.To) == 0 {
		return fmt.Errorf("mail: sin destinatarios")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := s.build(mail)
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: enviar: %w", err)
	}
	s.log.Debug().Strs("to", mail.To).Str("subject", mail.Subject).Int("attachments", len(mail.Attachments)).Msg("correo enviado")
	return nil
}

func (s *GomailSender) build(mail reporting.Mail) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", mail.To...)
	m.SetHeader("Subject", mail.Subject)
	m.SetBody("text/plain", mail.Body)
	for _, a := range mail.Attachments {
		data := a.Data
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}
