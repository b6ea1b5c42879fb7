package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/litethinking-inventario/internal/application/reporting"
	"github.com/jhoicas/litethinking-inventario/pkg/config"
	"github.com/jhoicas/litethinking-inventario/pkg/logger"
)

type captureDialer struct {
	msgs []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.msgs = append(d.msgs, m...)
	return nil
}

func newSender(d dialer) *GomailSender {
	s := NewGomailSender(config.SMTPConfig{Host: "smtp.test", Port: 587, From: "no-reply@litethinking.com"}, logger.Nop())
	s.dialer = d
	return s
}

func TestGomailSender_Send(t *testing.T) {
	d := &captureDialer{}
	s := newSender(d)

	err := s.Send(context.Background(), reporting.Mail{
		To:      []string{"gerencia@litethinking.com"},
		Subject: "Reporte de Inventario - Lite Thinking",
		Body:    "Adjunto el reporte.",
		Attachments: []reporting.Attachment{
			{Filename: "inventario_reporte.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")},
		},
	})
	require.NoError(t, err)
	require.Len(t, d.msgs, 1)

	m := d.msgs[0]
	assert.Equal(t, []string{"no-reply@litethinking.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"gerencia@litethinking.com"}, m.GetHeader("To"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "inventario_reporte.pdf")
	assert.Contains(t, raw.String(), "application/pdf")
}

func TestGomailSender_Errores(t *testing.T) {
	s := newSender(&captureDialer{err: errors.New("connection refused")})
	ctx := context.Background()

	assert.Error(t, s.Send(ctx, reporting.Mail{Subject: "x"}))

	err := s.Send(ctx, reporting.Mail{To: []string{"a@b.co"}, Subject: "x"})
	assert.ErrorContains(t, err, "connection refused")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Send(cancelled, reporting.Mail{To: []string{"a@b.co"}}), context.Canceled)
}
