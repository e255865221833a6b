package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ai-report/internal/application/report"
)

type fakeClient struct {
	status int
	err    error
	calls  int
	last   *sgmail.SGMailV3
}

func (f *fakeClient) SendWithContext(_ context.Context, email *sgmail.SGMailV3) (*rest.Response, error) {
	f.calls++
	f.last = email
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "body"}, nil
}

func testSettings() BreakerSettings {
	return BreakerSettings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Hour, MinRequests: 3, FailureRatio: 0.6}
}

func sampleMessage() report.MailMessage {
	return report.MailMessage{
		To:      []string{"a@loja.com.br", "b@loja.com.br"},
		Subject: "Relatório de estoque",
		HTML:    "<p>ok</p>",
	}
}

func TestSend_UnaPersonalizationPorDestinatario(t *testing.T) {
	client := &fakeClient{status: 202}
	m := newSendGridMailer(client, "relatorios@loja.com.br", "Inventario", testSettings(), zerolog.Nop())

	require.NoError(t, m.Send(context.Background(), sampleMessage()))

	require.NotNil(t, client.last)
	assert.Equal(t, "Relatório de estoque", client.last.Subject)
	assert.Equal(t, "relatorios@loja.com.br", client.last.From.Address)
	require.Len(t, client.last.Personalizations, 2)
	assert.Equal(t, "a@loja.com.br", client.last.Personalizations[0].To[0].Address)
	require.Len(t, client.last.Content, 1)
	assert.Equal(t, "text/html", client.last.Content[0].Type)
}

func TestSend_StatusNo2xx_ErrDeliveryFailed(t *testing.T) {
	m := newSendGridMailer(&fakeClient{status: 401}, "x@y.com", "", testSettings(), zerolog.Nop())

	err := m.Send(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, report.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "401")
}

func TestSend_ErrorDeRed_ErrDeliveryFailed(t *testing.T) {
	m := newSendGridMailer(&fakeClient{err: errors.New("dial tcp: timeout")}, "x@y.com", "", testSettings(), zerolog.Nop())

	assert.ErrorIs(t, m.Send(context.Background(), sampleMessage()), report.ErrDeliveryFailed)
}

func TestSend_BreakerAbierto_ErrMailerUnavailable(t *testing.T) {
	client := &fakeClient{status: 500}
	m := newSendGridMailer(client, "x@y.com", "", testSettings(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, m.Send(context.Background(), sampleMessage()), report.ErrDeliveryFailed)
	}

	err := m.Send(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, report.ErrMailerUnavailable)
	assert.Equal(t, 3, client.calls, "con el circuito abierto no se llama a SendGrid")
}

func TestSend_Rechazo4xx_NoAbreElCircuito(t *testing.T) {
	client := &fakeClient{status: 400}
	m := newSendGridMailer(client, "x@y.com", "", testSettings(), zerolog.Nop())

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, m.Send(context.Background(), sampleMessage()), report.ErrDeliveryFailed)
	}
	assert.Equal(t, 5, client.calls, "los errores del cliente no cuentan como fallas del proveedor")

	client.status = 202
	assert.NoError(t, m.Send(context.Background(), sampleMessage()))
}

func TestSend_429_CuentaComoFalla(t *testing.T) {
	client := &fakeClient{status: 429}
	m := newSendGridMailer(client, "x@y.com", "", testSettings(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, m.Send(context.Background(), sampleMessage()), report.ErrDeliveryFailed)
	}
	assert.ErrorIs(t, m.Send(context.Background(), sampleMessage()), report.ErrMailerUnavailable)
	assert.Equal(t, 3, client.calls)
}
