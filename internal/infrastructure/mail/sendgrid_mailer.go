// Package mail entrega el reporte por correo vía SendGrid.
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/inventario-ai-report/internal/application/report"
)

var _ report.Mailer = (*SendGridMailer)(nil)

// sendClient lo cumple *sendgrid.Client.
type sendClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// BreakerSettings umbrales del circuit breaker del transporte.
type BreakerSettings struct {
	MaxRequests  uint32        // solicitudes permitidas en half-open
	Interval     time.Duration // ventana de conteo en closed
	Timeout      time.Duration // tiempo en open antes de pasar a half-open
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings 3 de 5 envíos fallidos abren el circuito por 30 s.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// SendGridMailer implementación de report.Mailer.
type SendGridMailer struct {
	client  sendClient
	from    *sgmail.Email
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewSendGridMailer construye el adaptador con el cliente oficial de SendGrid.
func NewSendGridMailer(apiKey, fromEmail, fromName string, settings BreakerSettings, log zerolog.Logger) *SendGridMailer {
	return newSendGridMailer(sendgrid.NewSendClient(apiKey), fromEmail, fromName, settings, log)
}

func newSendGridMailer(client sendClient, fromEmail, fromName string, settings BreakerSettings, log zerolog.Logger) *SendGridMailer {
	m := &SendGridMailer{
		client: client,
		from:   sgmail.NewEmail(fromName, fromEmail),
		log:    log,
	}
	m.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sendgrid",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			m.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker de correo cambió de estado")
		},
	})
	return m
}

// Send arma un mensaje con una personalization por destinatario (nadie ve a los demás).
func (m *SendGridMailer) Send(ctx context.Context, msg report.MailMessage) error {
	message := sgmail.NewV3Mail()
	message.SetFrom(m.from)
	message.Subject = msg.Subject
	for _, to := range msg.To {
		p := sgmail.NewPersonalization()
		p.AddTos(sgmail.NewEmail("", to))
		message.AddPersonalizations(p)
	}
	message.AddContent(sgmail.NewContent("text/html", msg.HTML))

	res, err := m.breaker.Execute(func() (any, error) {
		resp, err := m.client.SendWithContext(ctx, message)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", report.ErrDeliveryFailed, err)
		}
		if resp.StatusCode >= 300 && !isClientError(resp.StatusCode) {
			return nil, fmt.Errorf("%w: sendgrid status %d: %s", report.ErrDeliveryFailed, resp.StatusCode, resp.Body)
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return report.ErrMailerUnavailable
	}
	if err != nil {
		return err
	}
	// Un 4xx es un problema del mensaje o de la cuenta, no de SendGrid: no abre el circuito.
	if resp := res.(*rest.Response); resp.StatusCode >= 300 {
		m.log.Warn().Int("status", resp.StatusCode).Msg("sendgrid rechazó el mensaje")
		return fmt.Errorf("%w: sendgrid status %d: %s", report.ErrDeliveryFailed, resp.StatusCode, resp.Body)
	}
	return nil
}

// isClientError 4xx salvo 429, que indica saturación del proveedor.
func isClientError(status int) bool {
	return status >= 400 && status < 500 && status != 429
}
