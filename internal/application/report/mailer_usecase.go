package report

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
)

const maxRecipients = 50

var (
	ErrNoRecipients      = errors.New("se requiere al menos un destinatario")
	ErrTooManyRecipients = fmt.Errorf("máximo %d destinatarios por envío", maxRecipients)
	ErrInvalidRecipient  = errors.New("destinatario inválido")
)

// PayloadBuilder lo implementa *Aggregator; los casos de uso de entrega dependen solo de este contrato.
type PayloadBuilder interface {
	BuildReportPayload(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*dto.AIReportPayload, error)
}

// ReportMailer genera el reporte y lo entrega por correo en HTML.
// El agregador no conoce el transporte; este caso de uso es quien lo orquesta.
type ReportMailer struct {
	builder  PayloadBuilder
	renderer HTMLRenderer
	mailer   Mailer
	log      zerolog.Logger
	metrics  MetricsRecorder
}

// NewReportMailer construye el caso de uso. metrics puede ser nil.
func NewReportMailer(builder PayloadBuilder, renderer HTMLRenderer, mailer Mailer, log zerolog.Logger, metrics MetricsRecorder) *ReportMailer {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &ReportMailer{builder: builder, renderer: renderer, mailer: mailer, log: log, metrics: metrics}
}

// SendReport valida los destinatarios, construye el payload, lo renderiza y lo envía.
// Los errores del agregador y del transporte se devuelven envueltos, sin reintentos.
func (uc *ReportMailer) SendReport(
	ctx context.Context,
	companyID string,
	periodStart, periodEnd time.Time,
	recipients []string,
) (*dto.DeliveryResultDTO, error) {
	to, err := normalizeRecipients(recipients)
	if err != nil {
		return nil, err
	}

	payload, err := uc.builder.BuildReportPayload(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	subject, html, err := uc.renderer.Render(payload)
	if err != nil {
		return nil, fmt.Errorf("reporte: renderizar HTML: %w", err)
	}

	deliveryID := uuid.NewString()
	if err := uc.mailer.Send(ctx, MailMessage{To: to, Subject: subject, HTML: html}); err != nil {
		uc.metrics.CountDelivery("failed")
		uc.log.Error().Err(err).
			Str("delivery_id", deliveryID).
			Str("company_id", companyID).
			Msg("reporte: envío fallido")
		return nil, fmt.Errorf("reporte: enviar correo: %w", err)
	}

	uc.metrics.CountDelivery("sent")
	uc.log.Info().
		Str("delivery_id", deliveryID).
		Str("company_id", companyID).
		Int("recipients", len(to)).
		Msg("reporte enviado")

	return &dto.DeliveryResultDTO{
		DeliveryID: deliveryID,
		Recipients: to,
		Subject:    subject,
	}, nil
}

// normalizeRecipients recorta, valida y elimina duplicados conservando el orden.
func normalizeRecipients(recipients []string) ([]string, error) {
	seen := make(map[string]struct{}, len(recipients))
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		addr, err := mail.ParseAddress(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, r)
		}
		key := strings.ToLower(addr.Address)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr.Address)
	}
	if len(out) == 0 {
		return nil, ErrNoRecipients
	}
	if len(out) > maxRecipients {
		return nil, ErrTooManyRecipients
	}
	return out, nil
}
