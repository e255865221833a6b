package report

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
	"github.com/jhoicas/inventario-ai-report/internal/domain/repository"
)

// Sources agrupa los puertos de lectura que alimentan el reporte.
type Sources struct {
	Products  repository.ProductRepository
	Movements repository.StockMovementRepository
	Balances  repository.StockBalanceRepository
	Companies repository.CompanyRepository
}

// MailMessage mensaje HTML listo para entregar.
type MailMessage struct {
	To      []string
	Subject string
	HTML    string
}

// Errores que devuelve cualquier Mailer.
var (
	// ErrDeliveryFailed el proveedor rechazó el mensaje o no respondió.
	ErrDeliveryFailed = errors.New("entrega de correo fallida")
	// ErrMailerUnavailable el transporte está cortado temporalmente; no se intenta el envío.
	ErrMailerUnavailable = errors.New("servicio de correo no disponible temporalmente")
)

// Mailer puerto de salida para la entrega de correos (SendGrid, SMTP, mock).
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// HTMLRenderer convierte un payload en asunto + cuerpo HTML del correo.
type HTMLRenderer interface {
	Render(payload *dto.AIReportPayload) (subject, html string, err error)
}

// ReportNarrator genera un resumen ejecutivo en lenguaje natural a partir del payload.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type ReportNarrator interface {
	SummarizeInventoryReport(ctx context.Context, payload *dto.AIReportPayload) (string, error)
}

// MetricsRecorder puerto de observabilidad; la implementación Prometheus vive en infrastructure.
type MetricsRecorder interface {
	ObserveBuild(elapsed time.Duration, failedSource string)
	CountAlerts(alertType dto.AlertType, n int)
	CountDelivery(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveBuild(time.Duration, string) {}
func (noopMetrics) CountAlerts(dto.AlertType, int) {}
func (noopMetrics) CountDelivery(string) {}
