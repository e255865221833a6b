package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
	"github.com/jhoicas/inventario-ai-report/internal/application/report"
	"github.com/jhoicas/inventario-ai-report/internal/domain"
)

// ReportBuilder lo cumple *report.Aggregator.
type ReportBuilder interface {
	BuildReportPayload(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*dto.AIReportPayload, error)
}

type PDFRenderer interface {
	Render(payload *dto.AIReportPayload) ([]byte, error)
}

type ReportSender interface {
	SendReport(ctx context.Context, companyID string, periodStart, periodEnd time.Time, recipients []string) (*dto.DeliveryResultDTO, error)
}

type ReportSummarizer interface {
	Summarize(ctx context.Context, companyID string, periodStart, periodEnd time.Time) (*dto.ReportInsightsDTO, error)
}

// ReportHandler expone el reporte de inventario. sender y summarizer pueden ser nil
// (sin SendGrid o sin API key de IA); esas rutas responden 503.
type ReportHandler struct {
	builder    ReportBuilder
	pdf        PDFRenderer
	sender     ReportSender
	summarizer ReportSummarizer
	log        zerolog.Logger
	now        func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(builder ReportBuilder, pdf PDFRenderer, sender ReportSender, summarizer ReportSummarizer, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		builder:    builder,
		pdf:        pdf,
		sender:     sender,
		summarizer: summarizer,
		log:        log,
		now:        time.Now,
	}
}

// GetInventoryReport godoc
// @Summary      Reporte de inventario (KPIs, alertas, curva ABC, estoque parado)
// @Description  Payload determinista para el período. Requiere módulo 'analytics' activo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  dto.AIReportPayload
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) GetInventoryReport(c *fiber.Ctx) error {
	start, end, err := h.period(c)
	if err != nil {
		return h.fail(c, err)
	}
	payload, err := h.builder.BuildReportPayload(c.Context(), GetCompanyID(c), start, end)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(payload)
}

// GetInventoryReportPDF godoc
// @Summary      Reporte de inventario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory/pdf [get]
func (h *ReportHandler) GetInventoryReportPDF(c *fiber.Ctx) error {
	start, end, err := h.period(c)
	if err != nil {
		return h.fail(c, err)
	}
	payload, err := h.builder.BuildReportPayload(c.Context(), GetCompanyID(c), start, end)
	if err != nil {
		return h.fail(c, err)
	}
	doc, err := h.pdf.Render(payload)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		`attachment; filename="estoque_`+payload.Period.StartDate+`_`+payload.Period.EndDate+`.pdf"`)
	return c.Send(doc)
}

// SendInventoryReport godoc
// @Summary      Envía el reporte de inventario por correo
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SendReportRequest  true  "Período y destinatarios"
// @Success      202   {object}  dto.DeliveryResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/reports/inventory/email [post]
func (h *ReportHandler) SendInventoryReport(c *fiber.Ctx) error {
	if h.sender == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "MAIL_DISABLED", Message: "envío de correos no configurado",
		})
	}
	var req dto.SendReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo JSON inválido",
		})
	}
	start, end, err := report.ParsePeriod(req.StartDate, req.EndDate, h.now())
	if err != nil {
		return h.fail(c, err)
	}
	res, err := h.sender.SendReport(c.Context(), GetCompanyID(c), start, end, req.Recipients)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(res)
}

// GetInventoryInsights godoc
// @Summary      Reporte de inventario con resumen ejecutivo generado por IA
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.ReportInsightsDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/inventory/insights [get]
func (h *ReportHandler) GetInventoryInsights(c *fiber.Ctx) error {
	if h.summarizer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "AI_DISABLED", Message: "narrativa IA no configurada",
		})
	}
	start, end, err := h.period(c)
	if err != nil {
		return h.fail(c, err)
	}
	res, err := h.summarizer.Summarize(c.Context(), GetCompanyID(c), start, end)
	if err != nil {
		if isReportError(err) {
			return h.fail(c, err)
		}
		h.log.Warn().Err(err).Str("company_id", GetCompanyID(c)).Msg("narrativa IA fallida")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "AI_FAILED", Message: "no se pudo generar la narrativa, intente más tarde",
		})
	}
	return c.JSON(res)
}

func (h *ReportHandler) period(c *fiber.Ctx) (time.Time, time.Time, error) {
	var req dto.InventoryReportRequest
	if err := c.QueryParser(&req); err != nil {
		return time.Time{}, time.Time{}, domain.ErrInvalidInput
	}
	return report.ParsePeriod(req.StartDate, req.EndDate, h.now())
}

// isReportError errores del agregador o de validación, con mapeo HTTP propio.
func isReportError(err error) bool {
	var fe *domain.UpstreamFetchError
	return errors.Is(err, domain.ErrInvalidRange) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrMissingCompanyContext) ||
		errors.As(err, &fe)
}

// fail traduce errores de dominio y de entrega a respuestas HTTP.
func (h *ReportHandler) fail(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", "error interno"
	var fe *domain.UpstreamFetchError

	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		status, code, msg = fiber.StatusBadRequest, "INVALID_RANGE", err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, "INVALID_PARAMS", err.Error()
	case errors.Is(err, domain.ErrMissingCompanyContext):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error()
	case errors.Is(err, report.ErrNoRecipients),
		errors.Is(err, report.ErrTooManyRecipients),
		errors.Is(err, report.ErrInvalidRecipient):
		status, code, msg = fiber.StatusBadRequest, "INVALID_RECIPIENTS", err.Error()
	case errors.Is(err, report.ErrMailerUnavailable):
		status, code, msg = fiber.StatusServiceUnavailable, "MAILER_UNAVAILABLE", err.Error()
	case errors.Is(err, report.ErrDeliveryFailed):
		status, code, msg = fiber.StatusBadGateway, "DELIVERY_FAILED", "el proveedor de correo rechazó el envío"
	case errors.As(err, &fe) && fe.Source == report.SourceCompany && errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "COMPANY_NOT_FOUND", "empresa no encontrada"
	case errors.As(err, &fe):
		status, code, msg = fiber.StatusBadGateway, "UPSTREAM_FETCH", "no se pudo leer "+fe.Source
	}

	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Str("company_id", GetCompanyID(c)).Str("code", code).Msg("reporte de inventario")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
