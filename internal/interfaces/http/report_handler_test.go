package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
	"github.com/jhoicas/inventario-ai-report/internal/application/report"
	"github.com/jhoicas/inventario-ai-report/internal/domain"
	apphttp "github.com/jhoicas/inventario-ai-report/internal/interfaces/http"
)

type stubBuilder struct {
	err       error
	companyID string
	start     time.Time
	end       time.Time
}

func (s *stubBuilder) BuildReportPayload(_ context.Context, companyID string, start, end time.Time) (*dto.AIReportPayload, error) {
	s.companyID, s.start, s.end = companyID, start, end
	if s.err != nil {
		return nil, s.err
	}
	if start.After(end) {
		return nil, domain.ErrInvalidRange
	}
	return &dto.AIReportPayload{
		Company: dto.ReportCompanyDTO{Name: "Loja Teste"},
		Period:  dto.PeriodDTO{StartDate: start.Format("2006-01-02"), EndDate: end.Format("2006-01-02")},
		KPIs:    dto.ReportKPIsDTO{TotalItems: 2, CurrentInventoryValue: decimal.NewFromInt(100)},
		Alerts:  []dto.ReportAlertDTO{},
		ABC:     dto.ABCCurveDTO{A: []dto.ABCItemDTO{}, B: []dto.ABCItemDTO{}, C: []dto.ABCItemDTO{}},
		Rules:   dto.ReportRulesDTO{MinStockMethod: "fixed", ExcessMultiplier: decimal.NewFromInt(3), DeadStockDays: 90},
	}, nil
}

type stubPDF struct{}

func (stubPDF) Render(*dto.AIReportPayload) ([]byte, error) { return []byte("%PDF-1.3 test"), nil }

type stubSender struct {
	err        error
	recipients []string
}

func (s *stubSender) SendReport(_ context.Context, _ string, _, _ time.Time, recipients []string) (*dto.DeliveryResultDTO, error) {
	s.recipients = recipients
	if s.err != nil {
		return nil, s.err
	}
	return &dto.DeliveryResultDTO{DeliveryID: "d-1", Recipients: recipients, Subject: "Relatório"}, nil
}

type stubSummarizer struct{ err error }

func (s stubSummarizer) Summarize(context.Context, string, time.Time, time.Time) (*dto.ReportInsightsDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ReportInsightsDTO{Narrative: "Estoque saudável."}, nil
}

func newReportApp(h *apphttp.ReportHandler) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Reports:       h,
		ModuleChecker: stubModules{active: true},
		JWTSecret:     testJWTSecret,
		Log:           zerolog.Nop(),
	})
	return app
}

func TestGetInventoryReport_OK(t *testing.T) {
	builder := &stubBuilder{}
	app := newReportApp(apphttp.NewReportHandler(builder, stubPDF{}, nil, nil, zerolog.Nop()))

	resp := doRequest(t, app, http.MethodGet, "/api/reports/inventory?start_date=2024-01-01&end_date=2024-01-31", tokenForRole(t, "vendedor"), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload dto.AIReportPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "2024-01-01", payload.Period.StartDate)
	assert.Equal(t, "2024-01-31", payload.Period.EndDate)
	assert.Equal(t, 2, payload.KPIs.TotalItems)
	assert.Equal(t, testCompanyID, builder.companyID, "la empresa sale del token")
}

func TestGetInventoryReport_SinToken(t *testing.T) {
	app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, nil, nil, zerolog.Nop()))

	resp := doRequest(t, app, http.MethodGet, "/api/reports/inventory", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetInventoryReport_Errores(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
		code   string
	}{
		{"rango invertido", "?start_date=2024-02-01&end_date=2024-01-01", nil, http.StatusBadRequest, "INVALID_RANGE"},
		{"fecha inválida", "?start_date=01/02/2024", nil, http.StatusBadRequest, "INVALID_PARAMS"},
		{"lectura fallida", "", domain.NewUpstreamFetchError(report.SourceBalances, errors.New("timeout")), http.StatusBadGateway, "UPSTREAM_FETCH"},
		{"empresa inexistente", "", domain.NewUpstreamFetchError(report.SourceCompany, domain.ErrNotFound), http.StatusNotFound, "COMPANY_NOT_FOUND"},
		{"error inesperado", "", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newReportApp(apphttp.NewReportHandler(&stubBuilder{err: tt.err}, stubPDF{}, nil, nil, zerolog.Nop()))

			resp := doRequest(t, app, http.MethodGet, "/api/reports/inventory"+tt.query, tokenForRole(t, "admin"), nil)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestGetInventoryReportPDF(t *testing.T) {
	app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, nil, nil, zerolog.Nop()))

	resp := doRequest(t, app, http.MethodGet, "/api/reports/inventory/pdf?start_date=2024-01-01&end_date=2024-01-31", tokenForRole(t, "admin"), nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estoque_2024-01-01_2024-01-31.pdf")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestSendInventoryReport(t *testing.T) {
	body := `{"start_date":"2024-01-01","end_date":"2024-01-31","recipients":["gerente@loja.com.br"]}`

	t.Run("correo no configurado", func(t *testing.T) {
		app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, nil, nil, zerolog.Nop()))
		resp := doRequest(t, app, http.MethodPost, "/api/reports/inventory/email", tokenForRole(t, "admin"), strings.NewReader(body))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "MAIL_DISABLED", errorCode(t, resp))
	})

	t.Run("rol sin permiso", func(t *testing.T) {
		app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, &stubSender{}, nil, zerolog.Nop()))
		resp := doRequest(t, app, http.MethodPost, "/api/reports/inventory/email", tokenForRole(t, "vendedor"), strings.NewReader(body))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("enviado", func(t *testing.T) {
		sender := &stubSender{}
		app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, sender, nil, zerolog.Nop()))
		resp := doRequest(t, app, http.MethodPost, "/api/reports/inventory/email", tokenForRole(t, "bodeguero"), strings.NewReader(body))
		defer resp.Body.Close()

		require.Equal(t, http.StatusAccepted, resp.StatusCode)
		var res dto.DeliveryResultDTO
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "d-1", res.DeliveryID)
		assert.Equal(t, []string{"gerente@loja.com.br"}, sender.recipients)
	})

	errs := []struct {
		err    error
		status int
		code   string
	}{
		{report.ErrNoRecipients, http.StatusBadRequest, "INVALID_RECIPIENTS"},
		{fmt.Errorf("%w: x", report.ErrInvalidRecipient), http.StatusBadRequest, "INVALID_RECIPIENTS"},
		{fmt.Errorf("sendgrid: %w", report.ErrMailerUnavailable), http.StatusServiceUnavailable, "MAILER_UNAVAILABLE"},
		{fmt.Errorf("sendgrid: %w", report.ErrDeliveryFailed), http.StatusBadGateway, "DELIVERY_FAILED"},
	}
	for _, tt := range errs {
		t.Run(tt.code, func(t *testing.T) {
			app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, &stubSender{err: tt.err}, nil, zerolog.Nop()))
			resp := doRequest(t, app, http.MethodPost, "/api/reports/inventory/email", tokenForRole(t, "admin"), strings.NewReader(body))
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestGetInventoryInsights(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, nil, stubSummarizer{}, zerolog.Nop()))
		resp := doRequest(t, app, http.MethodGet, "/api/reports/inventory/insights", tokenForRole(t, "admin"), nil)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var res dto.ReportInsightsDTO
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "Estoque saudável.", res.Narrative)
	})

	t.Run("IA no configurada", func(t *testing.T) {
		app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, nil, nil, zerolog.Nop()))
		resp := doRequest(t, app, http.MethodGet, "/api/reports/inventory/insights", tokenForRole(t, "admin"), nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("falla la IA", func(t *testing.T) {
		app := newReportApp(apphttp.NewReportHandler(&stubBuilder{}, stubPDF{}, nil, stubSummarizer{err: errors.New("anthropic: 529")}, zerolog.Nop()))
		resp := doRequest(t, app, http.MethodGet, "/api/reports/inventory/insights", tokenForRole(t, "admin"), nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "AI_FAILED", errorCode(t, resp))
	})
}
