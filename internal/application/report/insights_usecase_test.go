package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
	"github.com/jhoicas/inventario-ai-report/internal/application/report"
)

type stubNarrator struct {
	text        string
	err         error
	hadDeadline bool
}

func (s *stubNarrator) SummarizeInventoryReport(ctx context.Context, _ *dto.AIReportPayload) (string, error) {
	_, s.hadDeadline = ctx.Deadline()
	return s.text, s.err
}

func TestSummarize_AdjuntaNarrativaConTimeout(t *testing.T) {
	payload := samplePayload()
	narrator := &stubNarrator{text: "Estoque saudável."}
	uc := report.NewInsightsUseCase(&stubBuilder{payload: payload}, narrator)

	res, err := uc.Summarize(context.Background(), testCompanyID, day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)

	assert.Same(t, payload, res.Report)
	assert.Equal(t, "Estoque saudável.", res.Narrative)
	assert.True(t, narrator.hadDeadline)
}

func TestSummarize_ErrorDelNarrador(t *testing.T) {
	aiErr := errors.New("429 rate limit")
	uc := report.NewInsightsUseCase(&stubBuilder{payload: samplePayload()}, &stubNarrator{err: aiErr})

	_, err := uc.Summarize(context.Background(), testCompanyID, day("2024-01-01"), day("2024-01-31"))
	assert.ErrorIs(t, err, aiErr)
	assert.Contains(t, err.Error(), "narrativa IA")
}

func TestParsePeriod(t *testing.T) {
	now := time.Date(2024, 3, 17, 15, 4, 5, 0, time.UTC)

	t.Run("valores por defecto: mes corriente hasta hoy", func(t *testing.T) {
		start, end, err := report.ParsePeriod("", "", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("fechas explícitas", func(t *testing.T) {
		start, end, err := report.ParsePeriod("2023-01-01", "2023-01-31", now)
		require.NoError(t, err)
		assert.Equal(t, "2023-01-01", start.Format("2006-01-02"))
		assert.Equal(t, "2023-01-31", end.Format("2006-01-02"))
	})

	t.Run("formato inválido", func(t *testing.T) {
		_, _, err := report.ParsePeriod("01/01/2023", "", now)
		assert.Error(t, err)
		_, _, err = report.ParsePeriod("", "2023-13-01", now)
		assert.Error(t, err)
	})

	t.Run("no valida el orden", func(t *testing.T) {
		_, _, err := report.ParsePeriod("2023-02-01", "2023-01-01", now)
		assert.NoError(t, err)
	})
}

func TestRulesValidate(t *testing.T) {
	assert.NoError(t, report.DefaultRules().Validate())

	r := report.DefaultRules()
	r.MinStockMethod = "average"
	assert.Error(t, r.Validate())

	r = report.DefaultRules()
	r.DeadStockDays = 0
	assert.Error(t, r.Validate())

	r = report.DefaultRules()
	r.ABCThresholdA, r.ABCThresholdB = r.ABCThresholdB, r.ABCThresholdA
	assert.Error(t, r.Validate())

	r = report.DefaultRules()
	r.ABCThresholdA = decimal.NewFromInt(96)
	assert.Error(t, r.Validate(), "A por encima de B")
}
