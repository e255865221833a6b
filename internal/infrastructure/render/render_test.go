package render

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
)

func samplePayload() *dto.AIReportPayload {
	minStock := decimal.NewFromInt(10)
	days := 120
	return &dto.AIReportPayload{
		Company: dto.ReportCompanyDTO{Name: "Loja <Teste>", CNPJ: "12.345.678/0001-90", Sector: "varejo"},
		Period:  dto.PeriodDTO{StartDate: "2024-01-01", EndDate: "2024-01-31"},
		KPIs: dto.ReportKPIsDTO{
			TotalItems:            3,
			CriticalStockItems:    1,
			DeadStockItems:        1,
			CurrentInventoryValue: decimal.RequireFromString("1234.56"),
			TotalPurchasesPeriod:  decimal.NewFromInt(500),
			TotalExitsPeriod:      decimal.RequireFromString("99.9"),
		},
		Alerts: []dto.ReportAlertDTO{{
			Type: dto.AlertRuptura, ProductID: "1", Product: "Caneta azul",
			CurrentStock: decimal.NewFromInt(5), MinStock: &minStock, Value: decimal.NewFromInt(50),
			Suggestion: "Repor 10 un.",
		}},
		ABC: dto.ABCCurveDTO{
			A: []dto.ABCItemDTO{{ProductID: "1", Product: "Caneta azul", ConsumptionValue: decimal.NewFromInt(80), SharePercentage: decimal.NewFromInt(80), Percentage: decimal.NewFromInt(80)}},
			B: []dto.ABCItemDTO{},
			C: []dto.ABCItemDTO{{ProductID: "2", Product: "Lápis", ConsumptionValue: decimal.NewFromInt(20), SharePercentage: decimal.NewFromInt(20), Percentage: decimal.NewFromInt(100)}},
		},
		DeadStock: []dto.DeadStockItemDTO{{ProductID: "3", Product: "Borracha", DaysWithoutMovement: &days, Value: decimal.NewFromInt(30)}},
		Rules:     dto.ReportRulesDTO{MinStockMethod: "fixed", ExcessMultiplier: decimal.NewFromInt(3), DeadStockDays: 90},
	}
}

func TestFormat_PtBR(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", money(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$ 0,00", money(decimal.Zero))
	assert.Equal(t, "5", quantity(decimal.NewFromInt(5)))
	assert.Equal(t, "2,50", quantity(decimal.RequireFromString("2.5")))
	assert.Equal(t, "31/01/2024", brDate("2024-01-31"))
	assert.Equal(t, "nunca movimentado", daysLabel(nil))
}

func TestHTMLRenderer_Render(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	subject, html, err := r.Render(samplePayload())
	require.NoError(t, err)

	assert.Equal(t, "Relatório de estoque - Loja <Teste> (01/01/2024 a 31/01/2024)", subject)
	assert.Contains(t, html, "Loja &lt;Teste&gt;", "html/template escapa los datos")
	assert.Contains(t, html, "R$ 1.234,56")
	assert.Contains(t, html, "RUPTURA")
	assert.Contains(t, html, "Caneta azul")
	assert.Contains(t, html, "A: 1 itens · B: 0 itens · C: 1 itens")
	assert.Contains(t, html, "Borracha: R$ 30,00, 120 dias")
}

func TestHTMLRenderer_LimitaAlertas(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	p := samplePayload()
	alert := p.Alerts[0]
	p.Alerts = nil
	for i := 0; i < maxAlertRows+5; i++ {
		p.Alerts = append(p.Alerts, alert)
	}

	_, html, err := r.Render(p)
	require.NoError(t, err)
	assert.Contains(t, html, "+ 5 alertas no relatório completo.")
}

func TestHTMLRenderer_SinAlertas(t *testing.T) {
	r, err := NewHTMLRenderer()
	require.NoError(t, err)

	p := samplePayload()
	p.Alerts = []dto.ReportAlertDTO{}

	_, html, err := r.Render(p)
	require.NoError(t, err)
	assert.Contains(t, html, "Nenhum alerta no período.")
}

func TestPDFRenderer_Render(t *testing.T) {
	pdf, err := NewPDFRenderer().Render(samplePayload())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestRender_PayloadNil(t *testing.T) {
	_, err := NewPDFRenderer().Render(nil)
	assert.Error(t, err)

	r, err := NewHTMLRenderer()
	require.NoError(t, err)
	_, _, err = r.Render(nil)
	assert.Error(t, err)
}
