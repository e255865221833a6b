package render

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
)

// Layout A4:
//
//	┌──────────────────────────────────────────────┐
//	│  Empresa + CNPJ           │  Período         │
//	│  KPIs (2 filas x 4)                          │
//	│  Alertas: Tipo | Produto | Saldo | Valor     │
//	│  Curva ABC: Classe | Produto | Consumo | %   │
//	│  Estoque parado: Produto | Dias | Valor      │
//	└──────────────────────────────────────────────┘

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// PDFRenderer genera el reporte en PDF con Maroto v2.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

// Render devuelve los bytes del PDF.
func (r *PDFRenderer) Render(payload *dto.AIReportPayload) ([]byte, error) {
	if payload == nil {
		return nil, fmt.Errorf("pdf: payload nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(subjectFor(payload.Company.Name, payload.Period.StartDate, payload.Period.EndDate), true).
		WithAuthor(payload.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(payload))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRows(payload.KPIs)...)

	m.AddRows(sectionTitle("ALERTAS"))
	if len(payload.Alerts) == 0 {
		m.AddRows(emptyRow("Nenhum alerta no período."))
	} else {
		m.AddRows(tableHeaderRow([]string{"Tipo", "Produto", "Saldo", "Mínimo", "Valor"}, []int{2, 5, 1, 1, 3}))
		for _, a := range payload.Alerts {
			minStock := "-"
			if a.MinStock != nil {
				minStock = quantity(*a.MinStock)
			}
			m.AddRows(tableRow([]int{2, 5, 1, 1, 3},
				string(a.Type), a.Product, quantity(a.CurrentStock), minStock, money(a.Value)))
		}
	}

	m.AddRows(sectionTitle("CURVA ABC"))
	if len(payload.ABC.A)+len(payload.ABC.B)+len(payload.ABC.C) == 0 {
		m.AddRows(emptyRow("Sem consumo no período."))
	} else {
		m.AddRows(tableHeaderRow([]string{"Classe", "Produto", "Consumo", "Part.", "Acum."}, []int{1, 5, 2, 2, 2}))
		for _, class := range []struct {
			name  string
			items []dto.ABCItemDTO
		}{{"A", payload.ABC.A}, {"B", payload.ABC.B}, {"C", payload.ABC.C}} {
			for _, it := range class.items {
				m.AddRows(tableRow([]int{1, 5, 2, 2, 2},
					class.name, it.Product, money(it.ConsumptionValue), percent(it.SharePercentage), percent(it.Percentage)))
			}
		}
	}

	if len(payload.DeadStock) > 0 {
		m.AddRows(sectionTitle("ESTOQUE PARADO"))
		m.AddRows(tableHeaderRow([]string{"Produto", "Sem movimentação", "Valor"}, []int{6, 3, 3}))
		for _, d := range payload.DeadStock {
			m.AddRows(tableRow([]int{6, 3, 3}, d.Product, daysLabel(d.DaysWithoutMovement), money(d.Value)))
		}
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(text.New(
		fmt.Sprintf("Regras: estoque mínimo %s; excesso acima de %sx o mínimo; parado após %d dias sem movimentação.",
			payload.Rules.MinStockMethod, payload.Rules.ExcessMultiplier.String(), payload.Rules.DeadStockDays),
		props.Text{Size: 6.5, Color: colorGray, Top: 2},
	))))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(p *dto.AIReportPayload) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(p.Company.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("CNPJ: "+p.Company.CNPJ, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RELATÓRIO DE ESTOQUE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(brDate(p.Period.StartDate)+" a "+brDate(p.Period.EndDate), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
		),
	)
}

func kpiRows(k dto.ReportKPIsDTO) []core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 5}),
		)
	}
	return []core.Row{
		row.New(14).Add(
			cell("Itens ativos", printer.Sprint(k.TotalItems)),
			cell("Ruptura", printer.Sprint(k.CriticalStockItems)),
			cell("Excesso", printer.Sprint(k.ExcessStockItems)),
			cell("Parados", printer.Sprint(k.DeadStockItems)),
		),
		row.New(14).Add(
			cell("Valor do estoque", money(k.CurrentInventoryValue)),
			cell("Compras no período", money(k.TotalPurchasesPeriod)),
			cell("Saídas no período", money(k.TotalExitsPeriod)),
			col.New(3),
		),
	}
}

func sectionTitle(title string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 4}),
	))
}

func emptyRow(msg string) core.Row {
	return row.New(7).Add(col.New(12).Add(text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1})))
}

func tableHeaderRow(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRow(sizes []int, values ...string) core.Row {
	cols := make([]core.Col, len(values))
	for i, v := range values {
		cols[i] = col.New(sizes[i]).Add(text.New(v, props.Text{Size: 8, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(cols...)
}
