package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jhoicas/inventario-ai-report/internal/application/dto"
	"github.com/jhoicas/inventario-ai-report/internal/application/report"
)

var _ report.HTMLRenderer = (*HTMLRenderer)(nil)

// maxAlertRows límite de filas de alertas en el cuerpo del correo; el resto se resume.
const maxAlertRows = 30

// HTMLRenderer genera el cuerpo del correo con html/template (escapado automático).
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer compila la plantilla. Falla al arrancar, no en cada envío.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"money":    money,
		"quantity": quantity,
		"percent":  percent,
		"brDate":   brDate,
		"days":     daysLabel,
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("render: compilar plantilla: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

type htmlView struct {
	*dto.AIReportPayload
	Subject      string
	ShownAlerts  []dto.ReportAlertDTO
	HiddenAlerts int
}

func (r *HTMLRenderer) Render(payload *dto.AIReportPayload) (string, string, error) {
	if payload == nil {
		return "", "", fmt.Errorf("render: payload nil")
	}
	subject := subjectFor(payload.Company.Name, payload.Period.StartDate, payload.Period.EndDate)

	view := htmlView{AIReportPayload: payload, Subject: subject, ShownAlerts: payload.Alerts}
	if len(payload.Alerts) > maxAlertRows {
		view.ShownAlerts = payload.Alerts[:maxAlertRows]
		view.HiddenAlerts = len(payload.Alerts) - maxAlertRows
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", "", fmt.Errorf("render: ejecutar plantilla: %w", err)
	}
	return subject, buf.String(), nil
}

const reportTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family:Helvetica,Arial,sans-serif;color:#222;font-size:14px">
<h2 style="color:#00467f;margin-bottom:0">{{.Company.Name}}</h2>
<p style="color:#666;margin-top:4px">CNPJ {{.Company.CNPJ}}{{if .Company.Sector}} · {{.Company.Sector}}{{end}}<br>
Período: {{brDate .Period.StartDate}} a {{brDate .Period.EndDate}}</p>

<h3>Indicadores</h3>
<table cellpadding="6" style="border-collapse:collapse">
<tr><td>Itens ativos</td><td><strong>{{.KPIs.TotalItems}}</strong></td></tr>
<tr><td>Itens em ruptura</td><td><strong>{{.KPIs.CriticalStockItems}}</strong></td></tr>
<tr><td>Itens em excesso</td><td><strong>{{.KPIs.ExcessStockItems}}</strong></td></tr>
<tr><td>Itens parados</td><td><strong>{{.KPIs.DeadStockItems}}</strong></td></tr>
<tr><td>Valor do estoque</td><td><strong>{{money .KPIs.CurrentInventoryValue}}</strong></td></tr>
<tr><td>Compras no período</td><td><strong>{{money .KPIs.TotalPurchasesPeriod}}</strong></td></tr>
<tr><td>Saídas no período</td><td><strong>{{money .KPIs.TotalExitsPeriod}}</strong></td></tr>
</table>

<h3>Alertas</h3>
{{if .ShownAlerts}}
<table cellpadding="6" border="1" style="border-collapse:collapse;border-color:#ddd">
<tr style="background:#00467f;color:#fff"><th>Tipo</th><th>Produto</th><th>Saldo</th><th>Mínimo</th><th>Valor</th><th>Sugestão</th></tr>
{{range .ShownAlerts}}<tr>
<td>{{.Type}}</td><td>{{.Product}}</td><td>{{quantity .CurrentStock}}</td>
<td>{{if .MinStock}}{{quantity .MinStock}}{{else}}-{{end}}</td><td>{{money .Value}}</td><td>{{.Suggestion}}</td>
</tr>
{{end}}</table>
{{if .HiddenAlerts}}<p style="color:#666">+ {{.HiddenAlerts}} alertas no relatório completo.</p>{{end}}
{{else}}<p>Nenhum alerta no período.</p>{{end}}

<h3>Curva ABC</h3>
<p>A: {{len .ABC.A}} itens · B: {{len .ABC.B}} itens · C: {{len .ABC.C}} itens</p>
{{if .ABC.A}}<ul>{{range .ABC.A}}<li>{{.Product}}: {{money .ConsumptionValue}} ({{percent .SharePercentage}})</li>{{end}}</ul>{{end}}

{{if .DeadStock}}<h3>Estoque parado</h3>
<ul>{{range .DeadStock}}<li>{{.Product}}: {{money .Value}}, {{days .DaysWithoutMovement}}</li>{{end}}</ul>{{end}}

<p style="color:#999;font-size:12px">Regras: estoque mínimo {{.Rules.MinStockMethod}}, excesso acima de {{.Rules.ExcessMultiplier}}x o mínimo, parado após {{.Rules.DeadStockDays}} dias sem movimentação.</p>
</body>
</html>
`
