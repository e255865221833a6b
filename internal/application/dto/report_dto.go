package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// InventoryReportRequest parámetros para GET /api/reports/inventory.
type InventoryReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto primer día del mes actual
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
}

// SendReportRequest cuerpo de POST /api/reports/inventory/email.
type SendReportRequest struct {
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Recipients []string `json:"recipients"`
}

// ── Payload ───────────────────────────────────────────────────────────────────

// AlertType clasificación de una alerta de inventario.
type AlertType string

const (
	AlertRuptura AlertType = "RUPTURA" // saldo por debajo del estoque mínimo
	AlertExcesso AlertType = "EXCESSO" // saldo por encima del múltiplo de exceso
	AlertParado  AlertType = "PARADO"  // sin movimiento dentro de la ventana
)

// ReportCompanyDTO datos de contexto de la empresa.
type ReportCompanyDTO struct {
	Name   string `json:"name"`
	CNPJ   string `json:"cnpj"`
	Sector string `json:"sector"`
}

// ReportKPIsDTO indicadores del reporte.
type ReportKPIsDTO struct {
	TotalItems            int             `json:"total_items"`
	CriticalStockItems    int             `json:"critical_stock_items"`
	ExcessStockItems      int             `json:"excess_stock_items"`
	DeadStockItems        int             `json:"dead_stock_items"`
	CurrentInventoryValue decimal.Decimal `json:"current_inventory_value"`
	TotalPurchasesPeriod  decimal.Decimal `json:"total_purchases_period"`
	TotalExitsPeriod      decimal.Decimal `json:"total_exits_period"`
}

// ReportAlertDTO alerta priorizada.
type ReportAlertDTO struct {
	Type         AlertType        `json:"type"`
	ProductID    string           `json:"product_id"`
	Product      string           `json:"product"`
	CurrentStock decimal.Decimal  `json:"current_stock"`
	MinStock     *decimal.Decimal `json:"min_stock,omitempty"` // solo RUPTURA y EXCESSO
	Value        decimal.Decimal  `json:"value"`               // saldo valorizado a pmed
	Suggestion   string           `json:"suggestion"`
}

// ABCItemDTO producto dentro de una curva ABC.
type ABCItemDTO struct {
	ProductID        string          `json:"product_id"`
	Product          string          `json:"product"`
	ConsumptionValue decimal.Decimal `json:"consumption_value"`
	SharePercentage  decimal.Decimal `json:"share_percentage"` // participación individual
	Percentage       decimal.Decimal `json:"percentage"`       // acumulado hasta este producto
}

// ABCCurveDTO productos con consumo en el período repartidos en A, B y C.
type ABCCurveDTO struct {
	A []ABCItemDTO `json:"a"`
	B []ABCItemDTO `json:"b"`
	C []ABCItemDTO `json:"c"`
}

// DeadStockItemDTO producto parado con saldo valorizado.
type DeadStockItemDTO struct {
	ProductID           string          `json:"product_id"`
	Product             string          `json:"product"`
	DaysWithoutMovement *int            `json:"days_without_movement"` // null = nunca movido
	Value               decimal.Decimal `json:"value"`
}

// ReportRulesDTO configuración usada en el cálculo (auditoría).
type ReportRulesDTO struct {
	MinStockMethod   string          `json:"min_stock_method"`
	ExcessMultiplier decimal.Decimal `json:"excess_multiplier"`
	DeadStockDays    int             `json:"dead_stock_days"`
}

// AIReportPayload respuesta de GET /api/reports/inventory.
// Es una fotografía: este módulo no la persiste.
type AIReportPayload struct {
	Company   ReportCompanyDTO   `json:"company"`
	Period    PeriodDTO          `json:"period"`
	KPIs      ReportKPIsDTO      `json:"kpis"`
	Alerts    []ReportAlertDTO   `json:"alerts"`
	ABC       ABCCurveDTO        `json:"abc"`
	DeadStock []DeadStockItemDTO `json:"dead_stock"`
	Rules     ReportRulesDTO     `json:"rules"`
}

// ── Entrega y narrativa ───────────────────────────────────────────────────────

// DeliveryResultDTO respuesta de POST /api/reports/inventory/email.
type DeliveryResultDTO struct {
	DeliveryID string   `json:"delivery_id"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
}

// ReportInsightsDTO respuesta de GET /api/reports/inventory/insights.
type ReportInsightsDTO struct {
	Report    *AIReportPayload `json:"report"`
	Narrative string           `json:"narrative"`
}
