package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MinStockMethodFixed usa el estoque mínimo configurado en cada producto.
const MinStockMethodFixed = "fixed"

// Rules parámetros de negocio del reporte. Se devuelven en payload.rules para auditoría.
type Rules struct {
	MinStockMethod      string
	ExcessMultiplier    decimal.Decimal // EXCESSO cuando saldo > mínimo * ExcessMultiplier
	DeadStockDays       int             // ventana sin movimiento para PARADO
	ReorderTargetFactor decimal.Decimal // stock ideal = mínimo * factor (sugerencia de RUPTURA)
	ABCThresholdA       decimal.Decimal // % acumulado máximo de la curva A
	ABCThresholdB       decimal.Decimal // % acumulado máximo de la curva B
}

// DefaultRules valores por defecto: 3x el mínimo, 90 días, curva 80/95.
func DefaultRules() Rules {
	return Rules{
		MinStockMethod:      MinStockMethodFixed,
		ExcessMultiplier:    decimal.NewFromInt(3),
		DeadStockDays:       90,
		ReorderTargetFactor: decimal.NewFromFloat(1.5),
		ABCThresholdA:       decimal.NewFromInt(80),
		ABCThresholdB:       decimal.NewFromInt(95),
	}
}

// Validate rechaza combinaciones que harían el reporte inconsistente.
func (r Rules) Validate() error {
	if r.MinStockMethod != MinStockMethodFixed {
		return fmt.Errorf("reglas: min_stock_method %q no soportado", r.MinStockMethod)
	}
	if !r.ExcessMultiplier.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("reglas: excess_multiplier debe ser mayor que 1")
	}
	if r.DeadStockDays <= 0 {
		return fmt.Errorf("reglas: dead_stock_days debe ser positivo")
	}
	if r.ReorderTargetFactor.LessThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("reglas: reorder_target_factor debe ser al menos 1")
	}
	if !r.ABCThresholdA.IsPositive() || !r.ABCThresholdA.LessThan(r.ABCThresholdB) || r.ABCThresholdB.GreaterThan(hundred) {
		return fmt.Errorf("reglas: umbrales ABC inválidos (0 < A < B <= 100)")
	}
	return nil
}
