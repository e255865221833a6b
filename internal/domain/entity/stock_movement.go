package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeIN  MovementType = "IN"  // entrada (compra)
	MovementTypeOUT MovementType = "OUT" // salida (consumo / venta)
)

// ParseMovementType normaliza el valor crudo de la base ("in", " OUT", ...) al enum.
func ParseMovementType(raw string) (MovementType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "IN":
		return MovementTypeIN, nil
	case "OUT":
		return MovementTypeOUT, nil
	default:
		return "", fmt.Errorf("tipo de movimiento desconocido: %q", raw)
	}
}

// StockMovement representa un movimiento de inventario ya registrado.
// Quantity es siempre positiva; el sentido lo indica Type.
type StockMovement struct {
	ID         string
	CompanyID  string
	ProductID  string
	Type       MovementType
	Quantity   decimal.Decimal
	TotalValue decimal.Decimal // valor total del movimiento (qty * costo unitario)
	Date       time.Time
}
