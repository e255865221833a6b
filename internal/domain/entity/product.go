package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la empresa.
// Cost es el costo promedio ponderado (pmed) con el que se valoriza el inventario.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código interno, opcional
	Description string
	MinStock    decimal.Decimal // estoque mínimo; 0 = sin umbral configurado
	Cost        decimal.Decimal // pmed
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InventoryValue valoriza una cantidad al costo promedio del producto.
func (p *Product) InventoryValue(qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(p.Cost)
}
