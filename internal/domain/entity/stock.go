package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance saldo actual de un producto en una bodega.
// El saldo del producto es la suma de todas sus bodegas.
type StockBalance struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}
