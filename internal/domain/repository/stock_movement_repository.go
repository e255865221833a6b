package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
)

// DateRange rango de fechas inclusivo para filtrar movimientos.
type DateRange struct {
	From time.Time
	To   time.Time
}

// StockMovementRepository define el puerto de lectura de movimientos de inventario.
type StockMovementRepository interface {
	// ListByCompany devuelve los movimientos de la empresa ordenados por fecha.
	// Con period == nil devuelve el historial completo.
	ListByCompany(ctx context.Context, companyID string, period *DateRange) ([]*entity.StockMovement, error)
}
