package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
	"github.com/jhoicas/inventario-ai-report/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo lectura de inventory_movements sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// ListByCompany lista las entradas y salidas de la empresa en orden cronológico.
// Ajustes y traslados entre bodegas no entran al reporte.
func (r *StockMovementRepo) ListByCompany(ctx context.Context, companyID string, period *repository.DateRange) ([]*entity.StockMovement, error) {
	query := `
		SELECT m.id, p.company_id, m.product_id, m.type, m.quantity, m.total_cost, m.date
		FROM inventory_movements m
		JOIN products p ON p.id = m.product_id
		WHERE p.company_id = $1 AND upper(trim(m.type)) IN ('IN', 'OUT')`
	args := []any{companyID}
	if period != nil {
		query += " AND m.date >= $2 AND m.date < $3"
		args = append(args, period.From, period.To.AddDate(0, 0, 1))
	}
	query += " ORDER BY m.date, m.id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var rawType string
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ProductID, &rawType, &m.Quantity, &m.TotalValue, &m.Date); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		t, err := entity.ParseMovementType(rawType)
		if err != nil {
			return nil, fmt.Errorf("movement %s: %w", m.ID, err)
		}
		m.Type = t
		list = append(list, &m)
	}
	return list, rows.Err()
}
