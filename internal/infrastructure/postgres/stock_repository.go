package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
	"github.com/jhoicas/inventario-ai-report/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo lectura de saldos (tabla stock) sobre PostgreSQL.
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// ListByCompany devuelve un registro por producto y bodega.
// La tabla stock no guarda company_id; se filtra por el producto.
func (r *StockBalanceRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.StockBalance, error) {
	const query = `
		SELECT s.product_id, s.warehouse_id, s.quantity, s.updated_at
		FROM stock s
		JOIN products p ON p.id = s.product_id
		WHERE p.company_id = $1
		ORDER BY s.product_id, s.warehouse_id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockBalance
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.ProductID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
