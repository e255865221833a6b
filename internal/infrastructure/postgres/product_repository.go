package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
	"github.com/jhoicas/inventario-ai-report/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// ListByCompany lista el catálogo completo de la empresa, activos e inactivos.
// El filtro por is_active lo aplica el agregador.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error) {
	const query = `
		SELECT id, company_id, COALESCE(sku, ''), description, COALESCE(min_stock, 0), cost, is_active, created_at, updated_at
		FROM products WHERE company_id = $1 ORDER BY description, id`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.SKU, &p.Description, &p.MinStock, &p.Cost,
			&p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
