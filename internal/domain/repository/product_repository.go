package repository

import (
	"context"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo de productos (DIP).
type ProductRepository interface {
	// ListByCompany devuelve todos los productos de la empresa, activos e inactivos.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error)
}
