package repository

import (
	"context"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
)

// StockBalanceRepository define el puerto para consultar el saldo actual por bodega+producto.
type StockBalanceRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]*entity.StockBalance, error)
}
