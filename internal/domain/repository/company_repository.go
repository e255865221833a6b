package repository

import (
	"context"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
)

// CompanyRepository define el puerto de lectura de empresas (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// GetByID devuelve (nil, nil) si la empresa no existe.
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
}
