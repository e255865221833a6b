package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ai-report/internal/domain/entity"
	"github.com/jhoicas/inventario-ai-report/internal/domain/repository"
)

const companyKeyPrefix = "report:company:"

var _ repository.CompanyRepository = (*CachedCompanyRepository)(nil)

// Store subconjunto de *redis.Client usado por la caché.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedCompanyRepository decora un CompanyRepository con lectura desde Redis.
// Solo GetByID pasa por la caché; HasActiveModule siempre consulta la base.
// Cualquier error de Redis se registra y se resuelve contra el repositorio envuelto.
type CachedCompanyRepository struct {
	next  repository.CompanyRepository
	store Store
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedCompanyRepository construye el decorador.
func NewCachedCompanyRepository(next repository.CompanyRepository, store Store, ttl time.Duration, log zerolog.Logger) *CachedCompanyRepository {
	return &CachedCompanyRepository{next: next, store: store, ttl: ttl, log: log}
}

// cachedCompany forma serializada; entity.Company no lleva tags json.
type cachedCompany struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Sector    string    `json:"sector"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *CachedCompanyRepository) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	key := companyKeyPrefix + id

	raw, err := r.store.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c cachedCompany
		if jsonErr := json.Unmarshal(raw, &c); jsonErr == nil {
			return c.toEntity(), nil
		}
		r.log.Warn().Str("key", key).Msg("caché de empresa: valor corrupto, se ignora")
	case !errors.Is(err, redis.Nil):
		r.log.Warn().Err(err).Str("key", key).Msg("caché de empresa no disponible")
	}

	company, err := r.next.GetByID(ctx, id)
	if err != nil || company == nil {
		return company, err
	}

	payload, err := json.Marshal(fromEntity(company))
	if err == nil {
		err = r.store.Set(ctx, key, payload, r.ttl).Err()
	}
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("caché de empresa: no se pudo guardar")
	}
	return company, nil
}

func (r *CachedCompanyRepository) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	return r.next.HasActiveModule(ctx, companyID, moduleName)
}

func fromEntity(c *entity.Company) cachedCompany {
	return cachedCompany{
		ID: c.ID, Name: c.Name, TaxID: c.TaxID, Sector: c.Sector,
		Email: c.Email, Status: c.Status, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func (c cachedCompany) toEntity() *entity.Company {
	return &entity.Company{
		ID: c.ID, Name: c.Name, TaxID: c.TaxID, Sector: c.Sector,
		Email: c.Email, Status: c.Status, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}
