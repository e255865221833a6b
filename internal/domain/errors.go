package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrInvalidRange          = errors.New("período inválido: la fecha inicial es posterior a la final")
	ErrMissingCompanyContext = errors.New("no hay empresa autenticada en el contexto")
)

// UpstreamFetchError indica que una de las lecturas de snapshot falló.
// Source identifica la lectura: products, movements, balances o company.
// Unwrap expone el error original del colaborador sin modificarlo.
type UpstreamFetchError struct {
	Source string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("lectura de %s: %v", e.Source, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// NewUpstreamFetchError envuelve err indicando la lectura que lo produjo.
func NewUpstreamFetchError(source string, err error) *UpstreamFetchError {
	return &UpstreamFetchError{Source: source, Err: err}
}
