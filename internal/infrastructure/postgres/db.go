package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Workforce-api/internal/domain"
)

// Querier lo satisfacen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual
// dentro y fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// store base común de los repositorios: conexión y tope por consulta.
type store struct {
	db      Querier
	timeout time.Duration
}

func newStore(db Querier, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return store{db: db, timeout: timeout}
}

// read ejecuta una consulta idempotente con contexto acotado. Si falla antes de llegar
// al servidor (pgconn.SafeToRetry) se reintenta una vez.
func (s store) read(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := s.bounded(ctx, fn)
	if err != nil && pgconn.SafeToRetry(err) {
		err = s.bounded(ctx, fn)
	}
	return wrap(op, err)
}

// write ejecuta una escritura con contexto acotado. Nunca se reintenta.
func (s store) write(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	return wrap(op, s.bounded(ctx, fn))
}

// bounded: el tope no depende de que el cliente siga conectado.
func (s store) bounded(ctx context.Context, fn func(ctx context.Context) error) error {
	qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	return fn(qctx)
}

// wrap deja pasar los errores de dominio y envuelve el resto como ErrInfrastructure.
func wrap(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return domain.Infra(op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrConflict, domain.ErrInvalidInput,
		domain.ErrForbidden, domain.ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// notFound convierte pgx.ErrNoRows en (nil, nil) para los Get.
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
