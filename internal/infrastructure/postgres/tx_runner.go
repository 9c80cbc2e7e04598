package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Workforce-api/internal/application/access"
	"github.com/jhoicas/Workforce-api/internal/application/usecase"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

// Ensure TxRunner implements access.PermissionTxRunner and usecase.CompanySetupTxRunner.
var _ access.PermissionTxRunner = (*TxRunner)(nil)
var _ usecase.CompanySetupTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, timeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, timeout: timeout}
}

// RunModules ejecuta fn con un ModuleRepository atado a la tx (reemplazo atómico de permisos).
func (r *TxRunner) RunModules(ctx context.Context, fn func(modules repository.ModuleRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewModuleRepository(tx, r.timeout))
	})
}

// RunCompanySetup alta de empresa: empresa, licencia, módulos y admin inicial o nada.
func (r *TxRunner) RunCompanySetup(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	licenses repository.LicenseRepository,
	modules repository.ModuleRepository,
	users repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(
			NewCompanyRepository(tx, r.timeout),
			NewLicenseRepository(tx, r.timeout),
			NewModuleRepository(tx, r.timeout),
			NewUserRepository(tx, r.timeout),
		)
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Infra("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Infra("commit transaction", err)
	}
	return nil
}
