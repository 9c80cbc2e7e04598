package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	store
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db Querier, timeout time.Duration) *CompanyRepo {
	return &CompanyRepo{store: newStore(db, timeout)}
}

const companyColumns = `id::text, code, name, is_active, max_employees, max_branches, created_at, updated_at`

// Create persiste una nueva empresa. Código repetido → domain.ErrDuplicate.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, code, name, is_active, max_employees, max_branches, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	return r.write(ctx, "insert company", func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			company.ID, company.Code, company.Name, company.IsActive,
			company.MaxEmployees, company.MaxBranches, company.CreatedAt, company.UpdatedAt,
		)
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	})
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, "get company", `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByCode obtiene una empresa por su código (ya normalizado).
func (r *CompanyRepo) GetByCode(ctx context.Context, code string) (*entity.Company, error) {
	return r.getOne(ctx, "get company by code", `SELECT `+companyColumns+` FROM companies WHERE code = $1`, code)
}

func (r *CompanyRepo) getOne(ctx context.Context, op, query string, arg string) (*entity.Company, error) {
	var c *entity.Company
	err := r.read(ctx, op, func(ctx context.Context) error {
		found, err := scanCompany(r.db.QueryRow(ctx, query, arg))
		if notFound(err) {
			c = nil
			return nil
		}
		c = found
		return err
	})
	return c, err
}

// List lista empresas por código.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY code LIMIT NULLIF($1::int, 0) OFFSET $2`
	var list []*entity.Company
	err := r.read(ctx, "list companies", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, limit, offset)
		if err != nil {
			return err
		}
		list, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Company, error) {
			return scanCompany(row)
		})
		return err
	})
	return list, err
}

// SetActive activa o desactiva la empresa.
func (r *CompanyRepo) SetActive(ctx context.Context, id string, active bool) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	query := `UPDATE companies SET is_active = $2, updated_at = now() WHERE id = $1`
	return r.write(ctx, "set company status", func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, id, active)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	if err := row.Scan(&c.ID, &c.Code, &c.Name, &c.IsActive, &c.MaxEmployees, &c.MaxBranches, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
