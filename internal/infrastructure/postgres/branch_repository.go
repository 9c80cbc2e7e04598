package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

var _ repository.BranchRepository = (*BranchRepo)(nil)

// BranchRepo sucursales sobre PostgreSQL.
type BranchRepo struct {
	store
}

// NewBranchRepository construye el repositorio de sucursales.
func NewBranchRepository(db Querier, timeout time.Duration) *BranchRepo {
	return &BranchRepo{store: newStore(db, timeout)}
}

const branchColumns = `id::text, company_id::text, name, address, is_active, max_employees, created_at, updated_at`

// Create inserta la sucursal; nombre repetido en la empresa → domain.ErrBranchNameExists.
func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	query := `
		INSERT INTO branches (id, company_id, name, address, is_active, max_employees, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	return r.write(ctx, "insert branch", func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, b.ID, b.CompanyID, b.Name, b.Address, b.IsActive, b.MaxEmployees, b.CreatedAt, b.UpdatedAt)
		return branchConflict(err)
	})
}

func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + branchColumns + ` FROM branches WHERE id = $1`
	var b *entity.Branch
	err := r.read(ctx, "get branch", func(ctx context.Context) error {
		found, err := scanBranch(r.db.QueryRow(ctx, query, id))
		if notFound(err) {
			b = nil
			return nil
		}
		b = found
		return err
	})
	return b, err
}

func (r *BranchRepo) Update(ctx context.Context, b *entity.Branch) error {
	query := `
		UPDATE branches SET name = $2, address = $3, is_active = $4, max_employees = $5, updated_at = $6
		WHERE id = $1`
	return r.write(ctx, "update branch", func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, b.ID, b.Name, b.Address, b.IsActive, b.MaxEmployees, b.UpdatedAt)
		if err != nil {
			return branchConflict(err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *BranchRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches WHERE company_id = $1 ORDER BY name`
	var list []*entity.Branch
	err := r.read(ctx, "list branches", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, companyID)
		if err != nil {
			return err
		}
		list, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Branch, error) {
			return scanBranch(row)
		})
		return err
	})
	return list, err
}

func (r *BranchRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.read(ctx, "count branches", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `SELECT count(*) FROM branches WHERE company_id = $1`, companyID).Scan(&n)
	})
	return n, err
}

func branchConflict(err error) error {
	if isUniqueViolation(err) {
		return domain.ErrBranchNameExists
	}
	return err
}

func scanBranch(row pgx.Row) (*entity.Branch, error) {
	var b entity.Branch
	if err := row.Scan(&b.ID, &b.CompanyID, &b.Name, &b.Address, &b.IsActive, &b.MaxEmployees, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
