package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

var _ repository.LicenseRepository = (*LicenseRepo)(nil)

// LicenseRepo licencias (una por empresa).
type LicenseRepo struct {
	store
}

func NewLicenseRepository(db Querier, timeout time.Duration) *LicenseRepo {
	return &LicenseRepo{store: newStore(db, timeout)}
}

const licenseColumns = `company_id::text, start_date, duration_value, duration_unit, end_date, is_active, created_at, updated_at`

func (r *LicenseRepo) Create(ctx context.Context, l *entity.License) error {
	query := `
		INSERT INTO licenses (company_id, start_date, duration_value, duration_unit, end_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	return r.write(ctx, "insert license", func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, l.CompanyID, l.StartDate, l.DurationValue, l.DurationUnit, l.EndDate, l.IsActive, l.CreatedAt, l.UpdatedAt)
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	})
}

func (r *LicenseRepo) GetByCompany(ctx context.Context, companyID string) (*entity.License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses WHERE company_id = $1`
	var l *entity.License
	err := r.read(ctx, "get license", func(ctx context.Context) error {
		found, err := scanLicense(r.db.QueryRow(ctx, query, companyID))
		if notFound(err) {
			l = nil
			return nil
		}
		l = found
		return err
	})
	return l, err
}

func (r *LicenseRepo) Update(ctx context.Context, l *entity.License) error {
	query := `
		UPDATE licenses
		SET start_date = $2, duration_value = $3, duration_unit = $4, end_date = $5, is_active = $6, updated_at = $7
		WHERE company_id = $1`
	return r.write(ctx, "update license", func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, l.CompanyID, l.StartDate, l.DurationValue, l.DurationUnit, l.EndDate, l.IsActive, l.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ListExpiringBefore licencias activas que vencen antes de t, la más próxima primero.
func (r *LicenseRepo) ListExpiringBefore(ctx context.Context, t time.Time) ([]*entity.License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses WHERE is_active AND end_date < $1 ORDER BY end_date`
	var list []*entity.License
	err := r.read(ctx, "list expiring licenses", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, t)
		if err != nil {
			return err
		}
		list, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.License, error) {
			return scanLicense(row)
		})
		return err
	})
	return list, err
}

func scanLicense(row pgx.Row) (*entity.License, error) {
	var l entity.License
	err := row.Scan(&l.CompanyID, &l.StartDate, &l.DurationValue, &l.DurationUnit, &l.EndDate, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
