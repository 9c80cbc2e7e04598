package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

var _ repository.GeofenceRepository = (*GeofenceRepo)(nil)

// GeofenceRepo zonas de geocerca.
type GeofenceRepo struct {
	store
}

func NewGeofenceRepository(db Querier, timeout time.Duration) *GeofenceRepo {
	return &GeofenceRepo{store: newStore(db, timeout)}
}

const zoneColumns = `id::text, company_id::text, branch_id::text, name, latitude, longitude, radius_meters, is_active, created_at, updated_at`

func (r *GeofenceRepo) Create(ctx context.Context, z *entity.GeofenceZone) error {
	query := `
		INSERT INTO geofence_zones (id, company_id, branch_id, name, latitude, longitude, radius_meters, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	return r.write(ctx, "insert geofence zone", func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			z.ID, z.CompanyID, nullable(z.BranchID), z.Name, z.Latitude, z.Longitude, z.RadiusMeters,
			z.IsActive, z.CreatedAt, z.UpdatedAt,
		)
		return err
	})
}

func (r *GeofenceRepo) GetByID(ctx context.Context, id string) (*entity.GeofenceZone, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + zoneColumns + ` FROM geofence_zones WHERE id = $1`
	var z *entity.GeofenceZone
	err := r.read(ctx, "get geofence zone", func(ctx context.Context) error {
		found, err := scanZone(r.db.QueryRow(ctx, query, id))
		if notFound(err) {
			z = nil
			return nil
		}
		z = found
		return err
	})
	return z, err
}

func (r *GeofenceRepo) Update(ctx context.Context, z *entity.GeofenceZone) error {
	query := `
		UPDATE geofence_zones
		SET branch_id = $2, name = $3, latitude = $4, longitude = $5, radius_meters = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	return r.write(ctx, "update geofence zone", func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query, z.ID, nullable(z.BranchID), z.Name, z.Latitude, z.Longitude, z.RadiusMeters, z.IsActive, z.UpdatedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (r *GeofenceRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return r.write(ctx, "delete geofence zone", func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, `DELETE FROM geofence_zones WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ListVisible zonas activas de toda la empresa más las de la sucursal, en orden (created_at, id).
func (r *GeofenceRepo) ListVisible(ctx context.Context, companyID, branchID string) ([]*entity.GeofenceZone, error) {
	query := `
		SELECT ` + zoneColumns + ` FROM geofence_zones
		WHERE company_id = $1 AND is_active AND (branch_id IS NULL OR branch_id::text = $2)
		ORDER BY created_at, id`
	return r.list(ctx, "list visible zones", query, companyID, branchID)
}

func (r *GeofenceRepo) ListByCompany(ctx context.Context, companyID, branchID string) ([]*entity.GeofenceZone, error) {
	query := `
		SELECT ` + zoneColumns + ` FROM geofence_zones
		WHERE company_id = $1 AND ($2 = '' OR branch_id::text = $2)
		ORDER BY created_at, id`
	return r.list(ctx, "list zones", query, companyID, branchID)
}

func (r *GeofenceRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.GeofenceZone, error) {
	var zones []*entity.GeofenceZone
	err := r.read(ctx, op, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		zones, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.GeofenceZone, error) {
			return scanZone(row)
		})
		return err
	})
	return zones, err
}

func scanZone(row pgx.Row) (*entity.GeofenceZone, error) {
	var z entity.GeofenceZone
	err := row.Scan(&z.ID, &z.CompanyID, &z.BranchID, &z.Name, &z.Latitude, &z.Longitude, &z.RadiusMeters, &z.IsActive, &z.CreatedAt, &z.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &z, nil
}
