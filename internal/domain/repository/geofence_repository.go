package repository

import (
	"context"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// GeofenceRepository persistencia de zonas de geocerca.
type GeofenceRepository interface {
	Create(ctx context.Context, zone *entity.GeofenceZone) error
	GetByID(ctx context.Context, id string) (*entity.GeofenceZone, error)
	Update(ctx context.Context, zone *entity.GeofenceZone) error
	Delete(ctx context.Context, id string) error
	// ListVisible zonas activas de la empresa sin sucursal o de la sucursal dada,
	// en orden estable (created_at, id). Es el orden que usa la clasificación.
	ListVisible(ctx context.Context, companyID, branchID string) ([]*entity.GeofenceZone, error)
	// ListByCompany todas las zonas (activas o no); branchID vacío = sin filtrar.
	ListByCompany(ctx context.Context, companyID, branchID string) ([]*entity.GeofenceZone, error)
}
