package attendance

import (
	"context"

	"github.com/jhoicas/Workforce-api/internal/domain/geofence"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// GeofenceService clasifica coordenadas contra las zonas visibles del alcance.
// La clasificación es metadato de auditoría: nunca bloquea un registro.
type GeofenceService struct {
	zones repository.GeofenceRepository
	log   *logger.Logger
}

// NewGeofenceService construye el servicio.
func NewGeofenceService(zones repository.GeofenceRepository, log *logger.Logger) *GeofenceService {
	return &GeofenceService{zones: zones, log: log}
}

// Classify consulta las zonas activas de la empresa (y de la sucursal) y clasifica p.
// Si la consulta falla el resultado es unchecked y el error solo se registra.
func (s *GeofenceService) Classify(ctx context.Context, companyID, branchID string, p geofence.Point) geofence.Result {
	zones, err := s.zones.ListVisible(ctx, companyID, branchID)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("company_id", companyID).
			Str("branch_id", branchID).
			Msg("geocerca: no se pudieron consultar las zonas, se registra sin verificar")
		return geofence.Unchecked()
	}
	return geofence.Classify(p, zones)
}
