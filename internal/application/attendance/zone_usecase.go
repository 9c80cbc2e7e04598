package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/geofence"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// ZoneUseCase CRUD de zonas de geocerca. company_admin administra todas las zonas de su
// empresa; el gerente solo las de su sucursal.
type ZoneUseCase struct {
	zones    repository.GeofenceRepository
	branches repository.BranchRepository
	log      *logger.Logger
}

// NewZoneUseCase construye el caso de uso.
func NewZoneUseCase(zones repository.GeofenceRepository, branches repository.BranchRepository, log *logger.Logger) *ZoneUseCase {
	return &ZoneUseCase{zones: zones, branches: branches, log: log}
}

// List zonas administrables por el llamador, activas o no.
func (uc *ZoneUseCase) List(ctx context.Context, sc authz.Scope) ([]dto.ZoneResponse, error) {
	if err := requireZoneAdmin(sc); err != nil {
		return nil, err
	}
	branchID := ""
	if sc.Role == authz.RoleBranchManager {
		branchID = sc.BranchID
	}
	zones, err := uc.zones.ListByCompany(ctx, sc.CompanyID, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ZoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, toZoneResponse(z))
	}
	return out, nil
}

// Create registra una zona. Un gerente siempre crea zonas de su propia sucursal.
func (uc *ZoneUseCase) Create(ctx context.Context, sc authz.Scope, in dto.ZoneRequest) (*dto.ZoneResponse, error) {
	if err := requireZoneAdmin(sc); err != nil {
		return nil, err
	}
	branchID, err := uc.zoneBranch(ctx, sc, in.BranchID)
	if err != nil {
		return nil, err
	}
	p, err := zonePoint(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	z := &entity.GeofenceZone{
		ID:           uuid.New().String(),
		CompanyID:    sc.CompanyID,
		BranchID:     branchID,
		Name:         in.Name,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		RadiusMeters: in.RadiusMeters,
		IsActive:     in.IsActive == nil || *in.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.zones.Create(ctx, z); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", z.CompanyID).Str("zone_id", z.ID).Msg("zona de geocerca creada")
	r := toZoneResponse(z)
	return &r, nil
}

// Update reemplaza los datos de la zona.
func (uc *ZoneUseCase) Update(ctx context.Context, sc authz.Scope, id string, in dto.ZoneRequest) (*dto.ZoneResponse, error) {
	z, err := uc.load(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	branchID, err := uc.zoneBranch(ctx, sc, in.BranchID)
	if err != nil {
		return nil, err
	}
	p, err := zonePoint(in)
	if err != nil {
		return nil, err
	}
	z.BranchID = branchID
	z.Name = in.Name
	z.Latitude = p.Latitude
	z.Longitude = p.Longitude
	z.RadiusMeters = in.RadiusMeters
	if in.IsActive != nil {
		z.IsActive = *in.IsActive
	}
	z.UpdatedAt = time.Now()
	if err := uc.zones.Update(ctx, z); err != nil {
		return nil, err
	}
	r := toZoneResponse(z)
	return &r, nil
}

// Delete elimina la zona. Los registros de asistencia conservan su clasificación.
func (uc *ZoneUseCase) Delete(ctx context.Context, sc authz.Scope, id string) error {
	z, err := uc.load(ctx, sc, id)
	if err != nil {
		return err
	}
	if err := uc.zones.Delete(ctx, z.ID); err != nil {
		return err
	}
	uc.log.Info().Str("company_id", z.CompanyID).Str("zone_id", z.ID).Msg("zona de geocerca eliminada")
	return nil
}

// load zona de la empresa del llamador; para un gerente, solo de su sucursal.
func (uc *ZoneUseCase) load(ctx context.Context, sc authz.Scope, id string) (*entity.GeofenceZone, error) {
	if err := requireZoneAdmin(sc); err != nil {
		return nil, err
	}
	z, err := uc.zones.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if z == nil || z.CompanyID != sc.CompanyID {
		return nil, domain.ErrNotFound
	}
	if sc.Role == authz.RoleBranchManager && (z.BranchID == nil || *z.BranchID != sc.BranchID) {
		return nil, domain.ErrNotFound
	}
	return z, nil
}

// zoneBranch sucursal destino de la zona. nil = toda la empresa (solo company_admin).
func (uc *ZoneUseCase) zoneBranch(ctx context.Context, sc authz.Scope, requested *string) (*string, error) {
	if sc.Role == authz.RoleBranchManager {
		if requested != nil && *requested != sc.BranchID {
			return nil, domain.ErrForbidden
		}
		own := sc.BranchID
		return &own, nil
	}
	if requested == nil || *requested == "" {
		return nil, nil
	}
	b, err := uc.branches.GetByID(ctx, *requested)
	if err != nil {
		return nil, err
	}
	if b == nil || b.CompanyID != sc.CompanyID {
		return nil, domain.NewValidationError("branch_id")
	}
	id := b.ID
	return &id, nil
}

func requireZoneAdmin(sc authz.Scope) error {
	switch {
	case sc.CompanyID == "":
		return domain.ErrForbidden
	case sc.Role == authz.RoleCompanyAdmin:
		return nil
	case sc.Role == authz.RoleBranchManager && sc.BranchID != "":
		return nil
	}
	return domain.ErrForbidden
}

func zonePoint(in dto.ZoneRequest) (geofence.Point, error) {
	var fields []string
	if in.Name == "" {
		fields = append(fields, "name")
	}
	if in.Latitude == nil {
		fields = append(fields, "latitude")
	}
	if in.Longitude == nil {
		fields = append(fields, "longitude")
	}
	if in.RadiusMeters <= 0 {
		fields = append(fields, "radius_meters")
	}
	if len(fields) > 0 {
		return geofence.Point{}, domain.NewValidationError(fields...)
	}
	p := geofence.Point{Latitude: *in.Latitude, Longitude: *in.Longitude}
	if !p.Valid() {
		return geofence.Point{}, domain.NewValidationError("latitude", "longitude")
	}
	return p, nil
}

func toZoneResponse(z *entity.GeofenceZone) dto.ZoneResponse {
	return dto.ZoneResponse{
		ID:           z.ID,
		CompanyID:    z.CompanyID,
		BranchID:     z.BranchID,
		Name:         z.Name,
		Latitude:     z.Latitude,
		Longitude:    z.Longitude,
		RadiusMeters: z.RadiusMeters,
		IsActive:     z.IsActive,
		CreatedAt:    z.CreatedAt,
		UpdatedAt:    z.UpdatedAt,
	}
}
