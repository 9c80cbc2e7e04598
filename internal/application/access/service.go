// Package access aplica la compuerta de permisos cargando del almacén, en cada llamada,
// la activación del módulo en la empresa y la fila propia del gerente o empleado.
// No hay caché: un cambio de permisos rige desde la siguiente petición.
package access

import (
	"context"
	"errors"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// PermissionTxRunner ejecuta fn en una transacción con un ModuleRepository atado a ella.
type PermissionTxRunner interface {
	RunModules(ctx context.Context, fn func(modules repository.ModuleRepository) error) error
}

// Resource empresa y sucursal dueñas del recurso; vacío = el recurso no está atado a ese nivel.
type Resource struct {
	CompanyID string
	BranchID  string
}

// Service compuerta de permisos + administración de permisos por módulo.
type Service struct {
	modules  repository.ModuleRepository
	users    repository.UserRepository
	branches repository.BranchRepository
	tx       PermissionTxRunner
	metrics  ports.Metrics
	log      *logger.Logger
}

// NewService construye el servicio.
func NewService(
	modules repository.ModuleRepository,
	users repository.UserRepository,
	branches repository.BranchRepository,
	tx PermissionTxRunner,
	metrics ports.Metrics,
	log *logger.Logger,
) *Service {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Service{modules: modules, users: users, branches: branches, tx: tx, metrics: metrics, log: log}
}

// Authorize decide si el alcance puede ejecutar action sobre module para el recurso dado.
// Devuelve domain.ErrForbidden sin detalle; el motivo queda en el log.
func (s *Service) Authorize(ctx context.Context, sc authz.Scope, module string, action authz.Action, res Resource) error {
	in := sc.Input(action, res.CompanyID, res.BranchID)
	if !sc.Role.IsPlatform() && sc.CompanyID != "" {
		cm, err := s.modules.GetCompanyModule(ctx, sc.CompanyID, module)
		if err != nil {
			return err
		}
		in.CompanyModule = cm
		if cm != nil && cm.IsEnabled && sc.UserID != "" {
			switch sc.Role {
			case authz.RoleBranchManager:
				if in.ManagerGrant, err = s.modules.GetManagerModule(ctx, sc.UserID, module); err != nil {
					return err
				}
			case authz.RoleEmployee:
				if in.EmployeeGrant, err = s.modules.GetEmployeeModule(ctx, sc.UserID, module); err != nil {
					return err
				}
			}
		}
	}

	d := authz.Authorize(in)
	if !d.Allowed {
		s.metrics.AuthorizationDenied(module, d.Reason)
		s.log.Info().
			Str("module", module).
			Str("action", string(action)).
			Str("role", sc.Role.String()).
			Str("company_id", sc.CompanyID).
			Str("branch_id", sc.BranchID).
			Str("user_id", sc.UserID).
			Str("resource_branch_id", res.BranchID).
			Str("reason", d.Reason).
			Msg("acceso denegado")
		return domain.ErrForbidden
	}
	return nil
}

// IsModuleEnabledFor chequeo reutilizable para módulos colaboradores: ¿puede el llamador
// al menos ver el módulo? Solo devuelve error ante fallas de infraestructura.
func (s *Service) IsModuleEnabledFor(ctx context.Context, sc authz.Scope, module string) (bool, error) {
	err := s.Authorize(ctx, sc, module, authz.ActionView, Resource{})
	if errors.Is(err, domain.ErrForbidden) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EffectiveModules permisos efectivos del llamador sobre cada módulo de su empresa,
// con la misma forma para cualquier rol.
func (s *Service) EffectiveModules(ctx context.Context, sc authz.Scope) ([]dto.ModuleResponse, error) {
	out := []dto.ModuleResponse{}
	if sc.Role.IsPlatform() || sc.CompanyID == "" {
		return out, nil
	}
	companyModules, err := s.modules.ListCompanyModules(ctx, sc.CompanyID)
	if err != nil {
		return nil, err
	}

	managerGrants := map[string]*entity.BranchManagerModule{}
	employeeGrants := map[string]*entity.EmployeeModuleAccess{}
	if sc.UserID != "" {
		switch sc.Role {
		case authz.RoleBranchManager:
			rows, err := s.modules.ListManagerModules(ctx, sc.UserID)
			if err != nil {
				return nil, err
			}
			for _, r := range rows {
				managerGrants[r.ModuleName] = r
			}
		case authz.RoleEmployee:
			rows, err := s.modules.ListEmployeeModules(ctx, sc.UserID)
			if err != nil {
				return nil, err
			}
			for _, r := range rows {
				employeeGrants[r.ModuleName] = r
			}
		}
	}

	for _, cm := range companyModules {
		acc := authz.Effective(sc.Role, cm, managerGrants[cm.ModuleName], employeeGrants[cm.ModuleName])
		out = append(out, dto.ModuleResponse{
			ModuleName: cm.ModuleName,
			IsEnabled:  acc.IsEnabled,
			CanView:    acc.CanView,
			CanModify:  acc.CanModify,
			CanUpdate:  acc.CanUpdate,
		})
	}
	return out, nil
}
