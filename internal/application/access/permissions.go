package access

import (
	"context"
	"time"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

// EmployeeModules permisos actuales de un empleado de la empresa del llamador.
func (s *Service) EmployeeModules(ctx context.Context, sc authz.Scope, employeeID string) ([]dto.EmployeeModuleItem, error) {
	if err := requireCompanyAdmin(sc); err != nil {
		return nil, err
	}
	if _, err := s.loadEmployee(ctx, sc, employeeID); err != nil {
		return nil, err
	}
	rows, err := s.modules.ListEmployeeModules(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return employeeItems(rows), nil
}

// ReplaceEmployeeModules reemplaza de forma atómica el conjunto de permisos del empleado.
// Ningún permiso habilitado puede apuntar a un módulo apagado en la empresa.
func (s *Service) ReplaceEmployeeModules(ctx context.Context, sc authz.Scope, employeeID string, items []dto.EmployeeModuleItem) ([]dto.EmployeeModuleItem, error) {
	if err := requireCompanyAdmin(sc); err != nil {
		return nil, err
	}
	if _, err := s.loadEmployee(ctx, sc, employeeID); err != nil {
		return nil, err
	}
	now := time.Now()
	rows := make([]*entity.EmployeeModuleAccess, 0, len(items))
	wanted := make([]grantRequest, 0, len(items))
	for _, it := range items {
		if !authz.ValidAccessLevel(it.AccessLevel) {
			return nil, domain.NewValidationError("modules." + it.ModuleName + ".access_level")
		}
		rows = append(rows, &entity.EmployeeModuleAccess{
			EmployeeID:  employeeID,
			ModuleName:  it.ModuleName,
			AccessLevel: it.AccessLevel,
			IsEnabled:   it.IsEnabled,
			UpdatedAt:   now,
		})
		wanted = append(wanted, grantRequest{module: it.ModuleName, enabled: it.IsEnabled})
	}

	err := s.tx.RunModules(ctx, func(modules repository.ModuleRepository) error {
		if err := checkCeiling(ctx, modules, sc.CompanyID, wanted); err != nil {
			return err
		}
		return modules.ReplaceEmployeeModules(ctx, employeeID, rows)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("company_id", sc.CompanyID).
		Str("employee_id", employeeID).
		Int("modules", len(rows)).
		Msg("permisos de empleado reemplazados")
	return employeeItems(rows), nil
}

// ManagerModules permisos actuales de un gerente de la sucursal indicada.
func (s *Service) ManagerModules(ctx context.Context, sc authz.Scope, branchID, managerID string) ([]dto.ManagerModuleItem, error) {
	if err := requireCompanyAdmin(sc); err != nil {
		return nil, err
	}
	if _, err := s.loadManager(ctx, sc, branchID, managerID); err != nil {
		return nil, err
	}
	rows, err := s.modules.ListManagerModules(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return managerItems(rows), nil
}

// ReplaceManagerModules reemplazo atómico de los permisos de un gerente de sucursal.
func (s *Service) ReplaceManagerModules(ctx context.Context, sc authz.Scope, branchID, managerID string, items []dto.ManagerModuleItem) ([]dto.ManagerModuleItem, error) {
	if err := requireCompanyAdmin(sc); err != nil {
		return nil, err
	}
	if _, err := s.loadManager(ctx, sc, branchID, managerID); err != nil {
		return nil, err
	}
	now := time.Now()
	rows := make([]*entity.BranchManagerModule, 0, len(items))
	wanted := make([]grantRequest, 0, len(items))
	for _, it := range items {
		rows = append(rows, &entity.BranchManagerModule{
			ManagerID:  managerID,
			ModuleName: it.ModuleName,
			IsEnabled:  it.IsEnabled,
			CanView:    it.CanView,
			CanModify:  it.CanModify,
			CanUpdate:  it.CanUpdate,
			UpdatedAt:  now,
		})
		wanted = append(wanted, grantRequest{module: it.ModuleName, enabled: it.IsEnabled})
	}

	err := s.tx.RunModules(ctx, func(modules repository.ModuleRepository) error {
		if err := checkCeiling(ctx, modules, sc.CompanyID, wanted); err != nil {
			return err
		}
		return modules.ReplaceManagerModules(ctx, managerID, rows)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("company_id", sc.CompanyID).
		Str("branch_id", branchID).
		Str("manager_id", managerID).
		Int("modules", len(rows)).
		Msg("permisos de gerente reemplazados")
	return managerItems(rows), nil
}

type grantRequest struct {
	module  string
	enabled bool
}

// checkCeiling: cada fila debe apuntar a un módulo registrado en la empresa, sin repetir,
// y las habilitadas a un módulo habilitado. Los módulos que violan la regla van en Fields.
func checkCeiling(ctx context.Context, modules repository.ModuleRepository, companyID string, wanted []grantRequest) error {
	companyModules, err := modules.ListCompanyModules(ctx, companyID)
	if err != nil {
		return err
	}
	enabled := make(map[string]bool, len(companyModules))
	for _, cm := range companyModules {
		enabled[cm.ModuleName] = cm.IsEnabled
	}

	var bad []string
	seen := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		on, known := enabled[w.module]
		switch {
		case w.module == "" || seen[w.module]:
			bad = append(bad, "modules."+w.module)
		case !known, w.enabled && !on:
			bad = append(bad, "modules."+w.module)
		}
		seen[w.module] = true
	}
	if len(bad) > 0 {
		return domain.NewValidationError(bad...)
	}
	return nil
}

func (s *Service) loadEmployee(ctx context.Context, sc authz.Scope, employeeID string) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Company() != sc.CompanyID {
		return nil, domain.ErrNotFound
	}
	if role, _ := authz.ParseRole(u.Role); role != authz.RoleEmployee {
		return nil, domain.NewValidationError("employee_id")
	}
	return u, nil
}

func (s *Service) loadManager(ctx context.Context, sc authz.Scope, branchID, managerID string) (*entity.User, error) {
	b, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if b == nil || b.CompanyID != sc.CompanyID {
		return nil, domain.ErrNotFound
	}
	u, err := s.users.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Company() != sc.CompanyID || u.Branch() != branchID {
		return nil, domain.ErrNotFound
	}
	if role, _ := authz.ParseRole(u.Role); role != authz.RoleBranchManager {
		return nil, domain.NewValidationError("manager_id")
	}
	return u, nil
}

func requireCompanyAdmin(sc authz.Scope) error {
	if sc.Role != authz.RoleCompanyAdmin || sc.CompanyID == "" {
		return domain.ErrForbidden
	}
	return nil
}

func employeeItems(rows []*entity.EmployeeModuleAccess) []dto.EmployeeModuleItem {
	out := make([]dto.EmployeeModuleItem, 0, len(rows))
	for _, r := range rows {
		updated := r.UpdatedAt
		out = append(out, dto.EmployeeModuleItem{
			ModuleName:  r.ModuleName,
			AccessLevel: r.AccessLevel,
			IsEnabled:   r.IsEnabled,
			UpdatedAt:   &updated,
		})
	}
	return out
}

func managerItems(rows []*entity.BranchManagerModule) []dto.ManagerModuleItem {
	out := make([]dto.ManagerModuleItem, 0, len(rows))
	for _, r := range rows {
		updated := r.UpdatedAt
		out = append(out, dto.ManagerModuleItem{
			ModuleName: r.ModuleName,
			IsEnabled:  r.IsEnabled,
			CanView:    r.CanView,
			CanModify:  r.CanModify,
			CanUpdate:  r.CanUpdate,
			UpdatedAt:  &updated,
		})
	}
	return out
}
