package authz

import "github.com/jhoicas/Workforce-api/internal/domain/entity"

// ModuleAccess permisos efectivos de un llamador sobre un módulo, con la misma forma
// para cualquier rol.
type ModuleAccess struct {
	ModuleName string
	IsEnabled  bool
	CanView    bool
	CanModify  bool
	CanUpdate  bool
}

// Effective evalúa las tres acciones con Authorize para un módulo de la empresa.
func Effective(
	role Role,
	companyModule *entity.CompanyModule,
	managerGrant *entity.BranchManagerModule,
	employeeGrant *entity.EmployeeModuleAccess,
) ModuleAccess {
	base := Input{
		Role:          role,
		CompanyModule: companyModule,
		ManagerGrant:  managerGrant,
		EmployeeGrant: employeeGrant,
	}
	check := func(a Action) bool {
		in := base
		in.Action = a
		return Authorize(in).Allowed
	}
	out := ModuleAccess{
		CanView:   check(ActionView),
		CanModify: check(ActionModify),
		CanUpdate: check(ActionUpdate),
	}
	if companyModule != nil {
		out.ModuleName = companyModule.ModuleName
	}
	out.IsEnabled = out.CanView || out.CanModify || out.CanUpdate
	return out
}
