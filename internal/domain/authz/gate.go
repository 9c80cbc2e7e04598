package authz

import "github.com/jhoicas/Workforce-api/internal/domain/entity"

// Motivos de la decisión. Solo se registran en logs; el cliente siempre ve FORBIDDEN.
const (
	ReasonPlatformRole      = "platform_role"
	ReasonUnknownRole       = "unknown_role"
	ReasonCrossCompany      = "cross_company"
	ReasonModuleDisabled    = "company_module_disabled"
	ReasonCrossBranch       = "cross_branch"
	ReasonCompanyAdmin      = "company_admin"
	ReasonNoManagerGrant    = "no_manager_grant"
	ReasonManagerGrantOff   = "manager_grant_disabled"
	ReasonManagerActionDeny = "manager_action_not_granted"
	ReasonManagerGrant      = "manager_grant"
	ReasonNoEmployeeGrant   = "no_employee_grant"
	ReasonEmployeeGrantOff  = "employee_grant_disabled"
	ReasonEmployeeLevelLow  = "employee_access_level_insufficient"
	ReasonEmployeeGrant     = "employee_grant"
	ReasonUnknownAction     = "unknown_action"
)

// Input todo lo que la compuerta necesita; la carga desde el almacén la hace el llamador.
// ResourceCompanyID y ResourceBranchID vacíos = el recurso no está atado a ese nivel.
type Input struct {
	Role              Role
	CallerCompanyID   string
	CallerBranchID    string
	ResourceCompanyID string
	ResourceBranchID  string
	Action            Action
	CompanyModule     *entity.CompanyModule
	ManagerGrant      *entity.BranchManagerModule
	EmployeeGrant     *entity.EmployeeModuleAccess
}

// Decision resultado de Authorize.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Allowed: false, Reason: reason} }

// Authorize aplica la cascada tenant → sucursal → módulo → permiso. Gana la primera regla
// que aplique:
//
//  1. master/admin: permitido siempre.
//  2. módulo deshabilitado en la empresa: denegado (techo duro).
//  3. company_admin: permitido.
//  4. gerente: fila propia habilitada con el flag de la acción.
//  5. empleado: fila propia habilitada con nivel suficiente (view ⊆ modify).
//
// Gerentes y empleados además solo operan sobre recursos de su propia sucursal.
func Authorize(in Input) Decision {
	if in.Role.IsPlatform() {
		return allow(ReasonPlatformRole)
	}
	if in.Role == RoleUnknown {
		return deny(ReasonUnknownRole)
	}
	if in.ResourceCompanyID != "" && in.ResourceCompanyID != in.CallerCompanyID {
		return deny(ReasonCrossCompany)
	}
	if in.CompanyModule == nil || !in.CompanyModule.IsEnabled {
		return deny(ReasonModuleDisabled)
	}
	if in.Role.IsBranchScoped() && in.ResourceBranchID != "" && in.ResourceBranchID != in.CallerBranchID {
		return deny(ReasonCrossBranch)
	}
	if _, ok := ParseAction(string(in.Action)); !ok {
		return deny(ReasonUnknownAction)
	}

	switch in.Role {
	case RoleCompanyAdmin:
		return allow(ReasonCompanyAdmin)
	case RoleBranchManager:
		return managerDecision(in.ManagerGrant, in.Action)
	case RoleEmployee:
		return employeeDecision(in.EmployeeGrant, in.Action)
	}
	return deny(ReasonUnknownRole)
}

func managerDecision(g *entity.BranchManagerModule, action Action) Decision {
	if g == nil {
		return deny(ReasonNoManagerGrant)
	}
	if !g.IsEnabled {
		return deny(ReasonManagerGrantOff)
	}
	var granted bool
	switch action {
	case ActionView:
		granted = g.CanView
	case ActionModify:
		granted = g.CanModify
	case ActionUpdate:
		granted = g.CanUpdate
	}
	if !granted {
		return deny(ReasonManagerActionDeny)
	}
	return allow(ReasonManagerGrant)
}

func employeeDecision(g *entity.EmployeeModuleAccess, action Action) Decision {
	if g == nil {
		return deny(ReasonNoEmployeeGrant)
	}
	if !g.IsEnabled {
		return deny(ReasonEmployeeGrantOff)
	}
	if !levelCovers(g.AccessLevel, action) {
		return deny(ReasonEmployeeLevelLow)
	}
	return allow(ReasonEmployeeGrant)
}

// levelCovers: view cubre solo lectura; modify cubre lectura, modificación y actualización.
func levelCovers(level string, action Action) bool {
	switch level {
	case entity.AccessModify:
		return true
	case entity.AccessView:
		return action == ActionView
	}
	return false
}

// ValidAccessLevel informa si el nivel de acceso de empleado es conocido.
func ValidAccessLevel(level string) bool {
	return level == entity.AccessView || level == entity.AccessModify
}
