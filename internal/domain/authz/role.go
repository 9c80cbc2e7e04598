package authz

import "github.com/jhoicas/Workforce-api/internal/domain/entity"

// Role variante cerrada de los roles del sistema. "manager" es alias de BranchManager.
type Role int

const (
	RoleUnknown Role = iota
	RoleMaster
	RoleAdmin
	RoleCompanyAdmin
	RoleBranchManager
	RoleEmployee
)

// ParseRole convierte el string del token/DB en Role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case entity.RoleMaster:
		return RoleMaster, true
	case entity.RoleAdmin:
		return RoleAdmin, true
	case entity.RoleCompanyAdmin:
		return RoleCompanyAdmin, true
	case entity.RoleBranchManager, entity.RoleManager:
		return RoleBranchManager, true
	case entity.RoleEmployee:
		return RoleEmployee, true
	default:
		return RoleUnknown, false
	}
}

func (r Role) String() string {
	switch r {
	case RoleMaster:
		return entity.RoleMaster
	case RoleAdmin:
		return entity.RoleAdmin
	case RoleCompanyAdmin:
		return entity.RoleCompanyAdmin
	case RoleBranchManager:
		return entity.RoleBranchManager
	case RoleEmployee:
		return entity.RoleEmployee
	default:
		return "unknown"
	}
}

// IsPlatform superusuario de plataforma: fuera del control de módulos por tenant.
func (r Role) IsPlatform() bool { return r == RoleMaster || r == RoleAdmin }

// IsBranchScoped roles atados a una sucursal.
func (r Role) IsBranchScoped() bool { return r == RoleBranchManager || r == RoleEmployee }

// Action operación solicitada sobre un módulo.
type Action string

const (
	ActionView   Action = "view"
	ActionModify Action = "modify"
	ActionUpdate Action = "update"
)

// ParseAction valida la acción.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionView, ActionModify, ActionUpdate:
		return Action(s), true
	}
	return "", false
}
