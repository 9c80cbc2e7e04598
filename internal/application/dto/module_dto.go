package dto

import "time"

// ModuleResponse permisos efectivos del llamador sobre un módulo. Misma forma para todos los roles.
type ModuleResponse struct {
	ModuleName string `json:"module_name"`
	IsEnabled  bool   `json:"is_enabled"`
	CanView    bool   `json:"can_view"`
	CanModify  bool   `json:"can_modify"`
	CanUpdate  bool   `json:"can_update"`
}

// CompanyModuleItem activación de un módulo a nivel empresa.
type CompanyModuleItem struct {
	ModuleName string `json:"module_name" validate:"required,max=50"`
	IsEnabled  bool   `json:"is_enabled"`
}

// SetCompanyModulesRequest alta/baja de módulos de una empresa (operador master).
type SetCompanyModulesRequest struct {
	Modules []CompanyModuleItem `json:"modules" validate:"required,min=1,dive"`
}

// EmployeeModuleItem acceso de un empleado a un módulo.
type EmployeeModuleItem struct {
	ModuleName  string     `json:"module_name" validate:"required,max=50"`
	AccessLevel string     `json:"access_level" validate:"required,oneof=view modify"`
	IsEnabled   bool       `json:"is_enabled"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ReplaceEmployeeModulesRequest reemplazo atómico del conjunto de permisos.
type ReplaceEmployeeModulesRequest struct {
	Modules []EmployeeModuleItem `json:"modules" validate:"omitempty,dive"`
}

// ManagerModuleItem permisos de un gerente de sucursal sobre un módulo.
type ManagerModuleItem struct {
	ModuleName string     `json:"module_name" validate:"required,max=50"`
	IsEnabled  bool       `json:"is_enabled"`
	CanView    bool       `json:"can_view"`
	CanModify  bool       `json:"can_modify"`
	CanUpdate  bool       `json:"can_update"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// ReplaceManagerModulesRequest reemplazo atómico del conjunto de permisos del gerente.
type ReplaceManagerModulesRequest struct {
	Modules []ManagerModuleItem `json:"modules" validate:"omitempty,dive"`
}
