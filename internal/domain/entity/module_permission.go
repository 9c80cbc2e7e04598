package entity

import "time"

// Niveles de acceso de empleado; view ⊆ modify.
const (
	AccessView   = "view"
	AccessModify = "modify"
)

// BranchManagerModule permisos de un gerente de sucursal sobre un módulo.
// Nunca exceden la activación a nivel empresa.
type BranchManagerModule struct {
	ManagerID  string
	ModuleName string
	IsEnabled  bool
	CanView    bool
	CanModify  bool
	CanUpdate  bool
	UpdatedAt  time.Time
}

// EmployeeModuleAccess acceso de un empleado a un módulo.
type EmployeeModuleAccess struct {
	EmployeeID  string
	ModuleName  string
	AccessLevel string // view | modify
	IsEnabled   bool
	UpdatedAt   time.Time
}
