package entity

import "time"

// Company representa un tenant del sistema. Desactivarla bloquea todos los logins bajo ella.
type Company struct {
	ID           string
	Code         string // único, en minúsculas; se usa en el login
	Name         string
	IsActive     bool
	MaxEmployees int // 0 = sin límite
	MaxBranches  int // 0 = sin límite
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Módulos funcionales conocidos. El catálogo es abierto: cualquier nombre registrado
// en company_modules es un módulo válido para esa empresa.
const (
	ModuleAttendance = "attendance"
	ModulePayroll    = "payroll"
	ModuleInventory  = "inventory"
	ModuleLeave      = "leave"
	ModuleOnboarding = "onboarding"
	ModuleDocuments  = "documents"
	ModuleSupport    = "support"
)

// KnownModules catálogo por defecto que se ofrece al crear una empresa.
var KnownModules = []string{
	ModuleAttendance, ModulePayroll, ModuleInventory, ModuleLeave,
	ModuleOnboarding, ModuleDocuments, ModuleSupport,
}

// CompanyModule activación de un módulo a nivel empresa. Es el techo de permisos:
// un módulo deshabilitado aquí es inalcanzable para cualquiera en la empresa.
type CompanyModule struct {
	CompanyID  string
	ModuleName string
	IsEnabled  bool
	UpdatedAt  time.Time
}
