package entity

import "time"

// Roles tal como viajan en la base de datos y en el token.
const (
	RoleEmployee      = "employee"
	RoleBranchManager = "branch_manager"
	RoleManager       = "manager" // alias heredado de branch_manager
	RoleCompanyAdmin  = "company_admin"
	RoleAdmin         = "admin"
	RoleMaster        = "master"
)

// Modos de asistencia.
const (
	AttendanceGeofencing       = "geofencing"
	AttendanceLocationTracking = "location_tracking"
)

// User usuario del sistema. CompanyID es nil para operadores de plataforma (master/admin).
// Email, Phone y EmployeeCode se guardan normalizados (ver pkg/identifier); al menos uno existe.
type User struct {
	ID             string
	CompanyID      *string
	BranchID       *string
	Name           string
	Email          *string
	Phone          *string
	EmployeeCode   *string
	PasswordHash   string // bcrypt
	Role           string
	AttendanceMode string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Company devuelve el ID de empresa o "".
func (u *User) Company() string {
	if u.CompanyID == nil {
		return ""
	}
	return *u.CompanyID
}

// Branch devuelve el ID de sucursal o "".
func (u *User) Branch() string {
	if u.BranchID == nil {
		return ""
	}
	return *u.BranchID
}

// PrimaryIdentifier primera llave disponible (email, teléfono, código).
func (u *User) PrimaryIdentifier() string {
	for _, p := range []*string{u.Email, u.Phone, u.EmployeeCode} {
		if p != nil && *p != "" {
			return *p
		}
	}
	return ""
}
