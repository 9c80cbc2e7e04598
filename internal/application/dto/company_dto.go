package dto

import "time"

// CreateCompanyRequest alta de un tenant por el operador master. Crea licencia y módulos
// en la misma transacción; Admin es opcional.
type CreateCompanyRequest struct {
	Code          string              `json:"code" validate:"required,min=2,max=50"`
	Name          string              `json:"name" validate:"required,min=1,max=200"`
	MaxEmployees  int                 `json:"max_employees" validate:"min=0"`
	MaxBranches   int                 `json:"max_branches" validate:"min=0"`
	DurationValue int                 `json:"duration_value" validate:"required"`
	DurationUnit  string              `json:"duration_unit" validate:"required"`
	Modules       []string            `json:"modules" validate:"omitempty,dive,required,max=50"`
	Admin         *CreateAdminRequest `json:"admin,omitempty"`
}

// CreateAdminRequest primer company_admin del tenant.
type CreateAdminRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SetCompanyStatusRequest activa o desactiva una empresa.
type SetCompanyStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID           string           `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	IsActive     bool             `json:"is_active"`
	MaxEmployees int              `json:"max_employees"`
	MaxBranches  int              `json:"max_branches"`
	License      *LicenseResponse `json:"license,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RenewLicenseRequest renovación de licencia.
type RenewLicenseRequest struct {
	DurationValue int    `json:"duration_value"`
	DurationUnit  string `json:"duration_unit"`
}

// LicenseResponse estado de la licencia con días restantes calculados.
type LicenseResponse struct {
	CompanyID     string    `json:"company_id"`
	StartDate     time.Time `json:"start_date"`
	DurationValue int       `json:"duration_value"`
	DurationUnit  string    `json:"duration_unit"`
	EndDate       time.Time `json:"end_date"`
	IsActive      bool      `json:"is_active"`
	IsValid       bool      `json:"is_valid"`
	RemainingDays int       `json:"remaining_days"`
}
