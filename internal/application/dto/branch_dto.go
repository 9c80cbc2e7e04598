package dto

import "time"

// CreateBranchRequest alta de sucursal.
type CreateBranchRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=200"`
	Address      string `json:"address" validate:"omitempty,max=300"`
	MaxEmployees int    `json:"max_employees" validate:"min=0"`
}

// UpdateBranchRequest campos opcionales.
type UpdateBranchRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address      *string `json:"address" validate:"omitempty,max=300"`
	IsActive     *bool   `json:"is_active"`
	MaxEmployees *int    `json:"max_employees" validate:"omitempty,min=0"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	IsActive     bool      `json:"is_active"`
	MaxEmployees int       `json:"max_employees"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
