package dto

import "time"

// CreateEmployeeRequest alta de un usuario del tenant (empleado, gerente o admin).
// Al menos uno de Email, Phone o EmployeeCode es obligatorio.
type CreateEmployeeRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=200"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	EmployeeCode   *string `json:"employee_code" validate:"omitempty,max=50"`
	Password       string  `json:"password" validate:"omitempty,min=8"`
	Role           string  `json:"role" validate:"required,oneof=employee branch_manager manager company_admin"`
	BranchID       *string `json:"branch_id" validate:"omitempty,uuid"`
	AttendanceMode string  `json:"attendance_mode" validate:"omitempty,oneof=geofencing location_tracking"`
}

// EmployeeResponse salida de un usuario (sin hash).
type EmployeeResponse struct {
	ID             string    `json:"id"`
	CompanyID      *string   `json:"company_id,omitempty"`
	BranchID       *string   `json:"branch_id,omitempty"`
	Name           string    `json:"name"`
	Email          *string   `json:"email,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	EmployeeCode   *string   `json:"employee_code,omitempty"`
	Role           string    `json:"role"`
	AttendanceMode string    `json:"attendance_mode"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EmployeeListResponse lista paginada.
type EmployeeListResponse struct {
	Items []EmployeeResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
