package dto

import "time"

// ZoneRequest alta/edición de zona. BranchID nil = zona de toda la empresa.
type ZoneRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	BranchID     *string  `json:"branch_id" validate:"omitempty,uuid"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	RadiusMeters float64  `json:"radius_meters" validate:"required,gt=0,lte=100000"`
	IsActive     *bool    `json:"is_active"`
}

// ZoneResponse salida de una zona.
type ZoneResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	BranchID     *string   `json:"branch_id,omitempty"`
	Name         string    `json:"name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters float64   `json:"radius_meters"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
