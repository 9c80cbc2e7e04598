package entity

import "time"

// GeofenceZone zona circular. BranchID nil = zona de toda la empresa.
type GeofenceZone struct {
	ID           string
	CompanyID    string
	BranchID     *string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
