package entity

import "time"

// Branch sucursal; pertenece a exactamente una Company.
type Branch struct {
	ID           string
	CompanyID    string
	Name         string
	Address      string
	IsActive     bool
	MaxEmployees int // 0 = sin límite
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
