package entity

import "time"

// Unidades de duración de licencia.
const (
	DurationMonths = "months"
	DurationYears  = "years"
)

// License suscripción de una empresa (una por empresa).
// EndDate se calcula en la aplicación a partir de StartDate y la duración.
type License struct {
	CompanyID     string
	StartDate     time.Time
	DurationValue int
	DurationUnit  string
	EndDate       time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
