package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación de geocerca registrada con cada transición.
const (
	GeofenceInside    = "inside"
	GeofenceOutside   = "outside"
	GeofenceUnchecked = "unchecked"
)

// AttendanceLog registro de asistencia. Abierto mientras CheckOut es nil;
// a lo sumo uno abierto por usuario y día (índice único parcial).
type AttendanceLog struct {
	ID                    string
	UserID                string
	CompanyID             string
	BranchID              *string
	AttendanceDate        time.Time // fecha calendario del check-in en la zona de referencia
	CheckIn               time.Time
	CheckInLatitude       float64
	CheckInLongitude      float64
	CheckInGeofence       string
	CheckInZoneID         *string
	CheckInDistanceMeters *float64
	CheckOut              *time.Time
	CheckOutLatitude      *float64
	CheckOutLongitude     *float64
	CheckOutGeofence      *string
	CheckOutZoneID        *string
	WorkedMinutes         *int
	WorkedHours           *decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsOpen indica si el registro aún no tiene check-out.
func (l *AttendanceLog) IsOpen() bool { return l.CheckOut == nil }
