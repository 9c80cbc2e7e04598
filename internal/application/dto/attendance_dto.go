package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationRequest coordenada reportada por el dispositivo. Punteros para distinguir
// "ausente" de 0.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// GeofenceResult clasificación capturada en la transición.
type GeofenceResult struct {
	Status         string   `json:"status"`
	ZoneID         string   `json:"zone_id,omitempty"`
	ZoneName       string   `json:"zone_name,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// AttendanceLogResponse registro de asistencia.
type AttendanceLogResponse struct {
	ID                string           `json:"id"`
	UserID            string           `json:"user_id"`
	AttendanceDate    string           `json:"attendance_date"` // YYYY-MM-DD
	CheckIn           time.Time        `json:"check_in"`
	CheckInLatitude   float64          `json:"check_in_latitude"`
	CheckInLongitude  float64          `json:"check_in_longitude"`
	CheckInGeofence   string           `json:"check_in_geofence"`
	CheckOut          *time.Time       `json:"check_out,omitempty"`
	CheckOutLatitude  *float64         `json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64         `json:"check_out_longitude,omitempty"`
	CheckOutGeofence  *string          `json:"check_out_geofence,omitempty"`
	WorkedMinutes     *int             `json:"worked_minutes,omitempty"`
	WorkedHours       *decimal.Decimal `json:"worked_hours,omitempty"`
}

// CheckInResponse resultado del check-in.
type CheckInResponse struct {
	Log      AttendanceLogResponse `json:"log"`
	Geofence GeofenceResult        `json:"geofence"`
}

// CheckOutResponse resultado del check-out con la duración trabajada.
type CheckOutResponse struct {
	Log           AttendanceLogResponse `json:"log"`
	Geofence      GeofenceResult        `json:"geofence"`
	WorkedMinutes int                   `json:"worked_minutes"`
	WorkedHours   decimal.Decimal       `json:"worked_hours"`
}

// AttendanceStatusResponse estado actual del empleado.
type AttendanceStatusResponse struct {
	EmployeeID string                 `json:"employee_id"`
	CheckedIn  bool                   `json:"checked_in"`
	Current    *AttendanceLogResponse `json:"current,omitempty"`
	Last       *AttendanceLogResponse `json:"last,omitempty"`
}

// HistoryQuery filtro del historial. From/To en YYYY-MM-DD (zona de referencia).
type HistoryQuery struct {
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// AttendanceHistoryResponse historial paginado.
type AttendanceHistoryResponse struct {
	EmployeeID string                  `json:"employee_id"`
	From       string                  `json:"from"`
	To         string                  `json:"to"`
	Items      []AttendanceLogResponse `json:"items"`
	Page       PageResponse            `json:"page"`
}
