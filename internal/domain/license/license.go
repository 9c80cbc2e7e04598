package license

import (
	"math"
	"time"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

const day = 24 * time.Hour

// Status validez calculada de una licencia.
type Status struct {
	Valid         bool
	RemainingDays int
}

// Evaluate calcula los días restantes (techo de días completos hasta el fin) y la validez.
// Licencia inexistente = inválida con 0 días.
func Evaluate(l *entity.License, now time.Time) Status {
	if l == nil {
		return Status{}
	}
	remaining := RemainingDays(l.EndDate, now)
	return Status{
		Valid:         l.IsActive && remaining > 0,
		RemainingDays: remaining,
	}
}

// RemainingDays ceil((end - now) / 1 día). Negativo si ya venció.
func RemainingDays(end, now time.Time) int {
	return int(math.Ceil(float64(end.Sub(now)) / float64(day)))
}

// ValidateDuration verifica valor > 0 y unidad conocida.
func ValidateDuration(value int, unit string) error {
	var fields []string
	if value <= 0 {
		fields = append(fields, "duration_value")
	}
	if unit != entity.DurationMonths && unit != entity.DurationYears {
		fields = append(fields, "duration_unit")
	}
	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// EndDate fecha de fin a partir del inicio y la duración.
func EndDate(start time.Time, value int, unit string) (time.Time, error) {
	if err := ValidateDuration(value, unit); err != nil {
		return time.Time{}, err
	}
	if unit == entity.DurationYears {
		return start.AddDate(value, 0, 0), nil
	}
	return start.AddDate(0, value, 0), nil
}

// Renew extiende la licencia desde su fecha de fin actual para no perder tiempo pagado.
// Si ya venció, la extensión arranca en now: el tiempo vencido no se cobra de nuevo.
func Renew(l *entity.License, value int, unit string, now time.Time) error {
	base := l.EndDate
	if base.Before(now) {
		base = now
	}
	end, err := EndDate(base, value, unit)
	if err != nil {
		return err
	}
	l.EndDate = end
	l.DurationValue = value
	l.DurationUnit = unit
	l.IsActive = true
	l.UpdatedAt = now
	return nil
}
