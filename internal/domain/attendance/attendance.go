// Package attendance reglas puras del registro de asistencia: día calendario y duración.
package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayOf fecha calendario de t en la zona de referencia, a medianoche UTC para
// compararla y guardarla como DATE sin arrastrar la zona.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Worked tiempo trabajado entre check-in y check-out.
type Worked struct {
	Minutes int
	Hours   decimal.Decimal
}

// Duration minutos completos y horas redondeadas a 2 decimales. Nunca negativa:
// un reloj que retrocede da 0.
func Duration(checkIn, checkOut time.Time) Worked {
	elapsed := checkOut.Sub(checkIn)
	if elapsed < 0 {
		elapsed = 0
	}
	seconds := decimal.NewFromInt(int64(elapsed / time.Second))
	return Worked{
		Minutes: int(elapsed / time.Minute),
		Hours:   seconds.Div(decimal.NewFromInt(3600)).Round(2),
	}
}
