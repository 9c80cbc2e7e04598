package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// AttendanceRepository persistencia de registros de asistencia.
type AttendanceRepository interface {
	// CreateOpen inserta un registro abierto. Si ya existe uno abierto para el mismo
	// usuario y día devuelve domain.ErrAlreadyCheckedIn (garantizado por índice único).
	CreateOpen(ctx context.Context, log *entity.AttendanceLog) error
	// FindOpen registro abierto del usuario para el día dado (fecha calendario).
	FindOpen(ctx context.Context, userID string, day time.Time) (*entity.AttendanceLog, error)
	// Close cierra el registro solo si sigue abierto; si no, domain.ErrNoActiveCheckIn.
	Close(ctx context.Context, log *entity.AttendanceLog) error
	LatestByUser(ctx context.Context, userID string) (*entity.AttendanceLog, error)
	ListByUser(ctx context.Context, userID string, from, to time.Time, limit, offset int) ([]*entity.AttendanceLog, error)
}
