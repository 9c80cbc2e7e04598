package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

var _ repository.AttendanceRepository = (*AttendanceRepo)(nil)

// openPerDayIndex índice único parcial que impide dos registros abiertos el mismo día.
const openPerDayIndex = "attendance_logs_one_open_per_day"

// AttendanceRepo registros de asistencia sobre PostgreSQL.
type AttendanceRepo struct {
	store
}

// NewAttendanceRepository construye el repositorio de asistencia.
func NewAttendanceRepository(db Querier, timeout time.Duration) *AttendanceRepo {
	return &AttendanceRepo{store: newStore(db, timeout)}
}

const attendanceColumns = `id::text, user_id::text, company_id::text, branch_id::text, attendance_date,
	check_in, check_in_latitude, check_in_longitude, check_in_geofence, check_in_zone_id::text, check_in_distance_meters,
	check_out, check_out_latitude, check_out_longitude, check_out_geofence, check_out_zone_id::text,
	worked_minutes, worked_hours, created_at, updated_at`

// CreateOpen inserta el check-in. Dos peticiones simultáneas del mismo usuario chocan
// en el índice parcial y la segunda recibe domain.ErrAlreadyCheckedIn.
func (r *AttendanceRepo) CreateOpen(ctx context.Context, l *entity.AttendanceLog) error {
	query := `
		INSERT INTO attendance_logs (id, user_id, company_id, branch_id, attendance_date,
			check_in, check_in_latitude, check_in_longitude, check_in_geofence, check_in_zone_id, check_in_distance_meters,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	return r.write(ctx, "insert attendance", func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			l.ID, l.UserID, l.CompanyID, nullable(l.BranchID), l.AttendanceDate,
			l.CheckIn, l.CheckInLatitude, l.CheckInLongitude, l.CheckInGeofence, nullable(l.CheckInZoneID), l.CheckInDistanceMeters,
			l.CreatedAt, l.UpdatedAt,
		)
		if isUniqueViolation(err) && violatedConstraint(err) == openPerDayIndex {
			return domain.ErrAlreadyCheckedIn
		}
		return err
	})
}

func (r *AttendanceRepo) FindOpen(ctx context.Context, userID string, day time.Time) (*entity.AttendanceLog, error) {
	query := `
		SELECT ` + attendanceColumns + ` FROM attendance_logs
		WHERE user_id = $1 AND attendance_date = $2 AND check_out IS NULL`
	return r.one(ctx, "find open attendance", query, userID, day)
}

// Close registra el check-out solo si el registro sigue abierto. La condición
// check_out IS NULL hace que de dos cierres simultáneos solo uno gane.
func (r *AttendanceRepo) Close(ctx context.Context, l *entity.AttendanceLog) error {
	query := `
		UPDATE attendance_logs
		SET check_out = $2, check_out_latitude = $3, check_out_longitude = $4, check_out_geofence = $5,
			check_out_zone_id = $6, worked_minutes = $7, worked_hours = $8, updated_at = $9
		WHERE id = $1 AND check_out IS NULL`
	return r.write(ctx, "close attendance", func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, query,
			l.ID, l.CheckOut, l.CheckOutLatitude, l.CheckOutLongitude, l.CheckOutGeofence,
			nullable(l.CheckOutZoneID), l.WorkedMinutes, l.WorkedHours, l.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNoActiveCheckIn
		}
		return nil
	})
}

func (r *AttendanceRepo) LatestByUser(ctx context.Context, userID string) (*entity.AttendanceLog, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendance_logs WHERE user_id = $1 ORDER BY check_in DESC LIMIT 1`
	return r.one(ctx, "latest attendance", query, userID)
}

// ListByUser historial entre dos fechas calendario (inclusive), más reciente primero.
func (r *AttendanceRepo) ListByUser(ctx context.Context, userID string, from, to time.Time, limit, offset int) ([]*entity.AttendanceLog, error) {
	query := `
		SELECT ` + attendanceColumns + ` FROM attendance_logs
		WHERE user_id = $1 AND attendance_date BETWEEN $2 AND $3
		ORDER BY check_in DESC
		LIMIT NULLIF($4::int, 0) OFFSET $5`
	var list []*entity.AttendanceLog
	err := r.read(ctx, "list attendance", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, userID, from, to, limit, offset)
		if err != nil {
			return err
		}
		list, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.AttendanceLog, error) {
			return scanAttendance(row)
		})
		return err
	})
	return list, err
}

func (r *AttendanceRepo) one(ctx context.Context, op, query string, args ...any) (*entity.AttendanceLog, error) {
	var l *entity.AttendanceLog
	err := r.read(ctx, op, func(ctx context.Context) error {
		found, err := scanAttendance(r.db.QueryRow(ctx, query, args...))
		if notFound(err) {
			l = nil
			return nil
		}
		l = found
		return err
	})
	return l, err
}

func scanAttendance(row pgx.Row) (*entity.AttendanceLog, error) {
	var l entity.AttendanceLog
	err := row.Scan(
		&l.ID, &l.UserID, &l.CompanyID, &l.BranchID, &l.AttendanceDate,
		&l.CheckIn, &l.CheckInLatitude, &l.CheckInLongitude, &l.CheckInGeofence, &l.CheckInZoneID, &l.CheckInDistanceMeters,
		&l.CheckOut, &l.CheckOutLatitude, &l.CheckOutLongitude, &l.CheckOutGeofence, &l.CheckOutZoneID,
		&l.WorkedMinutes, &l.WorkedHours, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
