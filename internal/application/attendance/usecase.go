// Package attendance casos de uso de asistencia: check-in, check-out, estado, historial,
// reporte PDF y administración de zonas de geocerca.
package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/domain"
	rules "github.com/jhoicas/Workforce-api/internal/domain/attendance"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/geofence"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

const (
	dateLayout         = "2006-01-02"
	defaultHistoryDays = 30
	maxReportRows      = 1000
)

// IdentityResolver resuelve el ID interno del usuario del token ("" si no se puede).
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, sc authz.Scope) (string, error)
}

// Deps dependencias del caso de uso de asistencia.
type Deps struct {
	Logs      repository.AttendanceRepository
	Users     repository.UserRepository
	Companies repository.CompanyRepository
	Geofence  *GeofenceService
	Identity  IdentityResolver
	Renderer  ports.AttendanceReportRenderer
	Metrics   ports.Metrics
}

// UseCase máquina de estados de asistencia: como máximo un registro abierto por
// empleado y día calendario en la zona de referencia.
type UseCase struct {
	deps Deps
	loc  *time.Location
	log  *logger.Logger
	now  func() time.Time
}

// NewUseCase construye el caso de uso. loc es la zona que define el día calendario.
func NewUseCase(deps Deps, loc *time.Location, log *logger.Logger) *UseCase {
	if deps.Metrics == nil {
		deps.Metrics = ports.NopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{deps: deps, loc: loc, log: log, now: time.Now}
}

// CheckIn abre el registro del día para el dueño del token.
func (uc *UseCase) CheckIn(ctx context.Context, sc authz.Scope, in dto.LocationRequest) (*dto.CheckInResponse, error) {
	p, err := pointFrom(in)
	if err != nil {
		return nil, err
	}
	user, err := uc.owner(ctx, sc)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	day := rules.DayOf(now, uc.loc)

	open, err := uc.deps.Logs.FindOpen(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrAlreadyCheckedIn
	}
	// Tras la salida el día queda cerrado.
	last, err := uc.deps.Logs.LatestByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if last != nil && last.CheckOut != nil && last.AttendanceDate.Equal(day) {
		return nil, domain.ErrDayClosed
	}

	res := uc.deps.Geofence.Classify(ctx, user.Company(), user.Branch(), p)
	rec := &entity.AttendanceLog{
		ID:                    uuid.New().String(),
		UserID:                user.ID,
		CompanyID:             user.Company(),
		BranchID:              user.BranchID,
		AttendanceDate:        day,
		CheckIn:               now,
		CheckInLatitude:       p.Latitude,
		CheckInLongitude:      p.Longitude,
		CheckInGeofence:       res.Status,
		CheckInZoneID:         optional(res.ZoneID),
		CheckInDistanceMeters: res.DistanceMeters,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	// El índice único parcial resuelve la carrera entre dos check-in simultáneos.
	if err := uc.deps.Logs.CreateOpen(ctx, rec); err != nil {
		return nil, err
	}

	uc.deps.Metrics.AttendanceRecorded("check_in", res.Status)
	uc.log.Info().
		Str("company_id", rec.CompanyID).
		Str("user_id", rec.UserID).
		Str("date", day.Format(dateLayout)).
		Str("geofence", res.Status).
		Msg("check-in registrado")
	return &dto.CheckInResponse{Log: toLogResponse(rec), Geofence: toGeofenceResult(res)}, nil
}

// CheckOut cierra el registro abierto de hoy o, para turnos que cruzan la medianoche,
// el del día anterior.
func (uc *UseCase) CheckOut(ctx context.Context, sc authz.Scope, in dto.LocationRequest) (*dto.CheckOutResponse, error) {
	p, err := pointFrom(in)
	if err != nil {
		return nil, err
	}
	user, err := uc.owner(ctx, sc)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	open, err := uc.findOpen(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, domain.ErrNoActiveCheckIn
	}

	res := uc.deps.Geofence.Classify(ctx, user.Company(), user.Branch(), p)
	worked := rules.Duration(open.CheckIn, now)
	lat, lon := p.Latitude, p.Longitude
	open.CheckOut = &now
	open.CheckOutLatitude = &lat
	open.CheckOutLongitude = &lon
	open.CheckOutGeofence = &res.Status
	open.CheckOutZoneID = optional(res.ZoneID)
	open.WorkedMinutes = &worked.Minutes
	open.WorkedHours = &worked.Hours
	open.UpdatedAt = now
	if err := uc.deps.Logs.Close(ctx, open); err != nil {
		return nil, err
	}

	uc.deps.Metrics.AttendanceRecorded("check_out", res.Status)
	uc.log.Info().
		Str("company_id", open.CompanyID).
		Str("user_id", open.UserID).
		Int("worked_minutes", worked.Minutes).
		Str("geofence", res.Status).
		Msg("check-out registrado")
	return &dto.CheckOutResponse{
		Log:           toLogResponse(open),
		Geofence:      toGeofenceResult(res),
		WorkedMinutes: worked.Minutes,
		WorkedHours:   worked.Hours,
	}, nil
}

// Status estado actual del empleado: registro abierto (si hay) y último registro.
func (uc *UseCase) Status(ctx context.Context, sc authz.Scope, employeeID string) (*dto.AttendanceStatusResponse, error) {
	target, err := uc.visible(ctx, sc, employeeID)
	if err != nil {
		return nil, err
	}
	open, err := uc.findOpen(ctx, target.ID, uc.now())
	if err != nil {
		return nil, err
	}
	last, err := uc.deps.Logs.LatestByUser(ctx, target.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.AttendanceStatusResponse{EmployeeID: target.ID, CheckedIn: open != nil}
	if open != nil {
		r := toLogResponse(open)
		out.Current = &r
	}
	if last != nil {
		r := toLogResponse(last)
		out.Last = &r
	}
	return out, nil
}

// History registros del empleado entre from y to (inclusive), más recientes primero.
func (uc *UseCase) History(ctx context.Context, sc authz.Scope, employeeID string, q dto.HistoryQuery) (*dto.AttendanceHistoryResponse, error) {
	target, err := uc.visible(ctx, sc, employeeID)
	if err != nil {
		return nil, err
	}
	from, to, err := uc.historyRange(q)
	if err != nil {
		return nil, err
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()

	logs, err := uc.deps.Logs.ListByUser(ctx, target.ID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AttendanceLogResponse, 0, len(logs))
	for _, l := range logs {
		items = append(items, toLogResponse(l))
	}
	return &dto.AttendanceHistoryResponse{
		EmployeeID: target.ID,
		From:       from.Format(dateLayout),
		To:         to.Format(dateLayout),
		Items:      items,
		Page:       dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Report PDF del historial en el rango pedido. Devuelve el documento y un nombre de archivo.
func (uc *UseCase) Report(ctx context.Context, sc authz.Scope, employeeID string, q dto.HistoryQuery) ([]byte, string, error) {
	if uc.deps.Renderer == nil {
		return nil, "", fmt.Errorf("reporte de asistencia: %w: sin generador de PDF", domain.ErrInfrastructure)
	}
	target, err := uc.visible(ctx, sc, employeeID)
	if err != nil {
		return nil, "", err
	}
	from, to, err := uc.historyRange(q)
	if err != nil {
		return nil, "", err
	}
	logs, err := uc.deps.Logs.ListByUser(ctx, target.ID, from, to, maxReportRows, 0)
	if err != nil {
		return nil, "", err
	}
	companyName := ""
	if c, err := uc.deps.Companies.GetByID(ctx, target.Company()); err != nil {
		return nil, "", err
	} else if c != nil {
		companyName = c.Name
	}

	pdf, err := uc.deps.Renderer.RenderAttendance(ctx, ports.AttendanceReport{
		CompanyName:  companyName,
		EmployeeName: target.Name,
		EmployeeKey:  target.PrimaryIdentifier(),
		From:         from.Format(dateLayout),
		To:           to.Format(dateLayout),
		Timezone:     uc.loc.String(),
		Logs:         logs,
	})
	if err != nil {
		return nil, "", fmt.Errorf("reporte de asistencia: %w", err)
	}
	name := fmt.Sprintf("asistencia_%s_%s_%s.pdf", target.ID, from.Format(dateLayout), to.Format(dateLayout))
	return pdf, name, nil
}

// owner usuario dueño del token. Sin identidad resoluble no hay registro posible.
func (uc *UseCase) owner(ctx context.Context, sc authz.Scope) (*entity.User, error) {
	id, err := uc.deps.Identity.ResolveIdentity(ctx, sc)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := uc.deps.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Company() != sc.CompanyID {
		return nil, domain.ErrUnauthorized
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}
	return u, nil
}

// visible devuelve el empleado si el llamador puede ver su asistencia: él mismo, el
// company_admin de su empresa o el gerente de su sucursal. En otro caso ErrNotFound.
func (uc *UseCase) visible(ctx context.Context, sc authz.Scope, employeeID string) (*entity.User, error) {
	target, err := uc.deps.Users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrNotFound
	}
	if sc.Role.IsPlatform() {
		return target, nil
	}
	if target.Company() != sc.CompanyID {
		return nil, domain.ErrNotFound
	}
	switch sc.Role {
	case authz.RoleCompanyAdmin:
		return target, nil
	case authz.RoleBranchManager:
		if sc.BranchID != "" && target.Branch() == sc.BranchID {
			return target, nil
		}
	}
	self, err := uc.deps.Identity.ResolveIdentity(ctx, sc)
	if err != nil {
		return nil, err
	}
	if self != "" && self == target.ID {
		return target, nil
	}
	return nil, domain.ErrNotFound
}

func (uc *UseCase) findOpen(ctx context.Context, userID string, now time.Time) (*entity.AttendanceLog, error) {
	day := rules.DayOf(now, uc.loc)
	open, err := uc.deps.Logs.FindOpen(ctx, userID, day)
	if err != nil || open != nil {
		return open, err
	}
	return uc.deps.Logs.FindOpen(ctx, userID, day.AddDate(0, 0, -1))
}

// historyRange sin fechas: los últimos 30 días hasta hoy.
func (uc *UseCase) historyRange(q dto.HistoryQuery) (time.Time, time.Time, error) {
	to := rules.DayOf(uc.now(), uc.loc)
	if q.To != "" {
		t, err := time.Parse(dateLayout, q.To)
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("to")
		}
		to = t
	}
	from := to.AddDate(0, 0, -defaultHistoryDays)
	if q.From != "" {
		f, err := time.Parse(dateLayout, q.From)
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("from")
		}
		from = f
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, domain.NewValidationError("from", "to")
	}
	return from, to, nil
}

func pointFrom(in dto.LocationRequest) (geofence.Point, error) {
	var fields []string
	if in.Latitude == nil {
		fields = append(fields, "latitude")
	}
	if in.Longitude == nil {
		fields = append(fields, "longitude")
	}
	if len(fields) > 0 {
		return geofence.Point{}, domain.NewValidationError(fields...)
	}
	p := geofence.Point{Latitude: *in.Latitude, Longitude: *in.Longitude}
	if !p.Valid() {
		return geofence.Point{}, domain.NewValidationError("latitude", "longitude")
	}
	return p, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toGeofenceResult(r geofence.Result) dto.GeofenceResult {
	return dto.GeofenceResult{
		Status:         r.Status,
		ZoneID:         r.ZoneID,
		ZoneName:       r.ZoneName,
		DistanceMeters: r.DistanceMeters,
	}
}

func toLogResponse(l *entity.AttendanceLog) dto.AttendanceLogResponse {
	return dto.AttendanceLogResponse{
		ID:                l.ID,
		UserID:            l.UserID,
		AttendanceDate:    l.AttendanceDate.Format(dateLayout),
		CheckIn:           l.CheckIn,
		CheckInLatitude:   l.CheckInLatitude,
		CheckInLongitude:  l.CheckInLongitude,
		CheckInGeofence:   l.CheckInGeofence,
		CheckOut:          l.CheckOut,
		CheckOutLatitude:  l.CheckOutLatitude,
		CheckOutLongitude: l.CheckOutLongitude,
		CheckOutGeofence:  l.CheckOutGeofence,
		WorkedMinutes:     l.WorkedMinutes,
		WorkedHours:       l.WorkedHours,
	}
}
