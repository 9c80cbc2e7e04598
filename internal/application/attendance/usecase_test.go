package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Workforce-api/internal/application/auth"
	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository/repotest"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

const (
	companyID = "c1"
	branchB1  = "b1"
	branchB2  = "b2"
	centerLat = 12.9716
	centerLon = 77.5946
)

var bogota = time.FixedZone("COT", -5*60*60)

type fakeRenderer struct {
	got *ports.AttendanceReport
}

func (r *fakeRenderer) RenderAttendance(_ context.Context, rep ports.AttendanceReport) ([]byte, error) {
	r.got = &rep
	return []byte("%PDF-1.4"), nil
}

type attFixture struct {
	store    *repotest.Store
	uc       *UseCase
	renderer *fakeRenderer
	clock    *time.Time
}

func strp(s string) *string { return &s }

func loc(lat, lon float64) dto.LocationRequest { return dto.LocationRequest{Latitude: &lat, Longitude: &lon} }

func newAttFixture(t *testing.T) attFixture {
	t.Helper()
	ctx := context.Background()
	st := repotest.New()
	require.NoError(t, st.Companies.Create(ctx, &entity.Company{ID: companyID, Code: "acme", Name: "ACME S.A.S.", IsActive: true}))
	users := []*entity.User{
		{ID: "admin", CompanyID: strp(companyID), Name: "Admin", Role: entity.RoleCompanyAdmin, Email: strp("admin@acme.co"), IsActive: true},
		{ID: "m1", CompanyID: strp(companyID), BranchID: strp(branchB1), Name: "Gerente Centro", Role: entity.RoleBranchManager, Email: strp("m1@acme.co"), IsActive: true},
		{ID: "m2", CompanyID: strp(companyID), BranchID: strp(branchB2), Name: "Gerente Norte", Role: entity.RoleBranchManager, Email: strp("m2@acme.co"), IsActive: true},
		{ID: "e1", CompanyID: strp(companyID), BranchID: strp(branchB1), Name: "Ana", Role: entity.RoleEmployee, EmployeeCode: strp("emp-1"), IsActive: true},
		{ID: "e2", CompanyID: strp(companyID), BranchID: strp(branchB1), Name: "Luis", Role: entity.RoleEmployee, EmployeeCode: strp("emp-2"), IsActive: true},
		{ID: "x1", CompanyID: strp("c2"), Name: "Otra", Role: entity.RoleCompanyAdmin, Email: strp("admin@globex.co"), IsActive: true},
	}
	for _, u := range users {
		require.NoError(t, st.Users.Create(ctx, u))
	}
	require.NoError(t, st.Zones.Create(ctx, &entity.GeofenceZone{
		ID: "z1", CompanyID: companyID, Name: "Oficina", Latitude: centerLat, Longitude: centerLon,
		RadiusMeters: 100, IsActive: true, CreatedAt: time.Now(),
	}))

	log := logger.Nop()
	renderer := &fakeRenderer{}
	uc := NewUseCase(Deps{
		Logs:      st.Attendance,
		Users:     st.Users,
		Companies: st.Companies,
		Geofence:  NewGeofenceService(st.Zones, log),
		Identity:  auth.NewScopeResolver(st.Users, log),
		Renderer:  renderer,
	}, bogota, log)
	clock := time.Date(2025, 3, 10, 8, 0, 0, 0, bogota)
	f := attFixture{store: st, uc: uc, renderer: renderer, clock: &clock}
	uc.now = func() time.Time { return *f.clock }
	return f
}

// Token de empleado emitido por OTP: sin user_id, identidad por subject.
func employeeScope() authz.Scope {
	return authz.Scope{Role: authz.RoleEmployee, CompanyID: companyID, BranchID: branchB1, Subject: "EMP-1"}
}

func TestCheckIn_DentroDeLaZonaYDobleCheckIn(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()

	out, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)
	assert.Equal(t, entity.GeofenceInside, out.Geofence.Status)
	assert.Equal(t, "z1", out.Geofence.ZoneID)
	assert.Equal(t, "Oficina", out.Geofence.ZoneName)
	require.NotNil(t, out.Geofence.DistanceMeters)
	assert.InDelta(t, 0, *out.Geofence.DistanceMeters, 1e-6)
	assert.Equal(t, "2025-03-10", out.Log.AttendanceDate)
	assert.Equal(t, "e1", out.Log.UserID)

	_, err = f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, f.store.Attendance.OpenCount("e1"))
}

func TestCheckIn_ConcurrenteDejaUnSoloRegistroAbierto(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()

	const n = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		conflict int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrAlreadyCheckedIn):
				conflict++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflict)
	assert.Equal(t, 1, f.store.Attendance.OpenCount("e1"))
}

func TestCheckOut_MismoInstanteDuracionCero(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()

	_, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)
	out, err := f.uc.CheckOut(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)
	assert.Equal(t, 0, out.WorkedMinutes)
	assert.Equal(t, "0.00", out.WorkedHours.StringFixed(2))
	assert.True(t, out.WorkedHours.Sign() >= 0)

	_, err = f.uc.CheckOut(ctx, employeeScope(), loc(centerLat, centerLon))
	assert.ErrorIs(t, err, domain.ErrNoActiveCheckIn)
}

func TestCheckIn_JornadaCerradaNoSeReabre(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()

	_, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)
	*f.clock = f.clock.Add(4 * time.Hour)
	_, err = f.uc.CheckOut(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)
	*f.clock = f.clock.Add(time.Hour)
	_, err = f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	assert.ErrorIs(t, err, domain.ErrDayClosed)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 0, f.store.Attendance.OpenCount("e1"))

	// Al día siguiente se abre una jornada nueva.
	*f.clock = f.clock.Add(24 * time.Hour)
	out, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", out.Log.AttendanceDate)
	assert.Equal(t, 1, f.store.Attendance.OpenCount("e1"))
}

func TestCheckOut_TurnoQueCruzaMedianoche(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()
	*f.clock = time.Date(2025, 3, 10, 22, 0, 0, 0, bogota)

	_, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)

	*f.clock = time.Date(2025, 3, 11, 6, 30, 0, 0, bogota)
	out, err := f.uc.CheckOut(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)
	assert.Equal(t, 510, out.WorkedMinutes)
	assert.Equal(t, "8.50", out.WorkedHours.StringFixed(2))
	assert.Equal(t, "2025-03-10", out.Log.AttendanceDate)
}

func TestCheckIn_FueraReportaDistancia(t *testing.T) {
	f := newAttFixture(t)
	out, err := f.uc.CheckIn(context.Background(), employeeScope(), loc(centerLat+0.01, centerLon))
	require.NoError(t, err)
	assert.Equal(t, entity.GeofenceOutside, out.Geofence.Status)
	assert.Empty(t, out.Geofence.ZoneID)
	require.NotNil(t, out.Geofence.DistanceMeters)
	assert.InDelta(t, 1112, *out.Geofence.DistanceMeters, 2)
}

func TestCheckIn_FallaDeZonasNoBloquea(t *testing.T) {
	f := newAttFixture(t)
	f.store.Zones.Err = errors.New("zonas no disponibles")

	out, err := f.uc.CheckIn(context.Background(), employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)
	assert.Equal(t, entity.GeofenceUnchecked, out.Geofence.Status)
	assert.Equal(t, entity.GeofenceUnchecked, out.Log.CheckInGeofence)
}

func TestCheckIn_IdentidadNoResuelta(t *testing.T) {
	f := newAttFixture(t)
	sc := authz.Scope{Role: authz.RoleEmployee, CompanyID: companyID, Subject: "fantasma"}
	_, err := f.uc.CheckIn(context.Background(), sc, loc(centerLat, centerLon))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCheckIn_CoordenadasInvalidas(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()

	_, err := f.uc.CheckIn(ctx, employeeScope(), dto.LocationRequest{})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"latitude", "longitude"}, ve.Fields)

	_, err = f.uc.CheckIn(ctx, employeeScope(), loc(91, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStatus_Visibilidad(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()
	_, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)

	allowed := []authz.Scope{
		employeeScope(),
		{Role: authz.RoleCompanyAdmin, CompanyID: companyID, UserID: "admin"},
		{Role: authz.RoleBranchManager, CompanyID: companyID, BranchID: branchB1, UserID: "m1"},
	}
	for _, sc := range allowed {
		st, err := f.uc.Status(ctx, sc, "e1")
		require.NoError(t, err, sc.Role.String())
		assert.True(t, st.CheckedIn)
		require.NotNil(t, st.Current)
		require.NotNil(t, st.Last)
	}

	denied := []authz.Scope{
		{Role: authz.RoleEmployee, CompanyID: companyID, BranchID: branchB1, UserID: "e2"},
		{Role: authz.RoleBranchManager, CompanyID: companyID, BranchID: branchB2, UserID: "m2"},
		{Role: authz.RoleCompanyAdmin, CompanyID: "c2", UserID: "x1"},
	}
	for _, sc := range denied {
		_, err := f.uc.Status(ctx, sc, "e1")
		assert.ErrorIs(t, err, domain.ErrNotFound, "%s/%s", sc.Role, sc.UserID)
	}

	_, err = f.uc.Status(ctx, allowed[1], "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistory_RangoYOrden(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()
	for d := 0; d < 3; d++ {
		*f.clock = time.Date(2025, 3, 10+d, 8, 0, 0, 0, bogota)
		_, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
		require.NoError(t, err)
		*f.clock = f.clock.Add(8 * time.Hour)
		_, err = f.uc.CheckOut(ctx, employeeScope(), loc(centerLat, centerLon))
		require.NoError(t, err)
	}

	h, err := f.uc.History(ctx, employeeScope(), "e1", dto.HistoryQuery{From: "2025-03-11", To: "2025-03-12"})
	require.NoError(t, err)
	require.Len(t, h.Items, 2)
	assert.Equal(t, "2025-03-12", h.Items[0].AttendanceDate)
	assert.Equal(t, "2025-03-11", h.Items[1].AttendanceDate)
	assert.Equal(t, 20, h.Page.Limit)

	h, err = f.uc.History(ctx, employeeScope(), "e1", dto.HistoryQuery{})
	require.NoError(t, err)
	assert.Len(t, h.Items, 3)
	assert.Equal(t, "2025-03-12", h.To)

	_, err = f.uc.History(ctx, employeeScope(), "e1", dto.HistoryQuery{From: "2025-03-12", To: "2025-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.History(ctx, employeeScope(), "e1", dto.HistoryQuery{From: "12/03/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReport(t *testing.T) {
	f := newAttFixture(t)
	ctx := context.Background()
	_, err := f.uc.CheckIn(ctx, employeeScope(), loc(centerLat, centerLon))
	require.NoError(t, err)

	admin := authz.Scope{Role: authz.RoleCompanyAdmin, CompanyID: companyID, UserID: "admin"}
	pdf, name, err := f.uc.Report(ctx, admin, "e1", dto.HistoryQuery{From: "2025-03-01", To: "2025-03-31"})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "asistencia_e1_2025-03-01_2025-03-31.pdf", name)
	require.NotNil(t, f.renderer.got)
	assert.Equal(t, "ACME S.A.S.", f.renderer.got.CompanyName)
	assert.Equal(t, "Ana", f.renderer.got.EmployeeName)
	assert.Len(t, f.renderer.got.Logs, 1)
}
