package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Workforce-api/internal/application/access"
	"github.com/jhoicas/Workforce-api/internal/application/attendance"
	"github.com/jhoicas/Workforce-api/internal/application/auth"
	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/application/usecase"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository/repotest"
	"github.com/jhoicas/Workforce-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Workforce-api/internal/interfaces/http"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

const (
	acmeID     = "c-acme"
	branchID   = "b-centro"
	officeLat  = 4.6097
	officeLon  = -74.0817
	testSecret = "secret-for-http-tests"
	password   = "clave-segura-123"
)

type codeSink struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *codeSink) SendCode(_ context.Context, _ *entity.User, identifier, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[identifier] = code
	return nil
}

func (s *codeSink) code(identifier string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[identifier]
}

type pdfStub struct{}

func (pdfStub) RenderAttendance(context.Context, ports.AttendanceReport) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

type apiFixture struct {
	app   *fiber.App
	store *repotest.Store
	codes *codeSink
	prom  *metrics.Prometheus
}

func strp(s string) *string { return &s }

func newAPI(t *testing.T) apiFixture {
	t.Helper()
	ctx := context.Background()
	st := repotest.New()
	now := time.Now()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, st.Companies.Create(ctx, &entity.Company{ID: acmeID, Code: "acme", Name: "ACME", IsActive: true}))
	require.NoError(t, st.Licenses.Create(ctx, &entity.License{
		CompanyID: acmeID, StartDate: now, DurationValue: 1, DurationUnit: entity.DurationYears,
		EndDate: now.AddDate(1, 0, 0), IsActive: true,
	}))
	require.NoError(t, st.Branches.Create(ctx, &entity.Branch{ID: branchID, CompanyID: acmeID, Name: "Centro", IsActive: true}))
	require.NoError(t, st.Modules.UpsertCompanyModules(ctx, acmeID, []*entity.CompanyModule{
		{CompanyID: acmeID, ModuleName: entity.ModuleAttendance, IsEnabled: true},
		{CompanyID: acmeID, ModuleName: entity.ModulePayroll, IsEnabled: false},
	}))
	for _, u := range []*entity.User{
		{ID: "u-master", Name: "Root", Role: entity.RoleMaster, Email: strp("root@platform.io"), PasswordHash: string(hash), IsActive: true},
		{ID: "u-admin", CompanyID: strp(acmeID), Name: "Admin", Role: entity.RoleCompanyAdmin, Email: strp("admin@acme.co"), PasswordHash: string(hash), IsActive: true},
		{ID: "u-emp", CompanyID: strp(acmeID), BranchID: strp(branchID), Name: "Ana", Role: entity.RoleEmployee, EmployeeCode: strp("emp-1"), PasswordHash: string(hash), IsActive: true},
	} {
		require.NoError(t, st.Users.Create(ctx, u))
	}
	require.NoError(t, st.Modules.ReplaceEmployeeModules(ctx, "u-emp", []*entity.EmployeeModuleAccess{
		{EmployeeID: "u-emp", ModuleName: entity.ModuleAttendance, AccessLevel: entity.AccessView, IsEnabled: true},
	}))
	require.NoError(t, st.Zones.Create(ctx, &entity.GeofenceZone{
		ID: "z-1", CompanyID: acmeID, Name: "Oficina", Latitude: officeLat, Longitude: officeLon,
		RadiusMeters: 150, IsActive: true, CreatedAt: now,
	}))

	log := logger.Nop()
	prom := metrics.New("workforce-test")
	tokens := auth.NewTokenIssuer(auth.TokenConfig{Secret: testSecret, Issuer: "workforce-test", AccessMinutes: 15, RefreshHours: 24})
	acc := access.NewService(st.Modules, st.Users, st.Branches, st, prom, log)
	authUC := auth.NewAuthUseCase(auth.Repos{Users: st.Users, Companies: st.Companies, Branches: st.Branches, Licenses: st.Licenses}, acc, tokens, prom, log)
	sink := &codeSink{codes: map[string]string{}}
	otp := auth.NewOTPService(authUC, st.OTP, sink, auth.OTPConfig{TTL: time.Minute, Length: 6, MaxAttempts: 3}, log)
	resolver := auth.NewScopeResolver(st.Users, log)
	attUC := attendance.NewUseCase(attendance.Deps{
		Logs:      st.Attendance,
		Users:     st.Users,
		Companies: st.Companies,
		Geofence:  attendance.NewGeofenceService(st.Zones, log),
		Identity:  resolver,
		Renderer:  pdfStub{},
		Metrics:   prom,
	}, time.UTC, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		OTP:           otp,
		Tokens:        tokens,
		Identity:      resolver,
		Access:        acc,
		CompanyUC:     usecase.NewCompanyUseCase(st.Companies, st.Licenses, st.Modules, st, log),
		LicenseUC:     usecase.NewLicenseUseCase(st.Licenses, log),
		BranchUC:      usecase.NewBranchUseCase(st.Branches, st.Companies, log),
		EmployeeUC:    usecase.NewEmployeeUseCase(st.Users, st.Branches, st.Companies, log),
		AttendanceUC:  attUC,
		ZoneUC:        attendance.NewZoneUseCase(st.Zones, st.Branches, log),
		Metrics:       prom,
		Log:           log,
		OTPRateMax:    3,
		OTPRateWindow: time.Minute,
	})
	return apiFixture{app: app, store: st, codes: sink, prom: prom}
}

func (f apiFixture) call(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (f apiFixture) login(t *testing.T, username string) dto.LoginResponse {
	t.Helper()
	resp := f.call(t, http.MethodPost, "/api/company/login", "", dto.CompanyLoginRequest{CompanyCode: "ACME", Username: username, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.LoginResponse](t, resp)
}

func (f apiFixture) otpToken(t *testing.T, identifier string) string {
	t.Helper()
	resp := f.call(t, http.MethodPost, "/api/auth/request-otp", "", dto.RequestOTPRequest{CompanyCode: "acme", Identifier: identifier})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	code := f.codes.code(strings.ToLower(identifier))
	require.NotEmpty(t, code)
	resp = f.call(t, http.MethodPost, "/api/auth/verify-otp", "", dto.VerifyOTPRequest{CompanyCode: "acme", Identifier: identifier, Code: code})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[dto.LoginResponse](t, resp).AccessToken
}

func location(lat, lon float64) dto.LocationRequest {
	return dto.LocationRequest{Latitude: &lat, Longitude: &lon}
}

func TestCompanyLogin_DevuelveTokensYModulos(t *testing.T) {
	f := newAPI(t)

	out := f.login(t, "ADMIN@acme.co")
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, entity.RoleCompanyAdmin, out.User.Role)
	require.Len(t, out.Modules, 2)

	byName := map[string]dto.ModuleResponse{}
	for _, m := range out.Modules {
		byName[m.ModuleName] = m
	}
	assert.True(t, byName[entity.ModuleAttendance].CanModify)
	assert.False(t, byName[entity.ModulePayroll].IsEnabled)
	assert.False(t, byName[entity.ModulePayroll].CanView)
}

func TestCompanyLogin_CredencialesInvalidas401(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/company/login", "", dto.CompanyLoginRequest{CompanyCode: "acme", Username: "admin@acme.co", Password: "otra-clave"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCompanyLogin_LicenciaVencida403ConDias(t *testing.T) {
	f := newAPI(t)
	lic, err := f.store.Licenses.GetByCompany(context.Background(), acmeID)
	require.NoError(t, err)
	lic.EndDate = time.Now().Add(-48 * time.Hour)
	require.NoError(t, f.store.Licenses.Update(context.Background(), lic))

	resp := f.call(t, http.MethodPost, "/api/company/login", "", dto.CompanyLoginRequest{CompanyCode: "acme", Username: "admin@acme.co", Password: password})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "LICENSE_INVALID", body.Code)
	require.NotNil(t, body.RemainingDays)
	assert.Equal(t, 0, *body.RemainingDays)
}

func TestLogin_ValidacionReportaCampos(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/company/login", "", map[string]string{"company_code": "acme"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.ElementsMatch(t, []string{"username", "password"}, body.Fields)
}

func TestLogin_CuerpoInvalido(t *testing.T) {
	f := newAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/master/login", strings.NewReader("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestOTP_EmpleadoRegistraEntradaYSalida(t *testing.T) {
	f := newAPI(t)
	token := f.otpToken(t, "EMP-1")

	resp := f.call(t, http.MethodPost, "/api/attendance/checkin", token, location(officeLat, officeLon))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	in := decode[dto.CheckInResponse](t, resp)
	assert.Equal(t, "u-emp", in.Log.UserID)
	assert.Equal(t, entity.GeofenceInside, in.Geofence.Status)

	resp = f.call(t, http.MethodPost, "/api/attendance/checkin", token, location(officeLat, officeLon))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "ALREADY_CHECKED_IN", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.call(t, http.MethodPost, "/api/attendance/checkout", token, location(officeLat, officeLon))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	outResp := decode[dto.CheckOutResponse](t, resp)
	require.NotNil(t, outResp.Log.CheckOut)

	resp = f.call(t, http.MethodPost, "/api/attendance/checkout", token, location(officeLat, officeLon))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_ACTIVE_CHECK_IN", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAttendance_CoordenadasInvalidas400(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "emp-1").AccessToken

	resp := f.call(t, http.MethodPost, "/api/attendance/checkin", token, location(91, 0))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "latitude")
}

func TestAttendance_ModuloDeshabilitado403(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "emp-1").AccessToken
	require.NoError(t, f.store.Modules.UpsertCompanyModules(context.Background(), acmeID, []*entity.CompanyModule{
		{CompanyID: acmeID, ModuleName: entity.ModuleAttendance, IsEnabled: false},
	}))

	resp := f.call(t, http.MethodPost, "/api/attendance/checkin", token, location(officeLat, officeLon))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAttendance_TokenDeEmpleadoSinIdentidad401(t *testing.T) {
	f := newAPI(t)
	token := f.otpToken(t, "emp-1")
	u, err := f.store.Users.GetByID(context.Background(), "u-emp")
	require.NoError(t, err)
	u.EmployeeCode = strp("emp-99")
	f.store.Users.Put(u)

	resp := f.call(t, http.MethodGet, "/api/attendance/status/u-emp", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAttendance_ReportePDF(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "admin@acme.co").AccessToken

	resp := f.call(t, http.MethodGet, "/api/attendance/history/u-emp/report?from=2025-01-01&to=2025-01-31", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment; filename=")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestAttendance_HistorialRangoInvertido400(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "admin@acme.co").AccessToken

	resp := f.call(t, http.MethodGet, "/api/attendance/history/u-emp?from=2025-02-01&to=2025-01-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.ElementsMatch(t, []string{"from", "to"}, body.Fields)
}

func TestZones_EmpleadoNoAdministra(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "emp-1").AccessToken

	resp := f.call(t, http.MethodGet, "/api/attendance/geofence/zones", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestZones_AdminCreaYBorra(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "admin@acme.co").AccessToken
	lat, lon := 4.7, -74.05

	resp := f.call(t, http.MethodPost, "/api/attendance/geofence/zones", token, dto.ZoneRequest{
		Name: "Bodega", Latitude: &lat, Longitude: &lon, RadiusMeters: 80,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	zone := decode[dto.ZoneResponse](t, resp)
	assert.Equal(t, acmeID, zone.CompanyID)

	resp = f.call(t, http.MethodDelete, "/api/attendance/geofence/zones/"+zone.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = f.call(t, http.MethodDelete, "/api/attendance/geofence/zones/"+zone.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMaster_RutaVedadaParaTenant(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "admin@acme.co").AccessToken

	resp := f.call(t, http.MethodGet, "/api/master/companies", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMaster_LoginYListado(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/auth/master/login", "", dto.MasterLoginRequest{Email: "root@platform.io", Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decode[dto.LoginResponse](t, resp).AccessToken

	resp = f.call(t, http.MethodGet, "/api/master/companies?limit=10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.CompanyListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "acme", list.Items[0].Code)

	resp = f.call(t, http.MethodGet, "/api/master/companies/"+acmeID+"/license", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lic := decode[dto.LicenseResponse](t, resp)
	assert.True(t, lic.IsValid)
	assert.Positive(t, lic.RemainingDays)

	// El operador de plataforma no entra a la superficie del tenant.
	resp = f.call(t, http.MethodGet, "/api/company/modules", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCompany_ModulosEfectivos(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "emp-1").AccessToken

	resp := f.call(t, http.MethodGet, "/api/company/modules", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mods := decode[[]dto.ModuleResponse](t, resp)
	for _, m := range mods {
		if m.ModuleName == entity.ModuleAttendance {
			assert.True(t, m.CanView)
			assert.False(t, m.CanModify)
		}
	}
}

func TestCompany_ReemplazoDePermisosRespetaTecho(t *testing.T) {
	f := newAPI(t)
	token := f.login(t, "admin@acme.co").AccessToken

	resp := f.call(t, http.MethodPut, "/api/company/employees/u-emp/modules", token, dto.ReplaceEmployeeModulesRequest{
		Modules: []dto.EmployeeModuleItem{
			{ModuleName: entity.ModuleAttendance, AccessLevel: entity.AccessModify, IsEnabled: true},
			{ModuleName: entity.ModulePayroll, AccessLevel: entity.AccessView, IsEnabled: true},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)

	// Atómico: el permiso previo sigue intacto.
	grant, err := f.store.Modules.GetEmployeeModule(context.Background(), "u-emp", entity.ModuleAttendance)
	require.NoError(t, err)
	require.NotNil(t, grant)
	assert.Equal(t, entity.AccessView, grant.AccessLevel)
}

func TestRequestOTP_IdentificadorDesconocidoMismaRespuesta(t *testing.T) {
	f := newAPI(t)

	resp := f.call(t, http.MethodPost, "/api/auth/request-otp", "", dto.RequestOTPRequest{CompanyCode: "acme", Identifier: "nadie@acme.co"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[dto.MessageResponse](t, resp).Message)
	assert.Empty(t, f.codes.code("nadie@acme.co"))
}

func TestRequestOTP_LimiteDeSolicitudes429(t *testing.T) {
	f := newAPI(t)

	var last *http.Response
	for i := 0; i < 4; i++ {
		last = f.call(t, http.MethodPost, "/api/auth/request-otp", "", dto.RequestOTPRequest{CompanyCode: "acme", Identifier: "emp-1"})
	}
	assert.Equal(t, http.StatusTooManyRequests, last.StatusCode)
	assert.Equal(t, "RATE_LIMITED", decode[dto.ErrorResponse](t, last).Code)
}

func TestRefresh_RotaTokens(t *testing.T) {
	f := newAPI(t)
	first := f.login(t, "admin@acme.co")

	resp := f.call(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pair := decode[dto.TokenPair](t, resp)
	assert.NotEmpty(t, pair.AccessToken)

	resp = f.call(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: first.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMetrics_Expuestas(t *testing.T) {
	f := newAPI(t)
	f.login(t, "admin@acme.co")

	resp := f.call(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `workforce_login_attempts_total{kind="company",outcome="success"} 1`)
}
