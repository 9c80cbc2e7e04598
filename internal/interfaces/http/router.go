package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/Workforce-api/internal/application/access"
	"github.com/jhoicas/Workforce-api/internal/application/attendance"
	"github.com/jhoicas/Workforce-api/internal/application/auth"
	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/usecase"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// Límite por IP de los endpoints de códigos de un solo uso.
const (
	defaultOTPRateMax    = 5
	defaultOTPRateWindow = time.Minute
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	OTP          *auth.OTPService
	Tokens       TokenVerifier
	Identity     IdentityResolver
	Access       *access.Service
	CompanyUC    *usecase.CompanyUseCase
	LicenseUC    *usecase.LicenseUseCase
	BranchUC     *usecase.BranchUseCase
	EmployeeUC   *usecase.EmployeeUseCase
	AttendanceUC *attendance.UseCase
	ZoneUC       *attendance.ZoneUseCase
	Metrics      *metrics.Prometheus // nil = sin /metrics
	Log          *logger.Logger

	OTPRateMax    int
	OTPRateWindow time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app.Use(RequestLogger(log.Component("http")))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.OTP, log.Component("auth"))
	authGroup := api.Group("/auth")
	authGroup.Post("/master/login", authHandler.MasterLogin)
	authGroup.Post("/refresh", authHandler.Refresh)
	otpLimit := otpLimiter(deps.OTPRateMax, deps.OTPRateWindow)
	authGroup.Post("/request-otp", otpLimit, authHandler.RequestOTP)
	authGroup.Post("/verify-otp", otpLimit, authHandler.VerifyOTP)
	// Antes del grupo /company: su middleware no aplica al login.
	api.Post("/company/login", authHandler.CompanyLogin)

	authn := AuthMiddleware(deps.Tokens)

	// Operador de plataforma
	master := api.Group("/master", authn, RequireRole(authz.RoleMaster, authz.RoleAdmin))
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.LicenseUC, log.Component("master"))
	master.Post("/companies", companyHandler.Create)
	master.Get("/companies", companyHandler.List)
	master.Get("/companies/:id", companyHandler.GetByID)
	master.Patch("/companies/:id/status", companyHandler.SetStatus)
	master.Put("/companies/:id/modules", companyHandler.SetModules)
	master.Get("/companies/:id/license", companyHandler.GetLicense)
	master.Post("/companies/:id/license/renew", companyHandler.RenewLicense)

	// Tenant
	tenantRoles := RequireRole(authz.RoleCompanyAdmin, authz.RoleBranchManager, authz.RoleEmployee)
	company := api.Group("/company", authn, tenantRoles)
	tenantHandler := NewTenantHandler(deps.Access, deps.BranchUC, deps.EmployeeUC, log.Component("company"))
	company.Get("/modules", tenantHandler.Modules)

	admins := RequireRole(authz.RoleCompanyAdmin, authz.RoleBranchManager)
	company.Get("/branches", admins, tenantHandler.ListBranches)
	company.Post("/branches", admins, tenantHandler.CreateBranch)
	company.Patch("/branches/:id", admins, tenantHandler.UpdateBranch)
	company.Get("/branches/:id/managers/:managerId/modules", admins, tenantHandler.ManagerModules)
	company.Put("/branches/:id/managers/:managerId/modules", admins, tenantHandler.ReplaceManagerModules)
	company.Get("/employees", admins, tenantHandler.ListEmployees)
	company.Post("/employees", admins, tenantHandler.CreateEmployee)
	company.Get("/employees/:id", admins, tenantHandler.GetEmployee)
	company.Get("/employees/:id/modules", admins, tenantHandler.EmployeeModules)
	company.Put("/employees/:id/modules", admins, tenantHandler.ReplaceEmployeeModules)

	// Asistencia (módulo "attendance")
	gateLog := log.Component("authz")
	gate := func(action authz.Action) fiber.Handler {
		return RequireModule(entity.ModuleAttendance, action, deps.Access, deps.Identity, gateLog)
	}
	att := api.Group("/attendance", authn, tenantRoles)
	attendanceHandler := NewAttendanceHandler(deps.AttendanceUC, log.Component("attendance"))
	att.Post("/checkin", gate(authz.ActionView), attendanceHandler.CheckIn)
	att.Post("/checkout", gate(authz.ActionView), attendanceHandler.CheckOut)
	att.Get("/status/:employeeId", gate(authz.ActionView), attendanceHandler.Status)
	att.Get("/history/:employeeId", gate(authz.ActionView), attendanceHandler.History)
	att.Get("/history/:employeeId/report", gate(authz.ActionView), attendanceHandler.Report)

	zoneHandler := NewZoneHandler(deps.ZoneUC, log.Component("geofence"))
	zones := att.Group("/geofence/zones", admins)
	zones.Get("/", gate(authz.ActionView), zoneHandler.List)
	zones.Post("/", gate(authz.ActionModify), zoneHandler.Create)
	zones.Put("/:id", gate(authz.ActionUpdate), zoneHandler.Update)
	zones.Delete("/:id", gate(authz.ActionModify), zoneHandler.Delete)
}

// otpLimiter ventana fija por IP; al excederla responde 429.
func otpLimiter(limit int, window time.Duration) fiber.Handler {
	if limit <= 0 {
		limit = defaultOTPRateMax
	}
	if window <= 0 {
		window = defaultOTPRateWindow
	}
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "otp:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas solicitudes, intente más tarde",
			})
		},
	})
}
