package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/Workforce-api/docs"
	"github.com/jhoicas/Workforce-api/internal/application/access"
	"github.com/jhoicas/Workforce-api/internal/application/attendance"
	"github.com/jhoicas/Workforce-api/internal/application/auth"
	"github.com/jhoicas/Workforce-api/internal/application/usecase"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Workforce-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Workforce-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Workforce-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Workforce-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/Workforce-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Workforce-api/internal/interfaces/http"
	"github.com/jhoicas/Workforce-api/pkg/config"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	loc := cfg.App.Location()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", loc.String()).
		Str("otp_store", cfg.OTP.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	timeout := cfg.DB.QueryTimeout()
	companyRepo := postgres.NewCompanyRepository(pool, timeout)
	branchRepo := postgres.NewBranchRepository(pool, timeout)
	userRepo := postgres.NewUserRepository(pool, timeout)
	licenseRepo := postgres.NewLicenseRepository(pool, timeout)
	moduleRepo := postgres.NewModuleRepository(pool, timeout)
	zoneRepo := postgres.NewGeofenceRepository(pool, timeout)
	attendanceRepo := postgres.NewAttendanceRepository(pool, timeout)
	txRunner := postgres.NewTxRunner(pool, timeout)

	// Códigos de un solo uso: Postgres (purga programada) o Redis (TTL nativo).
	var otpStore repository.OTPStore
	var purger scheduler.CodePurger
	switch cfg.OTP.Store {
	case "redis":
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		otpStore = redisstore.NewOTPStore(client, timeout)
	default:
		pgStore := postgres.NewOTPStore(pool, timeout)
		otpStore, purger = pgStore, pgStore
	}

	prom := metrics.New(cfg.App.Name)

	tokens := auth.NewTokenIssuer(auth.TokenConfig{
		Secret:        cfg.JWT.Secret,
		Issuer:        cfg.JWT.Issuer,
		AccessMinutes: cfg.JWT.Expiration,
		RefreshHours:  cfg.JWT.RefreshExpiration,
	})
	accessSvc := access.NewService(moduleRepo, userRepo, branchRepo, txRunner, prom, log.Component("access"))
	authUC := auth.NewAuthUseCase(auth.Repos{
		Users:     userRepo,
		Companies: companyRepo,
		Branches:  branchRepo,
		Licenses:  licenseRepo,
	}, accessSvc, tokens, prom, log.Component("auth"))
	// El código solo aparece en el log fuera de producción.
	sender := notify.NewLogSender(log.Component("otp"), cfg.App.Env == "development")
	otpSvc := auth.NewOTPService(authUC, otpStore, sender, auth.OTPConfig{
		TTL:         cfg.OTP.TTL(),
		Length:      cfg.OTP.Length,
		MaxAttempts: cfg.OTP.MaxAttempts,
	}, log.Component("otp"))
	resolver := auth.NewScopeResolver(userRepo, log.Component("auth"))

	companyUC := usecase.NewCompanyUseCase(companyRepo, licenseRepo, moduleRepo, txRunner, log.Component("companies"))
	licenseUC := usecase.NewLicenseUseCase(licenseRepo, log.Component("licenses"))
	branchUC := usecase.NewBranchUseCase(branchRepo, companyRepo, log.Component("branches"))
	employeeUC := usecase.NewEmployeeUseCase(userRepo, branchRepo, companyRepo, log.Component("employees"))

	attLog := log.Component("attendance")
	attendanceUC := attendance.NewUseCase(attendance.Deps{
		Logs:      attendanceRepo,
		Users:     userRepo,
		Companies: companyRepo,
		Geofence:  attendance.NewGeofenceService(zoneRepo, attLog),
		Identity:  resolver,
		Renderer:  infrapdf.NewAttendanceReportGenerator(),
		Metrics:   prom,
	}, loc, attLog)
	zoneUC := attendance.NewZoneUseCase(zoneRepo, branchRepo, log.Component("geofence"))

	jobs := scheduler.New(loc, log)
	if err := jobs.Register(purger, licenseUC); err != nil {
		log.Fatal().Err(err).Msg("registrar tareas programadas")
	}
	jobs.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Swagger.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Workforce API",
		}))
	} else {
		log.Warn().Str("file", cfg.Swagger.FilePath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		OTP:          otpSvc,
		Tokens:       tokens,
		Identity:     resolver,
		Access:       accessSvc,
		CompanyUC:    companyUC,
		LicenseUC:    licenseUC,
		BranchUC:     branchUC,
		EmployeeUC:   employeeUC,
		AttendanceUC: attendanceUC,
		ZoneUC:       zoneUC,
		Metrics:      prom,
		Log:          log,
		OTPRateMax:   cfg.OTP.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	jobs.Stop()

	log.Info().Msg("aplicación detenida")
}
