package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/license"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/identifier"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// CompanySetupTxRunner ejecuta el alta de una empresa (empresa, licencia, módulos y
// admin inicial) en una sola transacción.
type CompanySetupTxRunner interface {
	RunCompanySetup(ctx context.Context, fn func(
		companies repository.CompanyRepository,
		licenses repository.LicenseRepository,
		modules repository.ModuleRepository,
		users repository.UserRepository,
	) error) error
}

// CompanyUseCase operaciones del operador de plataforma sobre los tenants.
type CompanyUseCase struct {
	companies repository.CompanyRepository
	licenses  repository.LicenseRepository
	modules   repository.ModuleRepository
	tx        CompanySetupTxRunner
	log       *logger.Logger
	now       func() time.Time
	hashCost  int
}

// NewCompanyUseCase construye el caso de uso con los puertos de persistencia.
func NewCompanyUseCase(
	companies repository.CompanyRepository,
	licenses repository.LicenseRepository,
	modules repository.ModuleRepository,
	tx CompanySetupTxRunner,
	log *logger.Logger,
) *CompanyUseCase {
	return &CompanyUseCase{
		companies: companies,
		licenses:  licenses,
		modules:   modules,
		tx:        tx,
		log:       log,
		now:       time.Now,
		hashCost:  bcrypt.DefaultCost,
	}
}

// Create da de alta un tenant. Devuelve domain.ErrDuplicate si el código ya existe.
func (uc *CompanyUseCase) Create(ctx context.Context, sc authz.Scope, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := requirePlatform(sc); err != nil {
		return nil, err
	}
	code := strings.ToLower(strings.TrimSpace(in.Code))
	var fields []string
	if code == "" {
		fields = append(fields, "code")
	}
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, "name")
	}
	if err := license.ValidateDuration(in.DurationValue, in.DurationUnit); err != nil {
		fields = append(fields, validationFields(err)...)
	}
	enabled, bad := enabledSet(in.Modules)
	fields = append(fields, bad...)
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	now := uc.now()
	company := &entity.Company{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         strings.TrimSpace(in.Name),
		IsActive:     true,
		MaxEmployees: in.MaxEmployees,
		MaxBranches:  in.MaxBranches,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	end, err := license.EndDate(now, in.DurationValue, in.DurationUnit)
	if err != nil {
		return nil, err
	}
	lic := &entity.License{
		CompanyID:     company.ID,
		StartDate:     now,
		DurationValue: in.DurationValue,
		DurationUnit:  in.DurationUnit,
		EndDate:       end,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	rows := make([]*entity.CompanyModule, 0, len(entity.KnownModules))
	for _, m := range entity.KnownModules {
		rows = append(rows, &entity.CompanyModule{CompanyID: company.ID, ModuleName: m, IsEnabled: enabled[m], UpdatedAt: now})
	}
	admin, err := uc.initialAdmin(company.ID, in.Admin, now)
	if err != nil {
		return nil, err
	}

	err = uc.tx.RunCompanySetup(ctx, func(
		companies repository.CompanyRepository,
		licenses repository.LicenseRepository,
		modules repository.ModuleRepository,
		users repository.UserRepository,
	) error {
		if err := companies.Create(ctx, company); err != nil {
			return err
		}
		if err := licenses.Create(ctx, lic); err != nil {
			return err
		}
		if err := modules.UpsertCompanyModules(ctx, company.ID, rows); err != nil {
			return err
		}
		if admin != nil {
			return users.Create(ctx, admin)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("company_id", company.ID).
		Str("code", company.Code).
		Str("license_end", end.Format(time.DateOnly)).
		Bool("admin", admin != nil).
		Msg("empresa creada")
	out := toCompanyResponse(company)
	out.License = toLicenseResponse(lic, now)
	return out, nil
}

// GetByID obtiene una empresa con su licencia.
func (uc *CompanyUseCase) GetByID(ctx context.Context, sc authz.Scope, id string) (*dto.CompanyResponse, error) {
	if err := requirePlatform(sc); err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return uc.withLicense(ctx, company)
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, sc authz.Scope, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	if err := requirePlatform(sc); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.companies.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		r, err := uc.withLicense(ctx, c)
		if err != nil {
			return nil, err
		}
		items = append(items, *r)
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// SetStatus activa o desactiva la empresa. Una empresa inactiva no puede iniciar sesión.
func (uc *CompanyUseCase) SetStatus(ctx context.Context, sc authz.Scope, id string, active bool) (*dto.CompanyResponse, error) {
	if err := requirePlatform(sc); err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.companies.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	company.IsActive = active
	uc.log.Info().Str("company_id", id).Bool("is_active", active).Msg("estado de empresa actualizado")
	return uc.withLicense(ctx, company)
}

// SetModules activa o apaga módulos de la empresa. Apagar un módulo es el techo: los
// permisos de gerentes y empleados sobre él dejan de aplicar sin borrarse.
func (uc *CompanyUseCase) SetModules(ctx context.Context, sc authz.Scope, id string, items []dto.CompanyModuleItem) ([]dto.CompanyModuleItem, error) {
	if err := requirePlatform(sc); err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	rows := make([]*entity.CompanyModule, 0, len(items))
	var bad []string
	for _, it := range items {
		if !isKnownModule(it.ModuleName) {
			bad = append(bad, "modules."+it.ModuleName)
			continue
		}
		rows = append(rows, &entity.CompanyModule{CompanyID: id, ModuleName: it.ModuleName, IsEnabled: it.IsEnabled, UpdatedAt: now})
	}
	if len(bad) > 0 {
		return nil, domain.NewValidationError(bad...)
	}
	if err := uc.modules.UpsertCompanyModules(ctx, id, rows); err != nil {
		return nil, err
	}
	current, err := uc.modules.ListCompanyModules(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyModuleItem, 0, len(current))
	for _, m := range current {
		out = append(out, dto.CompanyModuleItem{ModuleName: m.ModuleName, IsEnabled: m.IsEnabled})
	}
	uc.log.Info().Str("company_id", id).Int("modules", len(rows)).Msg("módulos de empresa actualizados")
	return out, nil
}

func (uc *CompanyUseCase) withLicense(ctx context.Context, c *entity.Company) (*dto.CompanyResponse, error) {
	lic, err := uc.licenses.GetByCompany(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	out := toCompanyResponse(c)
	if lic != nil {
		out.License = toLicenseResponse(lic, uc.now())
	}
	return out, nil
}

func (uc *CompanyUseCase) initialAdmin(companyID string, in *dto.CreateAdminRequest, now time.Time) (*entity.User, error) {
	if in == nil {
		return nil, nil
	}
	email := identifier.Normalize(in.Email)
	var fields []string
	if identifier.Detect(email) != identifier.KindEmail {
		fields = append(fields, "admin.email")
	}
	if len(in.Password) < 8 {
		fields = append(fields, "admin.password")
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		ID:             uuid.New().String(),
		CompanyID:      &companyID,
		Name:           strings.TrimSpace(in.Name),
		Email:          &email,
		PasswordHash:   string(hash),
		Role:           entity.RoleCompanyAdmin,
		AttendanceMode: entity.AttendanceGeofencing,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// enabledSet módulos pedidos como habilitados y los nombres desconocidos.
func enabledSet(names []string) (map[string]bool, []string) {
	set := make(map[string]bool, len(names))
	var bad []string
	for _, n := range names {
		if !isKnownModule(n) {
			bad = append(bad, "modules."+n)
			continue
		}
		set[n] = true
	}
	return set, bad
}

func isKnownModule(name string) bool {
	return slices.Contains(entity.KnownModules, name)
}

func validationFields(err error) []string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		IsActive:     c.IsActive,
		MaxEmployees: c.MaxEmployees,
		MaxBranches:  c.MaxBranches,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
