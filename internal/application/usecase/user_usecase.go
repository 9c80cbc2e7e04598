package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/identifier"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// EmployeeUseCase alta y consulta de usuarios del tenant.
type EmployeeUseCase struct {
	users     repository.UserRepository
	branches  repository.BranchRepository
	companies repository.CompanyRepository
	log       *logger.Logger
	hashCost  int
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(
	users repository.UserRepository,
	branches repository.BranchRepository,
	companies repository.CompanyRepository,
	log *logger.Logger,
) *EmployeeUseCase {
	return &EmployeeUseCase{users: users, branches: branches, companies: companies, log: log, hashCost: bcrypt.DefaultCost}
}

// Create da de alta un usuario del tenant. Los identificadores se guardan normalizados;
// los cupos de la empresa y de la sucursal se verifican antes de insertar.
func (uc *EmployeeUseCase) Create(ctx context.Context, sc authz.Scope, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := requireCompanyAdmin(sc); err != nil {
		return nil, err
	}
	email := identifier.NormalizePtr(in.Email)
	phone := identifier.NormalizePtr(in.Phone)
	code := identifier.NormalizePtr(in.EmployeeCode)

	var fields []string
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, "name")
	}
	if email == nil && phone == nil && code == nil {
		fields = append(fields, "email", "phone", "employee_code")
	}
	if email != nil && identifier.Detect(*email) != identifier.KindEmail {
		fields = append(fields, "email")
	}
	if phone != nil && identifier.Detect(*phone) != identifier.KindPhone {
		fields = append(fields, "phone")
	}
	role, ok := authz.ParseRole(in.Role)
	if !ok || role.IsPlatform() {
		fields = append(fields, "role")
	}
	if in.Password != "" && len(in.Password) < 8 {
		fields = append(fields, "password")
	}
	mode := in.AttendanceMode
	if mode == "" {
		mode = entity.AttendanceGeofencing
	}
	if mode != entity.AttendanceGeofencing && mode != entity.AttendanceLocationTracking {
		fields = append(fields, "attendance_mode")
	}
	if role.IsBranchScoped() && (in.BranchID == nil || *in.BranchID == "") {
		fields = append(fields, "branch_id")
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	company, err := uc.companies.GetByID(ctx, sc.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	var branch *entity.Branch
	if in.BranchID != nil && *in.BranchID != "" {
		if branch, err = uc.branches.GetByID(ctx, *in.BranchID); err != nil {
			return nil, err
		}
		if branch == nil || branch.CompanyID != company.ID {
			return nil, domain.NewValidationError("branch_id")
		}
	}
	if err := uc.checkIdentifiersFree(ctx, company.ID, email, phone, code); err != nil {
		return nil, err
	}
	if err := uc.checkCapacity(ctx, company, branch); err != nil {
		return nil, err
	}

	hash := ""
	if in.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
		if err != nil {
			return nil, err
		}
		hash = string(h)
	}
	now := time.Now()
	companyID := company.ID
	u := &entity.User{
		ID:             uuid.New().String(),
		CompanyID:      &companyID,
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		Phone:          phone,
		EmployeeCode:   code,
		PasswordHash:   hash,
		Role:           role.String(),
		AttendanceMode: mode,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if branch != nil {
		branchID := branch.ID
		u.BranchID = &branchID
	}
	if err := uc.users.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("user_id", u.ID).
		Str("role", u.Role).
		Msg("usuario creado")
	return toEmployeeResponse(u), nil
}

// checkIdentifiersFree: login y OTP buscan el identificador en email, teléfono y código a
// la vez, así que cada llave nueva debe estar libre en las tres columnas de la empresa.
func (uc *EmployeeUseCase) checkIdentifiersFree(ctx context.Context, companyID string, email, phone, code *string) error {
	keys := []struct {
		value *string
		err   error
	}{
		{email, domain.ErrEmailAlreadyExists},
		{phone, domain.ErrPhoneAlreadyExists},
		{code, domain.ErrEmployeeCodeAlreadyExists},
	}
	for _, k := range keys {
		if k.value == nil {
			continue
		}
		matches, err := uc.users.FindByIdentifier(ctx, companyID, *k.value)
		if err != nil {
			return err
		}
		if len(matches) > 0 {
			return k.err
		}
	}
	return nil
}

// GetByID usuario visible para el llamador; fuera de su alcance → ErrNotFound.
func (uc *EmployeeUseCase) GetByID(ctx context.Context, sc authz.Scope, id string) (*dto.EmployeeResponse, error) {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Company() != sc.CompanyID {
		return nil, domain.ErrNotFound
	}
	switch sc.Role {
	case authz.RoleCompanyAdmin:
		return toEmployeeResponse(u), nil
	case authz.RoleBranchManager:
		if u.Branch() == sc.BranchID {
			return toEmployeeResponse(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

// List usuarios de la empresa; un gerente solo ve los de su sucursal.
func (uc *EmployeeUseCase) List(ctx context.Context, sc authz.Scope, page dto.PageRequest) (*dto.EmployeeListResponse, error) {
	branchID := ""
	switch sc.Role {
	case authz.RoleCompanyAdmin:
	case authz.RoleBranchManager:
		branchID = sc.BranchID
	default:
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.users.ListByCompany(ctx, sc.CompanyID, branchID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EmployeeResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toEmployeeResponse(u))
	}
	return &dto.EmployeeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// checkCapacity cupos max_employees de empresa y sucursal (0 = sin límite).
func (uc *EmployeeUseCase) checkCapacity(ctx context.Context, company *entity.Company, branch *entity.Branch) error {
	if company.MaxEmployees > 0 {
		n, err := uc.users.CountByCompany(ctx, company.ID)
		if err != nil {
			return err
		}
		if n >= company.MaxEmployees {
			return domain.ErrCapacityReached
		}
	}
	if branch != nil && branch.MaxEmployees > 0 {
		n, err := uc.users.CountByBranch(ctx, branch.ID)
		if err != nil {
			return err
		}
		if n >= branch.MaxEmployees {
			return domain.ErrCapacityReached
		}
	}
	return nil
}

func toEmployeeResponse(u *entity.User) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:             u.ID,
		CompanyID:      u.CompanyID,
		BranchID:       u.BranchID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		EmployeeCode:   u.EmployeeCode,
		Role:           u.Role,
		AttendanceMode: u.AttendanceMode,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
