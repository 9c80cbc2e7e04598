package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// BranchUseCase sucursales del tenant.
type BranchUseCase struct {
	branches  repository.BranchRepository
	companies repository.CompanyRepository
	log       *logger.Logger
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(branches repository.BranchRepository, companies repository.CompanyRepository, log *logger.Logger) *BranchUseCase {
	return &BranchUseCase{branches: branches, companies: companies, log: log}
}

// Create crea una sucursal respetando el máximo de sucursales de la empresa.
func (uc *BranchUseCase) Create(ctx context.Context, sc authz.Scope, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if err := requireCompanyAdmin(sc); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name")
	}
	if in.MaxEmployees < 0 {
		return nil, domain.NewValidationError("max_employees")
	}
	company, err := uc.companies.GetByID(ctx, sc.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if company.MaxBranches > 0 {
		n, err := uc.branches.CountByCompany(ctx, company.ID)
		if err != nil {
			return nil, err
		}
		if n >= company.MaxBranches {
			return nil, domain.ErrCapacityReached
		}
	}

	now := time.Now()
	b := &entity.Branch{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Name:         name,
		Address:      strings.TrimSpace(in.Address),
		IsActive:     true,
		MaxEmployees: in.MaxEmployees,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.branches.Create(ctx, b); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", b.CompanyID).Str("branch_id", b.ID).Msg("sucursal creada")
	return toBranchResponse(b), nil
}

// Update actualiza los campos enviados. Desactivar la sucursal bloquea el login de su personal.
func (uc *BranchUseCase) Update(ctx context.Context, sc authz.Scope, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if err := requireCompanyAdmin(sc); err != nil {
		return nil, err
	}
	b, err := uc.load(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name")
		}
		b.Name = name
	}
	if in.Address != nil {
		b.Address = strings.TrimSpace(*in.Address)
	}
	if in.MaxEmployees != nil {
		if *in.MaxEmployees < 0 {
			return nil, domain.NewValidationError("max_employees")
		}
		b.MaxEmployees = *in.MaxEmployees
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	b.UpdatedAt = time.Now()
	if err := uc.branches.Update(ctx, b); err != nil {
		return nil, err
	}
	return toBranchResponse(b), nil
}

// List sucursales visibles: todas para el company_admin, la propia para un gerente.
func (uc *BranchUseCase) List(ctx context.Context, sc authz.Scope) ([]dto.BranchResponse, error) {
	switch sc.Role {
	case authz.RoleCompanyAdmin:
		list, err := uc.branches.ListByCompany(ctx, sc.CompanyID)
		if err != nil {
			return nil, err
		}
		out := make([]dto.BranchResponse, 0, len(list))
		for _, b := range list {
			out = append(out, *toBranchResponse(b))
		}
		return out, nil
	case authz.RoleBranchManager:
		b, err := uc.load(ctx, sc, sc.BranchID)
		if err != nil {
			return nil, err
		}
		return []dto.BranchResponse{*toBranchResponse(b)}, nil
	}
	return nil, domain.ErrForbidden
}

func (uc *BranchUseCase) load(ctx context.Context, sc authz.Scope, id string) (*entity.Branch, error) {
	b, err := uc.branches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil || b.CompanyID != sc.CompanyID {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:           b.ID,
		CompanyID:    b.CompanyID,
		Name:         b.Name,
		Address:      b.Address,
		IsActive:     b.IsActive,
		MaxEmployees: b.MaxEmployees,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
