package repository

import (
	"context"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// UserRepository es el almacén de credenciales (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// FindByIdentifier busca por email, teléfono o código de empleado ya normalizado.
	// companyID vacío limita la búsqueda a operadores de plataforma (company_id IS NULL).
	// Devuelve todas las coincidencias para que el llamador detecte ambigüedad.
	FindByIdentifier(ctx context.Context, companyID, identifier string) ([]*entity.User, error)
	// ListByCompany lista usuarios; branchID vacío = todas las sucursales.
	ListByCompany(ctx context.Context, companyID, branchID string, limit, offset int) ([]*entity.User, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	CountByBranch(ctx context.Context, branchID string) (int, error)
}
