package usecase

import (
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
)

func requirePlatform(sc authz.Scope) error {
	if !sc.Role.IsPlatform() {
		return domain.ErrForbidden
	}
	return nil
}

func requireCompanyAdmin(sc authz.Scope) error {
	if sc.Role != authz.RoleCompanyAdmin || sc.CompanyID == "" {
		return domain.ErrForbidden
	}
	return nil
}
