package auth

import (
	"context"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/identifier"
	pkgjwt "github.com/jhoicas/Workforce-api/pkg/jwt"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// ScopeFromClaims convierte los claims verificados en un alcance tipado.
func ScopeFromClaims(c *pkgjwt.Claims) (authz.Scope, error) {
	role, ok := authz.ParseRole(c.Role)
	if !ok {
		return authz.Scope{}, domain.ErrUnauthorized
	}
	if !role.IsPlatform() && c.CompanyID == "" {
		return authz.Scope{}, domain.ErrUnauthorized
	}
	return authz.Scope{
		Subject:    c.Subject,
		Role:       role,
		CompanyID:  c.CompanyID,
		BranchID:   c.BranchID,
		BranchName: c.BranchName,
		UserID:     c.UserID,
	}, nil
}

// ScopeResolver completa la identidad interna cuando el token no la trae.
type ScopeResolver struct {
	users repository.UserRepository
	log   *logger.Logger
}

// NewScopeResolver construye el resolver.
func NewScopeResolver(users repository.UserRepository, log *logger.Logger) *ScopeResolver {
	return &ScopeResolver{users: users, log: log}
}

// ResolveIdentity devuelve el ID interno del usuario del token o "" si no se puede
// determinar sin ambigüedad. La búsqueda nunca sale de la empresa del token.
func (r *ScopeResolver) ResolveIdentity(ctx context.Context, sc authz.Scope) (string, error) {
	if sc.UserID != "" {
		return sc.UserID, nil
	}
	key := identifier.Normalize(sc.Subject)
	if key == "" {
		return "", nil
	}
	matches, err := r.users.FindByIdentifier(ctx, sc.CompanyID, key)
	if err != nil {
		return "", err
	}
	if len(matches) != 1 {
		r.log.Debug().
			Str("company_id", sc.CompanyID).
			Int("matches", len(matches)).
			Msg("identidad no resuelta")
		return "", nil
	}
	if matches[0].Company() != sc.CompanyID {
		return "", nil
	}
	return matches[0].ID, nil
}
