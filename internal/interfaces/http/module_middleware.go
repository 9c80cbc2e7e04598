package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Workforce-api/internal/application/access"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// ModuleGate decide el acceso a un módulo. Lo implementa *access.Service.
type ModuleGate interface {
	Authorize(ctx context.Context, sc authz.Scope, module string, action authz.Action, res access.Resource) error
}

// IdentityResolver completa el user_id de los tokens que no lo traen. Lo implementa *auth.ScopeResolver.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, sc authz.Scope) (string, error)
}

// RequireModule verifica que el llamador pueda ejecutar action sobre module en su propio
// alcance. Debe usarse DESPUÉS de AuthMiddleware. Los módulos colaboradores lo montan igual.
//
// Tokens de sucursal sin user_id se resuelven primero por subject; si no hay un usuario
// único en la empresa del token → 401.
func RequireModule(module string, action authz.Action, gate ModuleGate, identity IdentityResolver, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sc := GetScope(c)
		if sc.Role == authz.RoleUnknown {
			return respondError(c, log, domain.ErrUnauthorized)
		}
		if sc.UserID == "" && sc.Role.IsBranchScoped() && identity != nil {
			id, err := identity.ResolveIdentity(c.UserContext(), sc)
			if err != nil {
				return respondError(c, log, err)
			}
			if id == "" {
				return respondError(c, log, domain.ErrUnauthorized)
			}
			sc.UserID = id
			setScope(c, sc)
		}

		res := access.Resource{CompanyID: sc.CompanyID, BranchID: sc.BranchID}
		if err := gate.Authorize(c.UserContext(), sc, module, action, res); err != nil {
			return respondError(c, log, err)
		}
		return c.Next()
	}
}
