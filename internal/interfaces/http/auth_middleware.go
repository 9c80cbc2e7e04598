package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
)

// Locals keys del alcance autenticado en Fiber.
const (
	LocalScope     = "scope"
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
)

// TokenVerifier valida un access token. Lo implementa *auth.TokenIssuer.
type TokenVerifier interface {
	Verify(token string) (authz.Scope, error)
}

// AuthMiddleware valida el Bearer Token y deja el alcance en c.Locals.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		sc, err := verifier.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		setScope(c, sc)
		return c.Next()
	}
}

func setScope(c *fiber.Ctx, sc authz.Scope) {
	c.Locals(LocalScope, sc)
	c.Locals(LocalUserID, sc.UserID)
	c.Locals(LocalCompanyID, sc.CompanyID)
	c.Locals(LocalRole, sc.Role.String())
}

// GetScope devuelve el alcance del token (después del middleware de auth).
func GetScope(c *fiber.Ctx) authz.Scope {
	sc, _ := c.Locals(LocalScope).(authz.Scope)
	return sc
}

// GetUserID devuelve el UserID del contexto; vacío en tokens de empleado sin resolver.
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del contexto.
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...authz.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sc := GetScope(c)
		if sc.Role == authz.RoleUnknown {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
		}
		for _, r := range roles {
			if sc.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
	}
}
