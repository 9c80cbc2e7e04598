package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Workforce-api/internal/application/auth"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	apphttp "github.com/jhoicas/Workforce-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Workforce-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testBranchID  = "00000000-0000-0000-0000-000000000003"
	testIssuer    = "workforce-test"
	testExpMin    = 60
)

func testVerifier() *auth.TokenIssuer {
	return auth.NewTokenIssuer(auth.TokenConfig{Secret: testJWTSecret, Issuer: testIssuer, AccessMinutes: testExpMin})
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el token y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...authz.Role) *fiber.App {
	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testVerifier()),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un access token con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.GenerateAccess(testJWTSecret, testIssuer, testExpMin, pkgjwt.Scope{
		Subject:   "user@acme.co",
		Role:      role,
		CompanyID: testCompanyID,
		BranchID:  testBranchID,
		UserID:    testUserID,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminDeEmpresaAccede(t *testing.T) {
	app := buildTestApp(authz.RoleCompanyAdmin)
	resp := doRequest(t, app, tokenForRole(t, "company_admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "company_admin", body["role"])
}

// "manager" es alias de branch_manager.
func TestRequireRole_AliasManager(t *testing.T) {
	app := buildTestApp(authz.RoleCompanyAdmin, authz.RoleBranchManager)
	resp := doRequest(t, app, tokenForRole(t, "manager"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_EmpleadoBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(authz.RoleCompanyAdmin)
	resp := doRequest(t, app, tokenForRole(t, "employee"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_MasterNoEsTenant(t *testing.T) {
	app := buildTestApp(authz.RoleCompanyAdmin, authz.RoleBranchManager, authz.RoleEmployee)
	resp := doRequest(t, app, tokenForRole(t, "master"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Un rol desconocido invalida el token completo.
func TestRequireRole_RolDesconocido_Retorna401(t *testing.T) {
	app := buildTestApp(authz.RoleCompanyAdmin)
	resp := doRequest(t, app, tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(authz.RoleCompanyAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestRequireRole_FormatoInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(authz.RoleCompanyAdmin)
	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(authz.RoleCompanyAdmin)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_RefreshNoSirveComoAccess(t *testing.T) {
	tok, err := pkgjwt.GenerateRefresh(testJWTSecret, testIssuer, 1, testUserID)
	require.NoError(t, err)

	app := buildTestApp(authz.RoleCompanyAdmin)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_FirmaAjena_Retorna401(t *testing.T) {
	tok, err := pkgjwt.GenerateAccess("otro-secret-completamente-distinto", testIssuer, testExpMin, pkgjwt.Scope{
		Role: "company_admin", CompanyID: testCompanyID, UserID: testUserID,
	})
	require.NoError(t, err)

	app := buildTestApp(authz.RoleCompanyAdmin)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extracción del alcance
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeAlcance(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testVerifier()), func(c *fiber.Ctx) error {
		sc := apphttp.GetScope(c)
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
			"branch_id":  sc.BranchID,
			"subject":    sc.Subject,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "branch_manager"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, "branch_manager", body["role"])
	assert.Equal(t, testBranchID, body["branch_id"])
	assert.Equal(t, "user@acme.co", body["subject"])
}
