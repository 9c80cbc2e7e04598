package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContadoresDeNegocio(t *testing.T) {
	p := New("workforce-test")
	p.LoginAttempt("password", "success")
	p.LoginAttempt("password", "success")
	p.LoginAttempt("otp", "invalid_code")
	p.AuthorizationDenied("payroll", "module_disabled")
	p.AttendanceRecorded("check_in", "inside")

	assert.Equal(t, 2.0, testutil.ToFloat64(p.logins.WithLabelValues("password", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.logins.WithLabelValues("otp", "invalid_code")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.denials.WithLabelValues("payroll", "module_disabled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.attendance.WithLabelValues("check_in", "inside")))
}

func TestMiddleware_UsaRutaDeclarada(t *testing.T) {
	p := New("workforce-test")
	app := fiber.New()
	app.Use(p.Middleware())
	app.Get("/zones/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/zones/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(p.requests.WithLabelValues("workforce-test", "GET", "/zones/:id", "204")))
}

func TestDosInstanciasNoChocan(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New("a")
		_ = New("b")
	})
}
