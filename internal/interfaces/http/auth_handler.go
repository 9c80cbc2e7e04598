package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Workforce-api/internal/application/auth"
	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// otpRequestedMessage igual exista o no el identificador.
const otpRequestedMessage = "si el identificador está registrado, se envió un código"

// AuthHandler login master, login de empresa, códigos de un solo uso y refresh.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	otp *auth.OTPService
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, otp *auth.OTPService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, otp: otp, log: log}
}

// MasterLogin godoc
// @Summary      Login de operador de plataforma
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MasterLoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/master/login [post]
func (h *AuthHandler) MasterLogin(c *fiber.Ctx) error {
	var in dto.MasterLoginRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.MasterLogin(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CompanyLogin godoc
// @Summary      Login de usuario de empresa
// @Description  username acepta email, teléfono o código de empleado.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyLoginRequest  true  "company_code, username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "empresa inactiva o licencia vencida (remaining_days)"
// @Router       /api/company/login [post]
func (h *AuthHandler) CompanyLogin(c *fiber.Ctx) error {
	var in dto.CompanyLoginRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.CompanyLogin(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RequestOTP godoc
// @Summary      Solicitar código de un solo uso
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestOTPRequest  true  "company_code, identifier"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/request-otp [post]
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var in dto.RequestOTPRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	if err := h.otp.RequestCode(c.UserContext(), in); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: otpRequestedMessage})
}

// VerifyOTP godoc
// @Summary      Canjear código de un solo uso por tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyOTPRequest  true  "company_code, identifier, code"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var in dto.VerifyOTPRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.otp.VerifyCode(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Renovar tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refresh_token"
// @Success      200   {object}  dto.TokenPair
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.Refresh(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
