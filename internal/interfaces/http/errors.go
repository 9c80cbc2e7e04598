package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// conflictCodes códigos estables para los conflictos conocidos.
var conflictCodes = []struct {
	err  error
	code string
}{
	{domain.ErrAlreadyCheckedIn, "ALREADY_CHECKED_IN"},
	{domain.ErrNoActiveCheckIn, "NO_ACTIVE_CHECK_IN"},
	{domain.ErrDayClosed, "DAY_CLOSED"},
	{domain.ErrEmailAlreadyExists, "EMAIL_EXISTS"},
	{domain.ErrPhoneAlreadyExists, "PHONE_EXISTS"},
	{domain.ErrEmployeeCodeAlreadyExists, "EMPLOYEE_CODE_EXISTS"},
	{domain.ErrBranchNameExists, "BRANCH_NAME_EXISTS"},
	{domain.ErrCapacityReached, "CAPACITY_REACHED"},
	{domain.ErrDuplicate, "DUPLICATE"},
}

// respondError traduce un error de aplicación a la respuesta HTTP. Todo error queda
// en el log; el detalle de fallas de infraestructura no sale en la respuesta.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := errorResponse(err)
	ev := log.Warn()
	msg := "solicitud rechazada"
	if status >= fiber.StatusInternalServerError {
		ev = log.Error()
		msg = "error interno"
	}
	ev.Err(err).
		Int("status", status).
		Str("code", body.Code).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", requestID(c)).
		Msg(msg)
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var vErr *domain.ValidationError
	var licErr *domain.LicenseExpiredError

	switch {
	case errors.As(err, &vErr):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida", Fields: vErr.Fields}
	case errors.As(err, &licErr):
		days := licErr.RemainingDays
		return fiber.StatusForbidden, dto.ErrorResponse{
			Code: "LICENSE_INVALID", Message: "la licencia de la empresa está vencida o inactiva", RemainingDays: &days,
		}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "entrada inválida"}
	case errors.Is(err, domain.ErrConflict):
		code := "CONFLICT"
		for _, cc := range conflictCodes {
			if errors.Is(err, cc.err) {
				code = cc.code
				break
			}
		}
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: code, Message: conflictMessage(err)}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// conflictMessage el texto del sentinel concreto sin el prefijo genérico.
func conflictMessage(err error) string {
	for _, cc := range conflictCodes {
		if errors.Is(err, cc.err) {
			msg := cc.err.Error()
			prefix := domain.ErrConflict.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return domain.ErrConflict.Error()
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
