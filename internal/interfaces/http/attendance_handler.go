package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Workforce-api/internal/application/attendance"
	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// AttendanceHandler check-in/out, estado, historial y reporte.
type AttendanceHandler struct {
	uc  *attendance.UseCase
	log *logger.Logger
}

// NewAttendanceHandler construye el handler.
func NewAttendanceHandler(uc *attendance.UseCase, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{uc: uc, log: log}
}

// CheckIn godoc
// @Summary      Registrar entrada
// @Description  La geocerca se evalúa y se guarda, pero no bloquea el registro.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.LocationRequest  true  "latitude, longitude"
// @Success      201   {object}  dto.CheckInResponse
// @Failure      400   {object}  dto.ErrorResponse  "coordenadas inválidas o ya hay entrada abierta"
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/attendance/checkin [post]
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	var in dto.LocationRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.CheckIn(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CheckOut godoc
// @Summary      Registrar salida
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.LocationRequest  true  "latitude, longitude"
// @Success      200   {object}  dto.CheckOutResponse
// @Failure      400   {object}  dto.ErrorResponse  "coordenadas inválidas o sin entrada abierta"
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/attendance/checkout [post]
func (h *AttendanceHandler) CheckOut(c *fiber.Ctx) error {
	var in dto.LocationRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.CheckOut(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Status godoc
// @Summary      Estado de asistencia de un empleado
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId  path  string  true  "ID del empleado"
// @Success      200  {object}  dto.AttendanceStatusResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/attendance/status/{employeeId} [get]
func (h *AttendanceHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.UserContext(), GetScope(c), c.Params("employeeId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de asistencia
// @Description  Sin rango devuelve los últimos 30 días.
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId  path   string  true   "ID del empleado"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD"
// @Param        limit       query  int     false  "Límite (máx 100)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.AttendanceHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/attendance/history/{employeeId} [get]
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	var q dto.HistoryQuery
	if err := bindQuery(c, &q); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.History(c.UserContext(), GetScope(c), c.Params("employeeId"), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF del historial de asistencia
// @Tags         attendance
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        employeeId  path   string  true   "ID del empleado"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/attendance/history/{employeeId}/report [get]
func (h *AttendanceHandler) Report(c *fiber.Ctx) error {
	var q dto.HistoryQuery
	if err := bindQuery(c, &q); err != nil {
		return fail(c, h.log, err)
	}
	pdf, name, err := h.uc.Report(c.UserContext(), GetScope(c), c.Params("employeeId"), q)
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(pdf)
}

// ZoneHandler administración de zonas de geocerca.
type ZoneHandler struct {
	uc  *attendance.ZoneUseCase
	log *logger.Logger
}

// NewZoneHandler construye el handler.
func NewZoneHandler(uc *attendance.ZoneUseCase, log *logger.Logger) *ZoneHandler {
	return &ZoneHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar zonas visibles
// @Tags         geofence
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.ZoneResponse
// @Router       /api/attendance/geofence/zones [get]
func (h *ZoneHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear zona
// @Description  Un gerente solo crea zonas de su propia sucursal.
// @Tags         geofence
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ZoneRequest  true  "Datos de la zona"
// @Success      201   {object}  dto.ZoneResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/attendance/geofence/zones [post]
func (h *ZoneHandler) Create(c *fiber.Ctx) error {
	var in dto.ZoneRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar zona
// @Tags         geofence
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string           true  "ID de la zona"
// @Param        body  body  dto.ZoneRequest  true  "Datos de la zona"
// @Success      200   {object}  dto.ZoneResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/attendance/geofence/zones/{id} [put]
func (h *ZoneHandler) Update(c *fiber.Ctx) error {
	var in dto.ZoneRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar zona
// @Tags         geofence
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la zona"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/attendance/geofence/zones/{id} [delete]
func (h *ZoneHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetScope(c), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
