package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/usecase"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// CompanyHandler superficie del operador de plataforma: empresas, módulos y licencias.
type CompanyHandler struct {
	uc       *usecase.CompanyUseCase
	licenses *usecase.LicenseUseCase
	log      *logger.Logger
}

// NewCompanyHandler construye el handler inyectando los casos de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, licenses *usecase.LicenseUseCase, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, licenses: licenses, log: log}
}

// Create godoc
// @Summary      Crear empresa con licencia y módulos
// @Tags         master
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCompanyRequest  true  "Datos de la empresa"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/master/companies [post]
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCompanyRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener empresa por ID
// @Tags         master
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/master/companies/{id} [get]
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas
// @Tags         master
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Límite (máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.CompanyListResponse
// @Router       /api/master/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), GetScope(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Activar o desactivar empresa
// @Tags         master
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                       true  "ID de la empresa"
// @Param        body  body  dto.SetCompanyStatusRequest  true  "is_active"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/master/companies/{id}/status [patch]
func (h *CompanyHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetCompanyStatusRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.SetStatus(c.UserContext(), GetScope(c), c.Params("id"), *in.IsActive)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetModules godoc
// @Summary      Activar o desactivar módulos de la empresa
// @Tags         master
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                        true  "ID de la empresa"
// @Param        body  body  dto.SetCompanyModulesRequest  true  "módulos"
// @Success      200   {array}   dto.CompanyModuleItem
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/master/companies/{id}/modules [put]
func (h *CompanyHandler) SetModules(c *fiber.Ctx) error {
	var in dto.SetCompanyModulesRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.uc.SetModules(c.UserContext(), GetScope(c), c.Params("id"), in.Modules)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetLicense godoc
// @Summary      Estado de la licencia
// @Tags         master
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.LicenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/master/companies/{id}/license [get]
func (h *CompanyHandler) GetLicense(c *fiber.Ctx) error {
	out, err := h.licenses.Get(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// RenewLicense godoc
// @Summary      Renovar licencia
// @Description  La renovación corre desde el mayor entre el fin actual y hoy.
// @Tags         master
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID de la empresa"
// @Param        body  body  dto.RenewLicenseRequest  true  "duration_value, duration_unit"
// @Success      200   {object}  dto.LicenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/master/companies/{id}/license/renew [post]
func (h *CompanyHandler) RenewLicense(c *fiber.Ctx) error {
	var in dto.RenewLicenseRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.licenses.Renew(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
