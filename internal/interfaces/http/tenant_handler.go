package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Workforce-api/internal/application/access"
	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/usecase"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// TenantHandler administración dentro de la empresa: módulos, sucursales, empleados y permisos.
type TenantHandler struct {
	access    *access.Service
	branches  *usecase.BranchUseCase
	employees *usecase.EmployeeUseCase
	log       *logger.Logger
}

// NewTenantHandler construye el handler.
func NewTenantHandler(acc *access.Service, branches *usecase.BranchUseCase, employees *usecase.EmployeeUseCase, log *logger.Logger) *TenantHandler {
	return &TenantHandler{access: acc, branches: branches, employees: employees, log: log}
}

// Modules godoc
// @Summary      Módulos efectivos del usuario autenticado
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.ModuleResponse
// @Router       /api/company/modules [get]
func (h *TenantHandler) Modules(c *fiber.Ctx) error {
	out, err := h.access.EffectiveModules(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListBranches godoc
// @Summary      Listar sucursales
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.BranchResponse
// @Router       /api/company/branches [get]
func (h *TenantHandler) ListBranches(c *fiber.Ctx) error {
	out, err := h.branches.List(c.UserContext(), GetScope(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateBranch godoc
// @Summary      Crear sucursal
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateBranchRequest  true  "Datos de la sucursal"
// @Success      201   {object}  dto.BranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/company/branches [post]
func (h *TenantHandler) CreateBranch(c *fiber.Ctx) error {
	var in dto.CreateBranchRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.branches.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateBranch godoc
// @Summary      Actualizar sucursal
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID de la sucursal"
// @Param        body  body  dto.UpdateBranchRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/company/branches/{id} [patch]
func (h *TenantHandler) UpdateBranch(c *fiber.Ctx) error {
	var in dto.UpdateBranchRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.branches.Update(c.UserContext(), GetScope(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListEmployees godoc
// @Summary      Listar empleados
// @Description  Los gerentes solo ven su sucursal.
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Límite (máx 100)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.EmployeeListResponse
// @Router       /api/company/employees [get]
func (h *TenantHandler) ListEmployees(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.employees.List(c.UserContext(), GetScope(c), page)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateEmployee godoc
// @Summary      Crear empleado
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateEmployeeRequest  true  "Datos del empleado"
// @Success      201   {object}  dto.EmployeeResponse
// @Failure      400   {object}  dto.ErrorResponse  "validación, identificador duplicado o capacidad"
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/company/employees [post]
func (h *TenantHandler) CreateEmployee(c *fiber.Ctx) error {
	var in dto.CreateEmployeeRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.employees.Create(c.UserContext(), GetScope(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetEmployee godoc
// @Summary      Obtener empleado
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del empleado"
// @Success      200  {object}  dto.EmployeeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company/employees/{id} [get]
func (h *TenantHandler) GetEmployee(c *fiber.Ctx) error {
	out, err := h.employees.GetByID(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// EmployeeModules godoc
// @Summary      Permisos de un empleado por módulo
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del empleado"
// @Success      200  {array}  dto.EmployeeModuleItem
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company/employees/{id}/modules [get]
func (h *TenantHandler) EmployeeModules(c *fiber.Ctx) error {
	out, err := h.access.EmployeeModules(c.UserContext(), GetScope(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ReplaceEmployeeModules godoc
// @Summary      Reemplazar permisos de un empleado
// @Description  Reemplazo atómico; ningún módulo puede superar la activación de la empresa.
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                             true  "ID del empleado"
// @Param        body  body  dto.ReplaceEmployeeModulesRequest  true  "módulos"
// @Success      200   {array}   dto.EmployeeModuleItem
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/company/employees/{id}/modules [put]
func (h *TenantHandler) ReplaceEmployeeModules(c *fiber.Ctx) error {
	var in dto.ReplaceEmployeeModulesRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.access.ReplaceEmployeeModules(c.UserContext(), GetScope(c), c.Params("id"), in.Modules)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ManagerModules godoc
// @Summary      Permisos de un gerente de sucursal por módulo
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  string  true  "ID de la sucursal"
// @Param        managerId  path  string  true  "ID del gerente"
// @Success      200  {array}  dto.ManagerModuleItem
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company/branches/{id}/managers/{managerId}/modules [get]
func (h *TenantHandler) ManagerModules(c *fiber.Ctx) error {
	out, err := h.access.ManagerModules(c.UserContext(), GetScope(c), c.Params("id"), c.Params("managerId"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ReplaceManagerModules godoc
// @Summary      Reemplazar permisos de un gerente de sucursal
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path  string                            true  "ID de la sucursal"
// @Param        managerId  path  string                            true  "ID del gerente"
// @Param        body       body  dto.ReplaceManagerModulesRequest  true  "módulos"
// @Success      200   {array}   dto.ManagerModuleItem
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/company/branches/{id}/managers/{managerId}/modules [put]
func (h *TenantHandler) ReplaceManagerModules(c *fiber.Ctx) error {
	var in dto.ReplaceManagerModulesRequest
	if err := bindBody(c, &in); err != nil {
		return fail(c, h.log, err)
	}
	out, err := h.access.ReplaceManagerModules(c.UserContext(), GetScope(c), c.Params("id"), c.Params("managerId"), in.Modules)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
