package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas). La capa HTTP mapea cada
// familia a un código estable; el detalle queda en los logs.
var (
	ErrUnauthorized   = errors.New("no autenticado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrInfrastructure = errors.New("fallo de infraestructura")
	ErrLicenseExpired = errors.New("licencia vencida o inactiva")
)

// Conflictos concretos.
var (
	ErrDuplicate                 = fmt.Errorf("%w: recurso duplicado", ErrConflict)
	ErrEmailAlreadyExists        = fmt.Errorf("%w: el email ya está registrado", ErrConflict)
	ErrPhoneAlreadyExists        = fmt.Errorf("%w: el teléfono ya está registrado", ErrConflict)
	ErrEmployeeCodeAlreadyExists = fmt.Errorf("%w: el código de empleado ya está registrado", ErrConflict)
	ErrBranchNameExists          = fmt.Errorf("%w: ya existe una sucursal con ese nombre", ErrConflict)
	ErrCapacityReached           = fmt.Errorf("%w: límite de capacidad alcanzado", ErrConflict)
	ErrAlreadyCheckedIn          = fmt.Errorf("%w: ya existe un check-in abierto hoy", ErrConflict)
	ErrNoActiveCheckIn           = fmt.Errorf("%w: no hay check-in activo hoy", ErrConflict)
	ErrDayClosed                 = fmt.Errorf("%w: la jornada de hoy ya fue cerrada", ErrConflict)
)

// ValidationError lista los campos que faltan o están mal formados.
type ValidationError struct {
	Fields []string
}

// NewValidationError construye el error con los campos indicados.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "entrada inválida: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// LicenseExpiredError es el único error de autorización que expone detalle:
// los días restantes le sirven al administrador del tenant.
type LicenseExpiredError struct {
	RemainingDays int
}

func (e *LicenseExpiredError) Error() string {
	return fmt.Sprintf("licencia vencida o inactiva (días restantes: %d)", e.RemainingDays)
}

func (e *LicenseExpiredError) Unwrap() error { return ErrLicenseExpired }

// Infra envuelve un error de almacenamiento como ErrInfrastructure conservando la causa.
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrInfrastructure, err)
}
