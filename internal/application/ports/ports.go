// Package ports define contratos que la capa de aplicación necesita de la infraestructura
// y que no son repositorios (métricas, envío de códigos, render de reportes).
package ports

import (
	"context"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// Metrics contadores de negocio. La implementación real es Prometheus.
type Metrics interface {
	LoginAttempt(kind, outcome string)
	AuthorizationDenied(module, reason string)
	AttendanceRecorded(action, geofence string)
}

// NopMetrics descarta todo; útil en tests y herramientas.
type NopMetrics struct{}

func (NopMetrics) LoginAttempt(string, string)        {}
func (NopMetrics) AuthorizationDenied(string, string) {}
func (NopMetrics) AttendanceRecorded(string, string)  {}

// CodeSender entrega un código de un solo uso al usuario (SMS, email, log...).
type CodeSender interface {
	SendCode(ctx context.Context, user *entity.User, identifier, code string) error
}

// AttendanceReport datos listos para renderizar el reporte de asistencia.
type AttendanceReport struct {
	CompanyName  string
	EmployeeName string
	EmployeeKey  string
	From, To     string
	Timezone     string
	Logs         []*entity.AttendanceLog
}

// AttendanceReportRenderer genera el documento (PDF) del historial.
type AttendanceReportRenderer interface {
	RenderAttendance(ctx context.Context, report AttendanceReport) ([]byte, error)
}
