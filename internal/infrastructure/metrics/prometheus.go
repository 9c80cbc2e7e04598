// Package metrics expone contadores de negocio y de HTTP en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Workforce-api/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus implementa ports.Metrics sobre un registro propio (no el global),
// así cada instancia y cada test parte de cero.
type Prometheus struct {
	registry *prometheus.Registry

	logins      *prometheus.CounterVec
	denials     *prometheus.CounterVec
	attendance  *prometheus.CounterVec
	requests    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	serviceName string
}

// New registra los colectores bajo el nombre de servicio dado.
func New(serviceName string) *Prometheus {
	p := &Prometheus{
		registry:    prometheus.NewRegistry(),
		serviceName: serviceName,
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workforce_login_attempts_total",
				Help: "Intentos de login por tipo y resultado",
			},
			[]string{"kind", "outcome"},
		),
		denials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workforce_authorization_denied_total",
				Help: "Denegaciones de la compuerta de permisos por módulo y motivo",
			},
			[]string{"module", "reason"},
		),
		attendance: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workforce_attendance_events_total",
				Help: "Check-in y check-out registrados por clasificación de geocerca",
			},
			[]string{"action", "geofence"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		durations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
	}
	p.registry.MustRegister(
		p.logins, p.denials, p.attendance, p.requests, p.durations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

func (p *Prometheus) LoginAttempt(kind, outcome string) {
	p.logins.WithLabelValues(kind, outcome).Inc()
}

func (p *Prometheus) AuthorizationDenied(module, reason string) {
	p.denials.WithLabelValues(module, reason).Inc()
}

func (p *Prometheus) AttendanceRecorded(action, geofence string) {
	p.attendance.WithLabelValues(action, geofence).Inc()
}

// Middleware registra conteo y duración de cada petición. Usa la ruta declarada
// (no la URL) para no disparar la cardinalidad con IDs.
func (p *Prometheus) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		path := c.Route().Path
		labels := []string{p.serviceName, c.Method(), path, strconv.Itoa(status)}
		p.requests.WithLabelValues(labels...).Inc()
		p.durations.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone el registro para /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry acceso directo al registro (tests).
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }
