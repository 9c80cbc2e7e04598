// Package scheduler tareas periódicas del proceso (robfig/cron).
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// Expresiones por defecto.
const (
	PurgeSpec        = "@every 10m"
	LicenseSweepSpec = "5 0 * * *" // 00:05 en la zona del scheduler
	licenseWindow    = 7 * 24 * time.Hour
	jobTimeout       = time.Minute
)

// CodePurger borra códigos de un solo uso vencidos (solo el almacén Postgres lo necesita).
type CodePurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// LicenseSweeper avisa de licencias que vencen dentro de la ventana.
type LicenseSweeper interface {
	WarnExpiring(ctx context.Context, window time.Duration) (int, error)
}

// Scheduler envoltura de cron con logging por tarea.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New crea el scheduler en la zona indicada; no arranca hasta Start.
func New(loc *time.Location, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cron.DiscardLogger))),
		log:  log.Component("scheduler"),
	}
}

// Register agrega las tareas. purger puede ser nil (almacén con TTL nativo).
func (s *Scheduler) Register(purger CodePurger, sweeper LicenseSweeper) error {
	if purger != nil {
		if _, err := s.cron.AddFunc(PurgeSpec, func() { s.purge(purger) }); err != nil {
			return err
		}
	}
	if sweeper != nil {
		if _, err := s.cron.AddFunc(LicenseSweepSpec, func() { s.sweep(sweeper) }); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) purge(p CodePurger) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	n, err := p.PurgeExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("job", "otp_purge").Msg("fallo al purgar códigos")
		return
	}
	s.log.Debug().Str("job", "otp_purge").Int64("deleted", n).Msg("códigos vencidos purgados")
}

func (s *Scheduler) sweep(w LicenseSweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	n, err := w.WarnExpiring(ctx, licenseWindow)
	if err != nil {
		s.log.Error().Err(err).Str("job", "license_sweep").Msg("fallo al revisar licencias")
		return
	}
	s.log.Info().Str("job", "license_sweep").Int("expiring", n).Msg("revisión de licencias")
}

// Entries número de tareas registradas.
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() { s.cron.Start() }

// Stop detiene el scheduler y espera a que terminen las tareas en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
