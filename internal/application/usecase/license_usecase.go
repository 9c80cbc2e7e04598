package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/license"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// LicenseUseCase consulta y renovación de licencias por el operador de plataforma.
type LicenseUseCase struct {
	licenses repository.LicenseRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewLicenseUseCase construye el caso de uso.
func NewLicenseUseCase(licenses repository.LicenseRepository, log *logger.Logger) *LicenseUseCase {
	return &LicenseUseCase{licenses: licenses, log: log, now: time.Now}
}

// Get licencia de la empresa con los días restantes calculados al momento.
func (uc *LicenseUseCase) Get(ctx context.Context, sc authz.Scope, companyID string) (*dto.LicenseResponse, error) {
	if err := requirePlatform(sc); err != nil {
		return nil, err
	}
	lic, err := uc.licenses.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, domain.ErrNotFound
	}
	return toLicenseResponse(lic, uc.now()), nil
}

// Renew extiende la licencia. Los días no usados se conservan: la extensión parte del
// fin actual, o de hoy si ya venció.
func (uc *LicenseUseCase) Renew(ctx context.Context, sc authz.Scope, companyID string, in dto.RenewLicenseRequest) (*dto.LicenseResponse, error) {
	if err := requirePlatform(sc); err != nil {
		return nil, err
	}
	lic, err := uc.licenses.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if lic == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	if err := license.Renew(lic, in.DurationValue, in.DurationUnit, now); err != nil {
		return nil, err
	}
	if err := uc.licenses.Update(ctx, lic); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Int("duration_value", in.DurationValue).
		Str("duration_unit", in.DurationUnit).
		Str("end_date", lic.EndDate.Format(time.DateOnly)).
		Msg("licencia renovada")
	return toLicenseResponse(lic, now), nil
}

// WarnExpiring registra un aviso por cada licencia activa que vence dentro de window.
// Lo invoca el scheduler; devuelve cuántas encontró.
func (uc *LicenseUseCase) WarnExpiring(ctx context.Context, window time.Duration) (int, error) {
	now := uc.now()
	list, err := uc.licenses.ListExpiringBefore(ctx, now.Add(window))
	if err != nil {
		return 0, err
	}
	for _, l := range list {
		st := license.Evaluate(l, now)
		uc.log.Warn().
			Str("company_id", l.CompanyID).
			Int("remaining_days", st.RemainingDays).
			Str("end_date", l.EndDate.Format(time.DateOnly)).
			Msg("licencia por vencer")
	}
	return len(list), nil
}

func toLicenseResponse(l *entity.License, now time.Time) *dto.LicenseResponse {
	st := license.Evaluate(l, now)
	return &dto.LicenseResponse{
		CompanyID:     l.CompanyID,
		StartDate:     l.StartDate,
		DurationValue: l.DurationValue,
		DurationUnit:  l.DurationUnit,
		EndDate:       l.EndDate,
		IsActive:      l.IsActive,
		IsValid:       st.Valid,
		RemainingDays: max(st.RemainingDays, 0),
	}
}
