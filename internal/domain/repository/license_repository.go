package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// LicenseRepository persistencia de licencias (una por empresa).
type LicenseRepository interface {
	Create(ctx context.Context, license *entity.License) error
	GetByCompany(ctx context.Context, companyID string) (*entity.License, error)
	Update(ctx context.Context, license *entity.License) error
	// ListExpiringBefore licencias activas cuyo fin es anterior a t.
	ListExpiringBefore(ctx context.Context, t time.Time) ([]*entity.License, error)
}
