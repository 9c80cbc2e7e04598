package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository/repotest"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

var (
	master  = authz.Scope{Role: authz.RoleMaster, UserID: "root"}
	created = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
)

func newCompanyUseCase(st *repotest.Store) *CompanyUseCase {
	uc := NewCompanyUseCase(st.Companies, st.Licenses, st.Modules, st, logger.Nop())
	uc.now = func() time.Time { return created }
	uc.hashCost = bcrypt.MinCost
	return uc
}

func acmeRequest() dto.CreateCompanyRequest {
	return dto.CreateCompanyRequest{
		Code:          " ACME ",
		Name:          "ACME S.A.S.",
		MaxEmployees:  10,
		MaxBranches:   2,
		DurationValue: 1,
		DurationUnit:  entity.DurationYears,
		Modules:       []string{entity.ModuleAttendance, entity.ModuleInventory},
		Admin:         &dto.CreateAdminRequest{Name: "Admin", Email: "Admin@ACME.co", Password: "Secreta#2024"},
	}
}

func TestCompanyCreate_LicenciaModulosYAdmin(t *testing.T) {
	st := repotest.New()
	uc := newCompanyUseCase(st)
	ctx := context.Background()

	out, err := uc.Create(ctx, master, acmeRequest())
	require.NoError(t, err)
	assert.Equal(t, "acme", out.Code)
	require.NotNil(t, out.License)
	assert.Equal(t, 365, out.License.RemainingDays)
	assert.True(t, out.License.IsValid)

	mods, err := st.Modules.ListCompanyModules(ctx, out.ID)
	require.NoError(t, err)
	require.Len(t, mods, len(entity.KnownModules))
	on := map[string]bool{}
	for _, m := range mods {
		on[m.ModuleName] = m.IsEnabled
	}
	assert.True(t, on[entity.ModuleAttendance])
	assert.True(t, on[entity.ModuleInventory])
	assert.False(t, on[entity.ModulePayroll])

	admins, err := st.Users.FindByIdentifier(ctx, out.ID, "admin@acme.co")
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, entity.RoleCompanyAdmin, admins[0].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].PasswordHash), []byte("Secreta#2024")))

	_, err = uc.Create(ctx, master, acmeRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCompanyCreate_Validaciones(t *testing.T) {
	uc := newCompanyUseCase(repotest.New())
	ctx := context.Background()

	in := acmeRequest()
	in.DurationValue = 0
	in.DurationUnit = "weeks"
	in.Modules = []string{"crm"}
	_, err := uc.Create(ctx, master, in)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"duration_value", "duration_unit", "modules.crm"}, ve.Fields)

	_, err = uc.Create(ctx, authz.Scope{Role: authz.RoleCompanyAdmin, CompanyID: "c1"}, acmeRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCompanySetStatusYModulos(t *testing.T) {
	st := repotest.New()
	uc := newCompanyUseCase(st)
	ctx := context.Background()
	c, err := uc.Create(ctx, master, acmeRequest())
	require.NoError(t, err)

	out, err := uc.SetStatus(ctx, master, c.ID, false)
	require.NoError(t, err)
	assert.False(t, out.IsActive)

	_, err = uc.SetStatus(ctx, master, "no-existe", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mods, err := uc.SetModules(ctx, master, c.ID, []dto.CompanyModuleItem{{ModuleName: entity.ModulePayroll, IsEnabled: true}})
	require.NoError(t, err)
	for _, m := range mods {
		if m.ModuleName == entity.ModulePayroll {
			assert.True(t, m.IsEnabled)
		}
	}
	_, err = uc.SetModules(ctx, master, c.ID, []dto.CompanyModuleItem{{ModuleName: "crm", IsEnabled: true}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, master, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestLicenseRenew(t *testing.T) {
	st := repotest.New()
	ctx := context.Background()
	require.NoError(t, st.Licenses.Create(ctx, &entity.License{
		CompanyID: "c1", StartDate: created, DurationValue: 1, DurationUnit: entity.DurationMonths,
		EndDate: created.AddDate(0, 1, 0), IsActive: true,
	}))
	uc := NewLicenseUseCase(st.Licenses, logger.Nop())
	uc.now = func() time.Time { return created.AddDate(0, 0, 10) }

	out, err := uc.Renew(ctx, master, "c1", dto.RenewLicenseRequest{DurationValue: 1, DurationUnit: entity.DurationMonths})
	require.NoError(t, err)
	assert.Equal(t, created.AddDate(0, 2, 0), out.EndDate, "los días no usados se conservan")

	_, err = uc.Renew(ctx, master, "c1", dto.RenewLicenseRequest{DurationValue: 0, DurationUnit: entity.DurationMonths})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Get(ctx, master, "c2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLicenseWarnExpiring(t *testing.T) {
	st := repotest.New()
	ctx := context.Background()
	require.NoError(t, st.Licenses.Create(ctx, &entity.License{CompanyID: "c1", EndDate: created.AddDate(0, 0, 3), IsActive: true}))
	require.NoError(t, st.Licenses.Create(ctx, &entity.License{CompanyID: "c2", EndDate: created.AddDate(0, 3, 0), IsActive: true}))
	uc := NewLicenseUseCase(st.Licenses, logger.Nop())
	uc.now = func() time.Time { return created }

	n, err := uc.WarnExpiring(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
