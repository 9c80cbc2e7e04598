package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

var _ repository.ModuleRepository = (*ModuleRepo)(nil)

// ModuleRepo activación por empresa y permisos por gerente y empleado.
// Los Replace* borran e insertan: fuera de una transacción no son atómicos,
// por eso la aplicación los invoca vía TxRunner.RunModules.
type ModuleRepo struct {
	store
}

// NewModuleRepository construye el repositorio de módulos.
func NewModuleRepository(db Querier, timeout time.Duration) *ModuleRepo {
	return &ModuleRepo{store: newStore(db, timeout)}
}

// ── Empresa ──────────────────────────────────────────────────────────────────

const companyModuleColumns = `company_id::text, module_name, is_enabled, updated_at`

func (r *ModuleRepo) ListCompanyModules(ctx context.Context, companyID string) ([]*entity.CompanyModule, error) {
	query := `SELECT ` + companyModuleColumns + ` FROM company_modules WHERE company_id = $1 ORDER BY module_name`
	var list []*entity.CompanyModule
	err := r.read(ctx, "list company modules", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, companyID)
		if err != nil {
			return err
		}
		list, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.CompanyModule, error) {
			return scanCompanyModule(row)
		})
		return err
	})
	return list, err
}

func (r *ModuleRepo) GetCompanyModule(ctx context.Context, companyID, moduleName string) (*entity.CompanyModule, error) {
	query := `SELECT ` + companyModuleColumns + ` FROM company_modules WHERE company_id = $1 AND module_name = $2`
	var m *entity.CompanyModule
	err := r.read(ctx, "get company module", func(ctx context.Context) error {
		found, err := scanCompanyModule(r.db.QueryRow(ctx, query, companyID, moduleName))
		if notFound(err) {
			m = nil
			return nil
		}
		m = found
		return err
	})
	return m, err
}

// UpsertCompanyModules crea o actualiza la activación de cada módulo indicado.
func (r *ModuleRepo) UpsertCompanyModules(ctx context.Context, companyID string, modules []*entity.CompanyModule) error {
	query := `
		INSERT INTO company_modules (company_id, module_name, is_enabled, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, module_name)
		DO UPDATE SET is_enabled = EXCLUDED.is_enabled, updated_at = EXCLUDED.updated_at`
	return r.write(ctx, "upsert company modules", func(ctx context.Context) error {
		for _, m := range modules {
			if _, err := r.db.Exec(ctx, query, companyID, m.ModuleName, m.IsEnabled, stamp(m.UpdatedAt)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ── Gerente ──────────────────────────────────────────────────────────────────

const managerModuleColumns = `manager_id::text, module_name, is_enabled, can_view, can_modify, can_update, updated_at`

func (r *ModuleRepo) ListManagerModules(ctx context.Context, managerID string) ([]*entity.BranchManagerModule, error) {
	query := `SELECT ` + managerModuleColumns + ` FROM branch_manager_modules WHERE manager_id = $1 ORDER BY module_name`
	var list []*entity.BranchManagerModule
	err := r.read(ctx, "list manager modules", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, managerID)
		if err != nil {
			return err
		}
		list, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.BranchManagerModule, error) {
			return scanManagerModule(row)
		})
		return err
	})
	return list, err
}

func (r *ModuleRepo) GetManagerModule(ctx context.Context, managerID, moduleName string) (*entity.BranchManagerModule, error) {
	query := `SELECT ` + managerModuleColumns + ` FROM branch_manager_modules WHERE manager_id = $1 AND module_name = $2`
	var m *entity.BranchManagerModule
	err := r.read(ctx, "get manager module", func(ctx context.Context) error {
		found, err := scanManagerModule(r.db.QueryRow(ctx, query, managerID, moduleName))
		if notFound(err) {
			m = nil
			return nil
		}
		m = found
		return err
	})
	return m, err
}

// ReplaceManagerModules reemplaza el conjunto completo de permisos del gerente.
func (r *ModuleRepo) ReplaceManagerModules(ctx context.Context, managerID string, rows []*entity.BranchManagerModule) error {
	insert := `
		INSERT INTO branch_manager_modules (manager_id, module_name, is_enabled, can_view, can_modify, can_update, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	return r.write(ctx, "replace manager modules", func(ctx context.Context) error {
		if _, err := r.db.Exec(ctx, `DELETE FROM branch_manager_modules WHERE manager_id = $1`, managerID); err != nil {
			return err
		}
		for _, m := range rows {
			_, err := r.db.Exec(ctx, insert, managerID, m.ModuleName, m.IsEnabled, m.CanView, m.CanModify, m.CanUpdate, stamp(m.UpdatedAt))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ── Empleado ─────────────────────────────────────────────────────────────────

const employeeModuleColumns = `employee_id::text, module_name, access_level, is_enabled, updated_at`

func (r *ModuleRepo) ListEmployeeModules(ctx context.Context, employeeID string) ([]*entity.EmployeeModuleAccess, error) {
	query := `SELECT ` + employeeModuleColumns + ` FROM employee_module_access WHERE employee_id = $1 ORDER BY module_name`
	var list []*entity.EmployeeModuleAccess
	err := r.read(ctx, "list employee modules", func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, employeeID)
		if err != nil {
			return err
		}
		list, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.EmployeeModuleAccess, error) {
			return scanEmployeeModule(row)
		})
		return err
	})
	return list, err
}

func (r *ModuleRepo) GetEmployeeModule(ctx context.Context, employeeID, moduleName string) (*entity.EmployeeModuleAccess, error) {
	query := `SELECT ` + employeeModuleColumns + ` FROM employee_module_access WHERE employee_id = $1 AND module_name = $2`
	var m *entity.EmployeeModuleAccess
	err := r.read(ctx, "get employee module", func(ctx context.Context) error {
		found, err := scanEmployeeModule(r.db.QueryRow(ctx, query, employeeID, moduleName))
		if notFound(err) {
			m = nil
			return nil
		}
		m = found
		return err
	})
	return m, err
}

// ReplaceEmployeeModules reemplaza el conjunto completo de accesos del empleado.
func (r *ModuleRepo) ReplaceEmployeeModules(ctx context.Context, employeeID string, rows []*entity.EmployeeModuleAccess) error {
	insert := `
		INSERT INTO employee_module_access (employee_id, module_name, access_level, is_enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	return r.write(ctx, "replace employee modules", func(ctx context.Context) error {
		if _, err := r.db.Exec(ctx, `DELETE FROM employee_module_access WHERE employee_id = $1`, employeeID); err != nil {
			return err
		}
		for _, m := range rows {
			if _, err := r.db.Exec(ctx, insert, employeeID, m.ModuleName, m.AccessLevel, m.IsEnabled, stamp(m.UpdatedAt)); err != nil {
				return err
			}
		}
		return nil
	})
}

// stamp usa el instante indicado o el actual si viene vacío.
func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

func scanCompanyModule(row pgx.Row) (*entity.CompanyModule, error) {
	var m entity.CompanyModule
	if err := row.Scan(&m.CompanyID, &m.ModuleName, &m.IsEnabled, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanManagerModule(row pgx.Row) (*entity.BranchManagerModule, error) {
	var m entity.BranchManagerModule
	if err := row.Scan(&m.ManagerID, &m.ModuleName, &m.IsEnabled, &m.CanView, &m.CanModify, &m.CanUpdate, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanEmployeeModule(row pgx.Row) (*entity.EmployeeModuleAccess, error) {
	var m entity.EmployeeModuleAccess
	if err := row.Scan(&m.EmployeeID, &m.ModuleName, &m.AccessLevel, &m.IsEnabled, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
