package repository

import (
	"context"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// ModuleRepository persistencia de la activación por empresa y de los permisos
// por gerente y por empleado. Los Get devuelven (nil, nil) si no hay fila.
type ModuleRepository interface {
	ListCompanyModules(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
	GetCompanyModule(ctx context.Context, companyID, moduleName string) (*entity.CompanyModule, error)
	UpsertCompanyModules(ctx context.Context, companyID string, modules []*entity.CompanyModule) error

	ListManagerModules(ctx context.Context, managerID string) ([]*entity.BranchManagerModule, error)
	GetManagerModule(ctx context.Context, managerID, moduleName string) (*entity.BranchManagerModule, error)
	ReplaceManagerModules(ctx context.Context, managerID string, rows []*entity.BranchManagerModule) error

	ListEmployeeModules(ctx context.Context, employeeID string) ([]*entity.EmployeeModuleAccess, error)
	GetEmployeeModule(ctx context.Context, employeeID, moduleName string) (*entity.EmployeeModuleAccess, error)
	ReplaceEmployeeModules(ctx context.Context, employeeID string, rows []*entity.EmployeeModuleAccess) error
}
