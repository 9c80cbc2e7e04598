package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository con PostgreSQL.
type UserRepo struct {
	store
}

// NewUserRepository crea el repositorio de usuarios.
func NewUserRepository(db Querier, timeout time.Duration) *UserRepo {
	return &UserRepo{store: newStore(db, timeout)}
}

const userColumns = `id::text, company_id::text, branch_id::text, name, email, phone, employee_code,
	password_hash, role, attendance_mode, is_active, created_at, updated_at`

// Índices únicos por empresa → error de dominio.
var userConstraintErrors = map[string]error{
	"users_company_email_key":         domain.ErrEmailAlreadyExists,
	"users_company_phone_key":         domain.ErrPhoneAlreadyExists,
	"users_company_employee_code_key": domain.ErrEmployeeCodeAlreadyExists,
}

// Create inserta un usuario. Los identificadores ya vienen normalizados.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (id, company_id, branch_id, name, email, phone, employee_code,
			password_hash, role, attendance_mode, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	return r.write(ctx, "insert user", func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query,
			u.ID, nullable(u.CompanyID), nullable(u.BranchID), u.Name,
			nullable(u.Email), nullable(u.Phone), nullable(u.EmployeeCode),
			u.PasswordHash, u.Role, u.AttendanceMode, u.IsActive, u.CreatedAt, u.UpdatedAt,
		)
		if isUniqueViolation(err) {
			if mapped, ok := userConstraintErrors[violatedConstraint(err)]; ok {
				return mapped
			}
			return domain.ErrDuplicate
		}
		return err
	})
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var u *entity.User
	err := r.read(ctx, "get user", func(ctx context.Context) error {
		found, err := scanUser(r.db.QueryRow(ctx, query, id))
		if notFound(err) {
			u = nil
			return nil
		}
		u = found
		return err
	})
	return u, err
}

// FindByIdentifier devuelve todos los usuarios cuyo email, teléfono o código coincide.
func (r *UserRepo) FindByIdentifier(ctx context.Context, companyID, identifier string) ([]*entity.User, error) {
	match := `(email = $1 OR phone = $1 OR employee_code = $1)`
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id IS NULL AND ` + match
	args := []any{identifier}
	if companyID != "" {
		query = `SELECT ` + userColumns + ` FROM users WHERE company_id = $2 AND ` + match
		args = append(args, companyID)
	}
	return r.list(ctx, "find user by identifier", query+` ORDER BY id`, args...)
}

// ListByCompany lista usuarios de la empresa; branchID vacío = todas las sucursales.
func (r *UserRepo) ListByCompany(ctx context.Context, companyID, branchID string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE company_id = $1 AND ($2 = '' OR branch_id::text = $2)
		ORDER BY id
		LIMIT NULLIF($3::int, 0) OFFSET $4`
	return r.list(ctx, "list users", query, companyID, branchID, limit, offset)
}

func (r *UserRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	return r.count(ctx, "count users by company", `SELECT count(*) FROM users WHERE company_id = $1`, companyID)
}

func (r *UserRepo) CountByBranch(ctx context.Context, branchID string) (int, error) {
	return r.count(ctx, "count users by branch", `SELECT count(*) FROM users WHERE branch_id = $1`, branchID)
}

func (r *UserRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.User, error) {
	var users []*entity.User
	err := r.read(ctx, op, func(ctx context.Context) error {
		rows, err := r.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		users, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.User, error) {
			return scanUser(row)
		})
		return err
	})
	return users, err
}

func (r *UserRepo) count(ctx context.Context, op, query, id string) (int, error) {
	var n int
	err := r.read(ctx, op, func(ctx context.Context) error {
		return r.db.QueryRow(ctx, query, id).Scan(&n)
	})
	return n, err
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.BranchID, &u.Name, &u.Email, &u.Phone, &u.EmployeeCode,
		&u.PasswordHash, &u.Role, &u.AttendanceMode, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
