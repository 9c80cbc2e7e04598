package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/license"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/identifier"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// Repos puertos de persistencia que usa la autenticación.
type Repos struct {
	Users     repository.UserRepository
	Companies repository.CompanyRepository
	Branches  repository.BranchRepository
	Licenses  repository.LicenseRepository
}

// ModuleLister lista los módulos efectivos de un alcance (lo implementa access.Service).
type ModuleLister interface {
	EffectiveModules(ctx context.Context, sc authz.Scope) ([]dto.ModuleResponse, error)
}

// AuthUseCase casos de uso de autenticación: login master, login de empresa y refresh.
type AuthUseCase struct {
	repos   Repos
	modules ModuleLister
	tokens  *TokenIssuer
	metrics ports.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(repos Repos, modules ModuleLister, tokens *TokenIssuer, metrics ports.Metrics, log *logger.Logger) *AuthUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &AuthUseCase{
		repos:   repos,
		modules: modules,
		tokens:  tokens,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// MasterLogin autentica operadores de plataforma (master/admin). No depende de licencias.
func (uc *AuthUseCase) MasterLogin(ctx context.Context, in dto.MasterLoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.findUnique(ctx, "", in.Email)
	if err != nil {
		return nil, uc.fail("master", err)
	}
	if user == nil || !passwordMatches(user.PasswordHash, in.Password) {
		return nil, uc.fail("master", domain.ErrUnauthorized)
	}
	role, ok := authz.ParseRole(user.Role)
	if !ok || !role.IsPlatform() {
		return nil, uc.fail("master", domain.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, uc.fail("master", fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden))
	}
	out, err := uc.session(ctx, user, role, nil, user.PrimaryIdentifier(), true)
	if err != nil {
		return nil, err
	}
	uc.metrics.LoginAttempt("master", "success")
	return out, nil
}

// CompanyLogin autentica a un usuario del tenant (admin, gerente o empleado) con
// código de empresa + usuario + contraseña. Exige empresa activa y licencia vigente.
func (uc *AuthUseCase) CompanyLogin(ctx context.Context, in dto.CompanyLoginRequest) (*dto.LoginResponse, error) {
	company, err := uc.repos.Companies.GetByCode(ctx, NormalizeCompanyCode(in.CompanyCode))
	if err != nil {
		return nil, uc.fail("company", err)
	}
	if company == nil {
		return nil, uc.fail("company", domain.ErrUnauthorized)
	}
	user, err := uc.findUnique(ctx, company.ID, in.Username)
	if err != nil {
		return nil, uc.fail("company", err)
	}
	if user == nil || !passwordMatches(user.PasswordHash, in.Password) {
		return nil, uc.fail("company", domain.ErrUnauthorized)
	}
	role, ok := authz.ParseRole(user.Role)
	if !ok || role.IsPlatform() {
		return nil, uc.fail("company", domain.ErrUnauthorized)
	}
	branch, err := uc.admit(ctx, company, user)
	if err != nil {
		return nil, uc.fail("company", err)
	}
	out, err := uc.session(ctx, user, role, branch, user.PrimaryIdentifier(), true)
	if err != nil {
		return nil, err
	}
	uc.metrics.LoginAttempt("company", "success")
	uc.log.Info().
		Str("company_id", company.ID).
		Str("user_id", user.ID).
		Str("role", role.String()).
		Msg("login de empresa")
	return out, nil
}

// Refresh canjea un refresh token por un par nuevo. Vuelve a verificar empresa, licencia
// y estado del usuario: un refresh no sobrevive a una desactivación.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.TokenPair, error) {
	userID, err := uc.tokens.VerifyRefresh(in.RefreshToken)
	if err != nil {
		return nil, uc.fail("refresh", err)
	}
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, uc.fail("refresh", err)
	}
	if user == nil {
		return nil, uc.fail("refresh", domain.ErrUnauthorized)
	}
	role, ok := authz.ParseRole(user.Role)
	if !ok {
		return nil, uc.fail("refresh", domain.ErrUnauthorized)
	}

	var branch *entity.Branch
	if role.IsPlatform() {
		if !user.IsActive {
			return nil, uc.fail("refresh", fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden))
		}
	} else {
		company, err := uc.repos.Companies.GetByID(ctx, user.Company())
		if err != nil {
			return nil, uc.fail("refresh", err)
		}
		if company == nil {
			return nil, uc.fail("refresh", domain.ErrUnauthorized)
		}
		if branch, err = uc.admit(ctx, company, user); err != nil {
			return nil, uc.fail("refresh", err)
		}
	}

	pair, err := uc.tokens.Pair(scopeFor(user, role, branch, user.PrimaryIdentifier()), user.ID)
	if err != nil {
		return nil, err
	}
	uc.metrics.LoginAttempt("refresh", "success")
	return &pair, nil
}

// admit verifica que el usuario pueda entrar a su empresa: empresa activa, licencia vigente,
// usuario activo y sucursal activa. Devuelve la sucursal para el claim branch_name.
func (uc *AuthUseCase) admit(ctx context.Context, company *entity.Company, user *entity.User) (*entity.Branch, error) {
	if !company.IsActive {
		return nil, fmt.Errorf("%w: empresa inactiva", domain.ErrForbidden)
	}
	lic, err := uc.repos.Licenses.GetByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if st := license.Evaluate(lic, uc.now()); !st.Valid {
		return nil, &domain.LicenseExpiredError{RemainingDays: max(st.RemainingDays, 0)}
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}
	if user.BranchID == nil {
		return nil, nil
	}
	branch, err := uc.repos.Branches.GetByID(ctx, *user.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.CompanyID != company.ID || !branch.IsActive {
		return nil, fmt.Errorf("%w: sucursal inactiva", domain.ErrForbidden)
	}
	return branch, nil
}

// session emite los tokens y arma la respuesta de login. withUserID=false deja el claim
// user_id fuera (tokens de empleado identificados por subject).
func (uc *AuthUseCase) session(
	ctx context.Context,
	user *entity.User,
	role authz.Role,
	branch *entity.Branch,
	subject string,
	withUserID bool,
) (*dto.LoginResponse, error) {
	sc := scopeFor(user, role, branch, subject)
	tokenScope := sc
	if !withUserID {
		tokenScope.UserID = ""
	}
	pair, err := uc.tokens.Pair(tokenScope, user.ID)
	if err != nil {
		return nil, err
	}

	modules := []dto.ModuleResponse{}
	if !role.IsPlatform() && uc.modules != nil {
		if modules, err = uc.modules.EffectiveModules(ctx, sc); err != nil {
			return nil, err
		}
	}
	return &dto.LoginResponse{
		TokenPair: pair,
		User: dto.SessionUser{
			ID:         user.ID,
			Name:       user.Name,
			Role:       role.String(),
			CompanyID:  user.CompanyID,
			BranchID:   user.BranchID,
			BranchName: sc.BranchName,
		},
		Modules: modules,
	}, nil
}

func scopeFor(user *entity.User, role authz.Role, branch *entity.Branch, subject string) authz.Scope {
	sc := authz.Scope{
		Subject:   subject,
		Role:      role,
		CompanyID: user.Company(),
		BranchID:  user.Branch(),
		UserID:    user.ID,
	}
	if branch != nil {
		sc.BranchName = branch.Name
	}
	return sc
}

// findUnique busca por identificador normalizado; cero o varias coincidencias → nil.
func (uc *AuthUseCase) findUnique(ctx context.Context, companyID, raw string) (*entity.User, error) {
	key := identifier.Normalize(raw)
	if key == "" {
		return nil, nil
	}
	matches, err := uc.repos.Users.FindByIdentifier(ctx, companyID, key)
	if err != nil {
		return nil, err
	}
	if len(matches) != 1 {
		return nil, nil
	}
	return matches[0], nil
}

// fail registra el rechazo (métrica + log) y devuelve el mismo error.
func (uc *AuthUseCase) fail(kind string, err error) error {
	outcome := "error"
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		outcome = "invalid_credentials"
	case errors.Is(err, domain.ErrLicenseExpired):
		outcome = "license_invalid"
	case errors.Is(err, domain.ErrForbidden):
		outcome = "forbidden"
	}
	uc.metrics.LoginAttempt(kind, outcome)
	uc.log.Warn().Err(err).Str("kind", kind).Str("outcome", outcome).Msg("login rechazado")
	return err
}

func passwordMatches(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeCompanyCode códigos de empresa en minúsculas y sin espacios.
func NormalizeCompanyCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
