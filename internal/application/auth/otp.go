package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/application/ports"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/identifier"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

// OTPConfig parámetros de los códigos de un solo uso.
type OTPConfig struct {
	TTL         time.Duration
	Length      int
	MaxAttempts int
}

// OTPService emite y canjea códigos de un solo uso. Los códigos viven hasheados en
// un almacén con vencimiento nativo; se borran al primer canje exitoso.
type OTPService struct {
	auth     *AuthUseCase
	store    repository.OTPStore
	sender   ports.CodeSender
	cfg      OTPConfig
	log      *logger.Logger
	hashCost int
}

// NewOTPService construye el servicio.
func NewOTPService(auth *AuthUseCase, store repository.OTPStore, sender ports.CodeSender, cfg OTPConfig, log *logger.Logger) *OTPService {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Length < 4 {
		cfg.Length = 6
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &OTPService{auth: auth, store: store, sender: sender, cfg: cfg, log: log, hashCost: bcrypt.DefaultCost}
}

// RequestCode genera y envía un código. Para no revelar qué identificadores existen,
// una empresa o usuario desconocido termina sin error y sin envío.
func (s *OTPService) RequestCode(ctx context.Context, in dto.RequestOTPRequest) error {
	company, err := s.auth.repos.Companies.GetByCode(ctx, NormalizeCompanyCode(in.CompanyCode))
	if err != nil {
		return err
	}
	if company == nil || !company.IsActive {
		s.log.Debug().Str("company_code", in.CompanyCode).Msg("otp: empresa desconocida o inactiva")
		return nil
	}
	key := identifier.Normalize(in.Identifier)
	user, err := s.auth.findUnique(ctx, company.ID, key)
	if err != nil {
		return err
	}
	if user == nil || !user.IsActive {
		s.log.Debug().Str("company_id", company.ID).Msg("otp: identificador sin usuario único activo")
		return nil
	}

	code, err := generateCode(s.cfg.Length)
	if err != nil {
		return fmt.Errorf("otp: generar código: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.hashCost)
	if err != nil {
		return fmt.Errorf("otp: hash: %w", err)
	}
	if err := s.store.Put(ctx, otpKey(company.ID, key), string(hash), s.cfg.TTL); err != nil {
		return err
	}
	if err := s.sender.SendCode(ctx, user, key, code); err != nil {
		return fmt.Errorf("otp: envío: %w", err)
	}
	s.log.Info().Str("company_id", company.ID).Str("user_id", user.ID).Msg("otp emitido")
	return nil
}

// VerifyCode canjea el código por tokens. Tras MaxAttempts fallos el código se invalida.
// Los tokens de empleado no llevan user_id: la identidad se resuelve por subject.
func (s *OTPService) VerifyCode(ctx context.Context, in dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	company, err := s.auth.repos.Companies.GetByCode(ctx, NormalizeCompanyCode(in.CompanyCode))
	if err != nil {
		return nil, s.auth.fail("otp", err)
	}
	if company == nil {
		return nil, s.auth.fail("otp", domain.ErrUnauthorized)
	}
	key := identifier.Normalize(in.Identifier)
	storeKey := otpKey(company.ID, key)

	rec, err := s.store.Get(ctx, storeKey)
	if err != nil {
		return nil, s.auth.fail("otp", err)
	}
	if rec == nil {
		return nil, s.auth.fail("otp", domain.ErrUnauthorized)
	}
	if rec.Attempts >= s.cfg.MaxAttempts {
		s.burn(ctx, storeKey)
		return nil, s.auth.fail("otp", domain.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(strings.TrimSpace(in.Code))) != nil {
		n, err := s.store.IncrementAttempts(ctx, storeKey)
		if err != nil {
			return nil, s.auth.fail("otp", err)
		}
		if n >= s.cfg.MaxAttempts {
			s.burn(ctx, storeKey)
		}
		return nil, s.auth.fail("otp", domain.ErrUnauthorized)
	}
	// Un solo uso: solo quien logra borrar la clave recibe tokens.
	won, err := s.store.Consume(ctx, storeKey)
	if err != nil {
		return nil, s.auth.fail("otp", err)
	}
	if !won {
		return nil, s.auth.fail("otp", domain.ErrUnauthorized)
	}

	user, err := s.auth.findUnique(ctx, company.ID, key)
	if err != nil {
		return nil, s.auth.fail("otp", err)
	}
	if user == nil {
		return nil, s.auth.fail("otp", domain.ErrUnauthorized)
	}
	role, ok := authz.ParseRole(user.Role)
	if !ok || role.IsPlatform() {
		return nil, s.auth.fail("otp", domain.ErrUnauthorized)
	}
	branch, err := s.auth.admit(ctx, company, user)
	if err != nil {
		return nil, s.auth.fail("otp", err)
	}
	out, err := s.auth.session(ctx, user, role, branch, key, role != authz.RoleEmployee)
	if err != nil {
		return nil, err
	}
	s.auth.metrics.LoginAttempt("otp", "success")
	return out, nil
}

func (s *OTPService) burn(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("otp: no se pudo invalidar el código")
	}
}

func otpKey(companyID, identifier string) string {
	return "otp:" + companyID + ":" + identifier
}

// generateCode código numérico de n dígitos con crypto/rand.
func generateCode(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
