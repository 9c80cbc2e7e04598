package auth

import (
	"fmt"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/authz"
	pkgjwt "github.com/jhoicas/Workforce-api/pkg/jwt"
)

// TokenConfig configuración para generación de tokens.
type TokenConfig struct {
	Secret        string
	Issuer        string
	AccessMinutes int
	RefreshHours  int
}

// TokenIssuer emite y verifica tokens de sesión.
type TokenIssuer struct {
	cfg TokenConfig
}

// NewTokenIssuer construye el emisor.
func NewTokenIssuer(cfg TokenConfig) *TokenIssuer {
	if cfg.AccessMinutes <= 0 {
		cfg.AccessMinutes = 15
	}
	if cfg.RefreshHours <= 0 {
		cfg.RefreshHours = 168
	}
	return &TokenIssuer{cfg: cfg}
}

// IssueAccess firma un access token con el alcance dado.
func (t *TokenIssuer) IssueAccess(sc authz.Scope) (string, error) {
	return pkgjwt.GenerateAccess(t.cfg.Secret, t.cfg.Issuer, t.cfg.AccessMinutes, pkgjwt.Scope{
		Subject:    sc.Subject,
		Role:       sc.Role.String(),
		CompanyID:  sc.CompanyID,
		BranchID:   sc.BranchID,
		BranchName: sc.BranchName,
		UserID:     sc.UserID,
	})
}

// IssueRefresh firma un refresh token; solo lleva el ID interno del usuario.
func (t *TokenIssuer) IssueRefresh(userID string) (string, error) {
	return pkgjwt.GenerateRefresh(t.cfg.Secret, t.cfg.Issuer, t.cfg.RefreshHours, userID)
}

// Pair emite access + refresh.
func (t *TokenIssuer) Pair(sc authz.Scope, userID string) (dto.TokenPair, error) {
	access, err := t.IssueAccess(sc)
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("emitir access token: %w", err)
	}
	refresh, err := t.IssueRefresh(userID)
	if err != nil {
		return dto.TokenPair{}, fmt.Errorf("emitir refresh token: %w", err)
	}
	return dto.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    t.cfg.AccessMinutes * 60,
	}, nil
}

// Verify valida un access token y devuelve el alcance. Cualquier falla (firma, expiración,
// tipo, rol desconocido) es el mismo domain.ErrUnauthorized.
func (t *TokenIssuer) Verify(token string) (authz.Scope, error) {
	claims, err := pkgjwt.ParseAccess(t.cfg.Secret, token)
	if err != nil {
		return authz.Scope{}, domain.ErrUnauthorized
	}
	return ScopeFromClaims(claims)
}

// VerifyRefresh valida un refresh token y devuelve el ID de usuario.
func (t *TokenIssuer) VerifyRefresh(token string) (string, error) {
	claims, err := pkgjwt.ParseRefresh(t.cfg.Secret, token)
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}
