package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrInvalidToken agrupa firma incorrecta, expiración, formato y tipo equivocado.
// Los llamadores no deben distinguir entre "expirado" y "manipulado".
var ErrInvalidToken = errors.New("jwt: token inválido o expirado")

// Claims incluye los claims estándar JWT más el alcance del tenant.
// Subject es la llave con la que el usuario se identificó (email, teléfono o código de empleado);
// en los refresh tokens es el ID interno del usuario.
type Claims struct {
	jwt.RegisteredClaims
	Type       string `json:"typ"`
	Role       string `json:"role,omitempty"`
	CompanyID  string `json:"company_id,omitempty"`
	BranchID   string `json:"branch_id,omitempty"`
	BranchName string `json:"branch_name,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}

// Scope datos de alcance que viajan en un access token.
type Scope struct {
	Subject    string
	Role       string
	CompanyID  string
	BranchID   string
	BranchName string
	UserID     string
}

// GenerateAccess genera un access token firmado con el alcance indicado.
func GenerateAccess(secret, issuer string, expMinutes int, s Scope) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Type:       TypeAccess,
		Role:       s.Role,
		CompanyID:  s.CompanyID,
		BranchID:   s.BranchID,
		BranchName: s.BranchName,
		UserID:     s.UserID,
	}
	return sign(secret, claims)
}

// GenerateRefresh genera un refresh token que solo lleva el subject.
func GenerateRefresh(secret, issuer string, expHours int, subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expHours) * time.Hour)),
		},
		Type: TypeRefresh,
	}
	return sign(secret, claims)
}

func sign(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
// Cualquier fallo se reporta como ErrInvalidToken.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseAccess valida un access token.
func ParseAccess(secret, tokenString string) (*Claims, error) {
	return parseType(secret, tokenString, TypeAccess)
}

// ParseRefresh valida un refresh token.
func ParseRefresh(secret, tokenString string) (*Claims, error) {
	return parseType(secret, tokenString, TypeRefresh)
}

func parseType(secret, tokenString, typ string) (*Claims, error) {
	claims, err := Parse(secret, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
