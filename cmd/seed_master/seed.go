package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/identifier"
)

const minPasswordLen = 8

var validate = validator.New()

type masterInput struct {
	Email    string
	Password string
	Name     string
}

// seedMaster crea el operador si no hay uno con ese email. Devuelve el usuario
// existente o el nuevo y si hubo alta.
func seedMaster(ctx context.Context, users repository.UserRepository, in masterInput, now time.Time) (*entity.User, bool, error) {
	email := identifier.Normalize(in.Email)
	var bad []string
	if validate.Var(email, "required,email") != nil || identifier.Detect(email) != identifier.KindEmail {
		bad = append(bad, "email")
	}
	if len(in.Password) < minPasswordLen {
		bad = append(bad, "password")
	}
	if len(bad) > 0 {
		return nil, false, domain.NewValidationError(bad...)
	}

	existing, err := users.FindByIdentifier(ctx, "", email)
	if err != nil {
		return nil, false, err
	}
	if len(existing) > 0 {
		return existing[0], false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash de contraseña: %w", err)
	}
	name := in.Name
	if name == "" {
		name = "Operador de plataforma"
	}
	u := &entity.User{
		ID:             uuid.New().String(),
		Name:           name,
		Email:          &email,
		PasswordHash:   string(hash),
		Role:           entity.RoleMaster,
		AttendanceMode: entity.AttendanceGeofencing,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}
