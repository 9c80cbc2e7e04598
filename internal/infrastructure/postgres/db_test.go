package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Workforce-api/internal/domain"
)

// retryable imita un error de conexión previo al envío de la consulta.
type retryable struct{}

func (retryable) Error() string      { return "conexión cerrada antes de enviar" }
func (retryable) SafeToRetry() bool { return true }

func TestRead_ReintentaUnaVezSiEsSeguro(t *testing.T) {
	s := newStore(nil, time.Second)
	calls := 0
	err := s.read(context.Background(), "op", func(context.Context) error {
		calls++
		if calls == 1 {
			return retryable{}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRead_NoReintentaErroresComunes(t *testing.T) {
	s := newStore(nil, time.Second)
	calls := 0
	err := s.read(context.Background(), "get user", func(context.Context) error {
		calls++
		return errors.New("syntax error")
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, domain.ErrInfrastructure)
	assert.Contains(t, err.Error(), "get user")
}

func TestWrite_NuncaReintenta(t *testing.T) {
	s := newStore(nil, time.Second)
	calls := 0
	err := s.write(context.Background(), "insert", func(context.Context) error {
		calls++
		return retryable{}
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, domain.ErrInfrastructure)
}

func TestWrap_DejaPasarErroresDeDominio(t *testing.T) {
	assert.Same(t, domain.ErrAlreadyCheckedIn, wrap("op", domain.ErrAlreadyCheckedIn))
	assert.Same(t, domain.ErrNotFound, wrap("op", domain.ErrNotFound))
	assert.NoError(t, wrap("op", nil))
}

func TestBounded_IgnoraCancelacionDelCliente(t *testing.T) {
	s := newStore(nil, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.bounded(ctx, func(qctx context.Context) error {
		assert.NoError(t, qctx.Err())
		_, ok := qctx.Deadline()
		assert.True(t, ok)
		return nil
	})
	assert.NoError(t, err)
}

func TestNewStore_TimeoutPorDefecto(t *testing.T) {
	assert.Equal(t, 5*time.Second, newStore(nil, 0).timeout)
}

func TestNotFound(t *testing.T) {
	assert.True(t, notFound(pgx.ErrNoRows))
	assert.False(t, notFound(errors.New("x")))
}

func TestUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "users_company_phone_key"}
	assert.True(t, isUniqueViolation(err))
	assert.Equal(t, "users_company_phone_key", violatedConstraint(err))

	other := &pgconn.PgError{Code: "23503", ConstraintName: "users_branch_id_fkey"}
	assert.False(t, isUniqueViolation(other))
	assert.Empty(t, violatedConstraint(other))
	assert.False(t, isUniqueViolation(nil))
}

func TestUserConstraintErrors(t *testing.T) {
	assert.ErrorIs(t, userConstraintErrors["users_company_email_key"], domain.ErrEmailAlreadyExists)
	assert.ErrorIs(t, userConstraintErrors["users_company_employee_code_key"], domain.ErrConflict)
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("0b9f5c0e-6a43-4c43-9a55-2b1d3f7e9a10"))
	assert.False(t, validID("no-es-uuid"))
	assert.False(t, validID(""))
}
