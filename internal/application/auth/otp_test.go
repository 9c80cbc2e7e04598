package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Workforce-api/internal/application/dto"
	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository/repotest"
	"github.com/jhoicas/Workforce-api/pkg/logger"
)

type captureSender struct {
	codes map[string]string
}

func (s *captureSender) SendCode(_ context.Context, _ *entity.User, identifier, code string) error {
	s.codes[identifier] = code
	return nil
}

func newOTP(t *testing.T, f authFixture) (*OTPService, *captureSender) {
	t.Helper()
	sender := &captureSender{codes: map[string]string{}}
	svc := NewOTPService(f.uc, f.store.OTP, sender, OTPConfig{TTL: 5 * time.Minute, Length: 6, MaxAttempts: 3}, logger.Nop())
	svc.hashCost = bcrypt.MinCost
	return svc, sender
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestOTP_FlujoCompletoEmpleadoSinUserID(t *testing.T) {
	f := newAuthFixture(t)
	svc, sender := newOTP(t, f)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, dto.RequestOTPRequest{CompanyCode: "acme", Identifier: "EMP-1"}))
	code, ok := sender.codes["emp-1"]
	require.True(t, ok)
	assert.Len(t, code, 6)

	out, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{CompanyCode: "acme", Identifier: "emp-1", Code: code})
	require.NoError(t, err)
	assert.Equal(t, "u-emp", out.User.ID)

	sc, err := f.tokens.Verify(out.AccessToken)
	require.NoError(t, err)
	assert.Empty(t, sc.UserID, "token de empleado por OTP se identifica por subject")
	assert.Equal(t, "emp-1", sc.Subject)

	// Un solo uso.
	_, err = svc.VerifyCode(ctx, dto.VerifyOTPRequest{CompanyCode: "acme", Identifier: "emp-1", Code: code})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	resolver := NewScopeResolver(f.store.Users, logger.Nop())
	id, err := resolver.ResolveIdentity(ctx, sc)
	require.NoError(t, err)
	assert.Equal(t, "u-emp", id)
}

// lockstepOTP retiene cada Get hasta que todos los canjes leyeron el código.
type lockstepOTP struct {
	*repotest.OTP
	read sync.WaitGroup
}

func (l *lockstepOTP) Get(ctx context.Context, key string) (*entity.OneTimeCode, error) {
	c, err := l.OTP.Get(ctx, key)
	l.read.Done()
	l.read.Wait()
	return c, err
}

func TestOTP_CanjeConcurrenteEmiteUnaSolaSesion(t *testing.T) {
	f := newAuthFixture(t)
	sender := &captureSender{codes: map[string]string{}}
	const n = 4
	store := &lockstepOTP{OTP: f.store.OTP}
	svc := NewOTPService(f.uc, store, sender, OTPConfig{TTL: 5 * time.Minute, Length: 6, MaxAttempts: 3}, logger.Nop())
	svc.hashCost = bcrypt.MinCost
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, dto.RequestOTPRequest{CompanyCode: "acme", Identifier: "emp-1"}))
	code := sender.codes["emp-1"]

	store.read.Add(n)
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		ok     int
		denied int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{CompanyCode: "acme", Identifier: "emp-1", Code: code})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrUnauthorized):
				denied++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, denied)
	assert.False(t, f.store.OTP.Has(otpKey(acmeID, "emp-1")))
}

func TestOTP_GerenteConservaUserID(t *testing.T) {
	f := newAuthFixture(t)
	svc, sender := newOTP(t, f)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, dto.RequestOTPRequest{CompanyCode: "acme", Identifier: "gerente@acme.co"}))
	out, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{CompanyCode: "acme", Identifier: "gerente@acme.co", Code: sender.codes["gerente@acme.co"]})
	require.NoError(t, err)
	sc, err := f.tokens.Verify(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-mgr", sc.UserID)
}

func TestOTP_IntentosAgotadosInvalidanElCodigo(t *testing.T) {
	f := newAuthFixture(t)
	svc, sender := newOTP(t, f)
	ctx := context.Background()

	require.NoError(t, svc.RequestCode(ctx, dto.RequestOTPRequest{CompanyCode: "acme", Identifier: "emp-1"}))
	code := sender.codes["emp-1"]
	for i := 0; i < 3; i++ {
		_, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{CompanyCode: "acme", Identifier: "emp-1", Code: wrongCode(code)})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
	assert.False(t, f.store.OTP.Has(otpKey(acmeID, "emp-1")))

	_, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{CompanyCode: "acme", Identifier: "emp-1", Code: code})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "el código correcto ya no sirve")
}

func TestOTP_Vencido(t *testing.T) {
	f := newAuthFixture(t)
	svc, sender := newOTP(t, f)
	ctx := context.Background()
	now := time.Now()
	f.store.OTP.Now = func() time.Time { return now }

	require.NoError(t, svc.RequestCode(ctx, dto.RequestOTPRequest{CompanyCode: "acme", Identifier: "emp-1"}))
	f.store.OTP.Now = func() time.Time { return now.Add(6 * time.Minute) }

	_, err := svc.VerifyCode(ctx, dto.VerifyOTPRequest{CompanyCode: "acme", Identifier: "emp-1", Code: sender.codes["emp-1"]})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestOTP_DesconocidosNoRevelanNada(t *testing.T) {
	f := newAuthFixture(t)
	svc, sender := newOTP(t, f)
	ctx := context.Background()

	assert.NoError(t, svc.RequestCode(ctx, dto.RequestOTPRequest{CompanyCode: "globex", Identifier: "emp-1"}))
	assert.NoError(t, svc.RequestCode(ctx, dto.RequestOTPRequest{CompanyCode: "acme", Identifier: "nadie@acme.co"}))
	assert.Empty(t, sender.codes)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 20; i++ {
		c, err := generateCode(6)
		require.NoError(t, err)
		require.Len(t, c, 6)
		for _, r := range c {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
