package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
)

var _ repository.OTPStore = (*OTPStore)(nil)

// OTPStore códigos de un solo uso en la tabla one_time_codes. Las filas vencidas
// se ignoran al leer y las borra PurgeExpired (tarea programada).
type OTPStore struct {
	store
}

func NewOTPStore(db Querier, timeout time.Duration) *OTPStore {
	return &OTPStore{store: newStore(db, timeout)}
}

// Put guarda (o reemplaza) el código de la clave y reinicia los intentos.
func (s *OTPStore) Put(ctx context.Context, key, codeHash string, ttl time.Duration) error {
	query := `
		INSERT INTO one_time_codes (key, code_hash, attempts, expires_at)
		VALUES ($1, $2, 0, now() + make_interval(secs => $3))
		ON CONFLICT (key) DO UPDATE SET code_hash = EXCLUDED.code_hash, attempts = 0, expires_at = EXCLUDED.expires_at`
	return s.write(ctx, "put otp", func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, query, key, codeHash, ttl.Seconds())
		return err
	})
}

func (s *OTPStore) Get(ctx context.Context, key string) (*entity.OneTimeCode, error) {
	query := `SELECT key, code_hash, attempts, expires_at FROM one_time_codes WHERE key = $1 AND expires_at > now()`
	var code *entity.OneTimeCode
	err := s.read(ctx, "get otp", func(ctx context.Context) error {
		var c entity.OneTimeCode
		err := s.db.QueryRow(ctx, query, key).Scan(&c.Key, &c.CodeHash, &c.Attempts, &c.ExpiresAt)
		if notFound(err) {
			code = nil
			return nil
		}
		if err != nil {
			return err
		}
		code = &c
		return nil
	})
	return code, err
}

// IncrementAttempts suma un intento de forma atómica; 0 si la clave ya no existe.
func (s *OTPStore) IncrementAttempts(ctx context.Context, key string) (int, error) {
	query := `UPDATE one_time_codes SET attempts = attempts + 1 WHERE key = $1 RETURNING attempts`
	var attempts int
	err := s.write(ctx, "increment otp attempts", func(ctx context.Context) error {
		err := s.db.QueryRow(ctx, query, key).Scan(&attempts)
		if notFound(err) {
			attempts = 0
			return nil
		}
		return err
	})
	return attempts, err
}

func (s *OTPStore) Consume(ctx context.Context, key string) (bool, error) {
	var won bool
	err := s.write(ctx, "consume otp", func(ctx context.Context) error {
		tag, err := s.db.Exec(ctx, `DELETE FROM one_time_codes WHERE key = $1 AND expires_at > now()`, key)
		if err != nil {
			return err
		}
		won = tag.RowsAffected() == 1
		return nil
	})
	return won, err
}

func (s *OTPStore) Delete(ctx context.Context, key string) error {
	return s.write(ctx, "delete otp", func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, `DELETE FROM one_time_codes WHERE key = $1`, key)
		return err
	})
}

// PurgeExpired borra los códigos vencidos y devuelve cuántos eliminó.
func (s *OTPStore) PurgeExpired(ctx context.Context) (int64, error) {
	var n int64
	err := s.write(ctx, "purge otp", func(ctx context.Context) error {
		tag, err := s.db.Exec(ctx, `DELETE FROM one_time_codes WHERE expires_at <= now()`)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})
	return n, err
}
