// Package redisstore almacén de códigos de un solo uso sobre Redis: el vencimiento
// lo aplica Redis (TTL nativo) y no hace falta purga programada.
package redisstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Workforce-api/internal/domain"
	"github.com/jhoicas/Workforce-api/internal/domain/entity"
	"github.com/jhoicas/Workforce-api/internal/domain/repository"
	"github.com/jhoicas/Workforce-api/pkg/config"
)

// keyPrefix separa las claves de la app en un Redis compartido.
const keyPrefix = "workforce:"

var _ repository.OTPStore = (*OTPStore)(nil)

// incrScript incrementa intentos solo si la clave sigue viva; 0 si ya no existe.
var incrScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end
return redis.call("HINCRBY", KEYS[1], "attempts", 1)
`)

// OTPStore guarda cada código como hash {code_hash, attempts} con TTL.
type OTPStore struct {
	client  redis.UniversalClient
	timeout time.Duration
}

// NewClient abre el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, domain.Infra("redis ping", err)
	}
	return client, nil
}

func NewOTPStore(client redis.UniversalClient, timeout time.Duration) *OTPStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OTPStore{client: client, timeout: timeout}
}

func (s *OTPStore) Put(ctx context.Context, key, codeHash string, ttl time.Duration) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	k := keyPrefix + key
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.HSet(ctx, k, "code_hash", codeHash, "attempts", 0)
		p.PExpire(ctx, k, ttl)
		return nil
	})
	return domain.Infra("redis put otp", err)
}

func (s *OTPStore) Get(ctx context.Context, key string) (*entity.OneTimeCode, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	k := keyPrefix + key

	var fields *redis.MapStringStringCmd
	var ttl *redis.DurationCmd
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		fields = p.HGetAll(ctx, k)
		ttl = p.PTTL(ctx, k)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, domain.Infra("redis get otp", err)
	}
	vals := fields.Val()
	if len(vals) == 0 || ttl.Val() <= 0 {
		return nil, nil
	}
	attempts, _ := strconv.Atoi(vals["attempts"])
	return &entity.OneTimeCode{
		Key:       key,
		CodeHash:  vals["code_hash"],
		Attempts:  attempts,
		ExpiresAt: time.Now().Add(ttl.Val()),
	}, nil
}

func (s *OTPStore) IncrementAttempts(ctx context.Context, key string) (int, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	n, err := incrScript.Run(ctx, s.client, []string{keyPrefix + key}).Int()
	if err != nil {
		return 0, domain.Infra("redis increment otp", err)
	}
	return n, nil
}

// Consume gana quien borra la clave: DEL devuelve 1 una sola vez.
func (s *OTPStore) Consume(ctx context.Context, key string) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	n, err := s.client.Del(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, domain.Infra("redis consume otp", err)
	}
	return n == 1, nil
}

func (s *OTPStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	return domain.Infra("redis delete otp", s.client.Del(ctx, keyPrefix+key).Err())
}

func (s *OTPStore) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}
