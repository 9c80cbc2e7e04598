package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Workforce-api/internal/domain/entity"
)

// OTPStore almacén clave-valor con vencimiento para códigos de un solo uso.
// Get devuelve (nil, nil) si la clave no existe o ya venció.
// Consume borra la clave vigente de forma atómica: solo un llamador recibe true.
type OTPStore interface {
	Put(ctx context.Context, key, codeHash string, ttl time.Duration) error
	Get(ctx context.Context, key string) (*entity.OneTimeCode, error)
	IncrementAttempts(ctx context.Context, key string) (int, error)
	Consume(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}
