package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Workforce-api/pkg/config"
)

// Requiere un Redis real: REDIS_TEST_ADDR=localhost:6379 go test ./internal/infrastructure/redisstore/
func newTestStore(t *testing.T) *OTPStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR no definido")
	}
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewOTPStore(client, time.Second)
}

func TestOTPStore_CicloCompleto(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	require.NoError(t, s.Put(ctx, key, "hash", time.Minute))
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hash", got.CodeHash)
	assert.Equal(t, 0, got.Attempts)
	assert.True(t, got.ExpiresAt.After(time.Now()))

	n, err := s.IncrementAttempts(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Put reemplaza el código y reinicia intentos.
	require.NoError(t, s.Put(ctx, key, "otro", time.Minute))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "otro", got.CodeHash)
	assert.Equal(t, 0, got.Attempts)

	require.NoError(t, s.Delete(ctx, key))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOTPStore_IncrementoSobreClaveInexistente(t *testing.T) {
	s := newTestStore(t)
	n, err := s.IncrementAttempts(context.Background(), "test:"+uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOTPStore_VenceConTTL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	require.NoError(t, s.Put(ctx, key, "hash", 50*time.Millisecond))
	time.Sleep(120 * time.Millisecond)
	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}
