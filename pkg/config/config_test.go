package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 15, cfg.JWT.Expiration)
	assert.Equal(t, 168, cfg.JWT.RefreshExpiration)
	assert.Equal(t, "postgres", cfg.OTP.Store)
	assert.Equal(t, 5*time.Minute, cfg.OTP.TTL())
	assert.Equal(t, 5*time.Second, cfg.DB.QueryTimeout())
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, 1, cfg.DB.MinConns)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, time.UTC, cfg.App.Location())
}

func TestFromViper_EnvSobrescribe(t *testing.T) {
	v := viper.New()
	v.Set("JWT_EXPIRATION_MINUTES", "30")
	v.Set("APP_TIMEZONE", "America/Bogota")
	v.Set("OTP_STORE", "redis")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.JWT.Expiration)
	assert.Equal(t, "redis", cfg.OTP.Store)
	assert.Equal(t, "America/Bogota", cfg.App.Location().String())
}

func TestFromViper_SecretObligatorioEnProduccion(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_OTPStoreInvalido(t *testing.T) {
	v := viper.New()
	v.Set("OTP_STORE", "memcached")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "wf", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/wf?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
