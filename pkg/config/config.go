package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zonas IANA embebidas para contenedores sin tzdata

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	OTP     OTPConfig
	Redis   RedisConfig
	Swagger SwaggerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	Timezone string // zona de referencia para el "día" de asistencia (IANA)
	LogLevel string
}

// Location devuelve la zona horaria configurada; UTC si el nombre no es válido.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL         string
	Host                string
	Port                int
	User                string
	Password            string
	DBName              string
	SSLMode             string
	QueryTimeoutSeconds int // tope por consulta; las consultas no quedan colgadas
	MaxConns            int
	MinConns            int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	userInfo := url.UserPassword(c.User, c.Password)

	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}

	return u.String()
}

// QueryTimeout devuelve el timeout por consulta como time.Duration.
func (c DBConfig) QueryTimeout() time.Duration {
	if c.QueryTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret            string
	Expiration        int // minutos (access token)
	RefreshExpiration int // horas (refresh token)
	Issuer            string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// OTPConfig configuración de los códigos de un solo uso.
type OTPConfig struct {
	Store       string // "postgres" | "redis"
	TTLSeconds  int
	Length      int
	MaxAttempts int
	RateLimit   int // solicitudes por minuto e IP en /request-otp y /verify-otp
}

// TTL devuelve la vigencia de un código.
func (c OTPConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RedisConfig conexión a Redis (solo si OTP.Store == "redis").
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SwaggerConfig ubicación del swagger.json servido en /docs.
type SwaggerConfig struct {
	FilePath string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "workforce-pro"),
			Timezone: getString(v, "APP_TIMEZONE", "UTC"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:         getString(v, "DATABASE_URL", ""),
			Host:                getString(v, "DB_HOST", "localhost"),
			Port:                getInt(v, "DB_PORT", 5432),
			User:                getString(v, "DB_USER", "postgres"),
			Password:            getString(v, "DB_PASSWORD", ""),
			DBName:              getString(v, "DB_NAME", "workforce_pro"),
			SSLMode:             getString(v, "DB_SSLMODE", "disable"),
			QueryTimeoutSeconds: getInt(v, "DB_QUERY_TIMEOUT_SECONDS", 5),
			MaxConns:            getInt(v, "DB_MAX_CONNS", 10),
			MinConns:            getInt(v, "DB_MIN_CONNS", 1),
		},
		JWT: JWTConfig{
			Secret:            getString(v, "JWT_SECRET", ""),
			Expiration:        getInt(v, "JWT_EXPIRATION_MINUTES", 15),
			RefreshExpiration: getInt(v, "JWT_REFRESH_EXPIRATION_HOURS", 168),
			Issuer:            getString(v, "JWT_ISSUER", "workforce-pro"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		OTP: OTPConfig{
			Store:       getString(v, "OTP_STORE", "postgres"),
			TTLSeconds:  getInt(v, "OTP_TTL_SECONDS", 300),
			Length:      getInt(v, "OTP_LENGTH", 6),
			MaxAttempts: getInt(v, "OTP_MAX_ATTEMPTS", 5),
			RateLimit:   getInt(v, "OTP_RATE_LIMIT", 5),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Swagger: SwaggerConfig{
			FilePath: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
	}

	if cfg.JWT.Secret == "" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio en producción")
	}
	if cfg.OTP.Store != "postgres" && cfg.OTP.Store != "redis" {
		return nil, fmt.Errorf("config: OTP_STORE inválido %q (postgres|redis)", cfg.OTP.Store)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
