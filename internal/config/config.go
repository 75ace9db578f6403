package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultJWTSecret = "dev-secret"
	// bcrypt rejects longer secrets.
	maxPasswordBytes = 72
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Throttle ThrottleConfig
	Admin    AdminBootstrapConfig
	CORS     CORSConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
	BcryptCost    int
}

// ThrottleConfig bounds failed login attempts per email.
type ThrottleConfig struct {
	MaxLoginAttempts int
	WindowMinutes    int
}

// AdminBootstrapConfig seeds the first administrator on startup when set.
type AdminBootstrapConfig struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// CORSConfig lists browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "donor-registry"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "5000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 0),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("AUTH_JWT_SECRET", defaultJWTSecret),
			TokenTTLHours: getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 120),
			BcryptCost:    getEnvAsInt("AUTH_BCRYPT_COST", 10),
		},
		Throttle: ThrottleConfig{
			MaxLoginAttempts: getEnvAsInt("THROTTLE_MAX_LOGIN_ATTEMPTS", 5),
			WindowMinutes:    getEnvAsInt("THROTTLE_WINDOW_MINUTES", 15),
		},
		Admin: AdminBootstrapConfig{
			Email:    os.Getenv("ADMIN_BOOTSTRAP_EMAIL"),
			Password: os.Getenv("ADMIN_BOOTSTRAP_PASSWORD"),
			FullName: getEnv("ADMIN_BOOTSTRAP_NAME", "Administrator"),
			Role:     getEnv("ADMIN_BOOTSTRAP_ROLE", "donor"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run safely with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.TokenTTLHours < 1 || c.Auth.TokenTTLHours > 168 {
		errs = append(errs, fmt.Errorf("AUTH_TOKEN_TTL_HOURS must be between 1 and 168, got %d", c.Auth.TokenTTLHours))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must not be empty"))
	}
	if c.App.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set in production"))
	}
	if c.Throttle.MaxLoginAttempts < 0 {
		errs = append(errs, errors.New("THROTTLE_MAX_LOGIN_ATTEMPTS must not be negative"))
	}
	if c.Admin.Email != "" && len(c.Admin.Password) < 6 {
		errs = append(errs, errors.New("ADMIN_BOOTSTRAP_PASSWORD must be at least 6 characters"))
	}
	if len(c.Admin.Password) > maxPasswordBytes {
		errs = append(errs, fmt.Errorf("ADMIN_BOOTSTRAP_PASSWORD must be at most %d bytes", maxPasswordBytes))
	}
	return errors.Join(errs...)
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether APP_ENV names a production deployment.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production") || strings.EqualFold(a.Env, "prod")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the lifetime of issued bearer tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// Window returns the sliding window for failed login counting.
func (t ThrottleConfig) Window() time.Duration {
	if t.WindowMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(t.WindowMinutes) * time.Minute
}

// Enabled reports whether an admin should be bootstrapped.
func (a AdminBootstrapConfig) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
