package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "rejoice"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Stripe       StripeConfig
	AuthThrottle AuthThrottleConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Stripe.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REJOICE_APP_ENV" required:"true"`
	Port         string `envconfig:"REJOICE_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"REJOICE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REJOICE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"REJOICE_DB_DSN" required:"true"`

	MaxOpenConns    int           `envconfig:"REJOICE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REJOICE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REJOICE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REJOICE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REJOICE_REDIS_URL"`
	Address      string        `envconfig:"REJOICE_REDIS_ADDR"`
	Password     string        `envconfig:"REJOICE_REDIS_PASSWORD"`
	DB           int           `envconfig:"REJOICE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REJOICE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REJOICE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REJOICE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REJOICE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REJOICE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"REJOICE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"REJOICE_JWT_ISSUER" default:"rejoice-api"`
	ExpirationMinutes int    `envconfig:"REJOICE_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REJOICE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REJOICE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REJOICE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REJOICE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REJOICE_ARGON_KEY_LEN" default:"32"`
}

// StripeEnv values accepted by StripeConfig.Env. Mock mode makes the
// no-credentials development affordance explicit instead of inferring it
// from key patterns.
const (
	StripeEnvTest = "test"
	StripeEnvLive = "live"
	StripeEnvMock = "mock"
)

type StripeConfig struct {
	APIKey        string `envconfig:"REJOICE_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"REJOICE_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"REJOICE_STRIPE_ENV" default:"mock"`
}

// Environment returns the normalized Stripe environment (test/live/mock).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return StripeEnvMock
	}
	return env
}

// IsMock reports whether the API should fabricate payment intents locally.
func (s StripeConfig) IsMock() bool {
	return s.Environment() == StripeEnvMock
}

func (s StripeConfig) validate() error {
	switch s.Environment() {
	case StripeEnvMock:
		return nil
	case StripeEnvTest, StripeEnvLive:
		if strings.TrimSpace(s.APIKey) == "" {
			return fmt.Errorf("REJOICE_STRIPE_API_KEY is required when REJOICE_STRIPE_ENV=%s", s.Environment())
		}
		if strings.TrimSpace(s.WebhookSecret) == "" {
			return fmt.Errorf("REJOICE_STRIPE_WEBHOOK_SECRET is required when REJOICE_STRIPE_ENV=%s", s.Environment())
		}
		return nil
	default:
		return fmt.Errorf("REJOICE_STRIPE_ENV must be %q, %q or %q", StripeEnvTest, StripeEnvLive, StripeEnvMock)
	}
}

type AuthThrottleConfig struct {
	LoginWindow      time.Duration `envconfig:"REJOICE_THROTTLE_LOGIN_WINDOW" default:"1m"`
	LoginPerIP       int           `envconfig:"REJOICE_THROTTLE_LOGIN_PER_IP" default:"20"`
	LoginPerEmail    int           `envconfig:"REJOICE_THROTTLE_LOGIN_PER_EMAIL" default:"5"`
	RegisterWindow   time.Duration `envconfig:"REJOICE_THROTTLE_REGISTER_WINDOW" default:"1m"`
	RegisterPerIP    int           `envconfig:"REJOICE_THROTTLE_REGISTER_PER_IP" default:"10"`
	RegisterPerEmail int           `envconfig:"REJOICE_THROTTLE_REGISTER_PER_EMAIL" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"REJOICE_AUTO_MIGRATE" default:"false"`
}
