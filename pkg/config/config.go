package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "AIRBEAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv           = "AIRBEAR_APP_ENV"
	EnvPort             = "AIRBEAR_APP_PORT"
	EnvLogLevel         = "AIRBEAR_LOG_LEVEL"
	EnvDBDSN            = "AIRBEAR_DB_DSN"
	EnvDBHost           = "AIRBEAR_DB_HOST"
	EnvDBUser           = "AIRBEAR_DB_USER"
	EnvDBName           = "AIRBEAR_DB_NAME"
	EnvRedisURL         = "AIRBEAR_REDIS_URL"
	EnvJWTSecret        = "AIRBEAR_JWT_SECRET"
	EnvStripeAPIKey     = "AIRBEAR_STRIPE_API_KEY"
	EnvStripeSecret     = "AIRBEAR_STRIPE_SECRET"
	EnvCashTokenSecret  = "AIRBEAR_CASH_TOKEN_SECRET"
	EnvUseSQLite        = "AIRBEAR_USE_SQLITE"
	EnvStrictRides      = "AIRBEAR_STRICT_RIDE_TRANSITIONS"
	EnvCreditCompletion = "AIRBEAR_CREDIT_RIDE_COMPLETION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	Payments      PaymentsConfig
	CORS          CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AIRBEAR_APP_ENV" default:"dev"`
	Port         string `envconfig:"AIRBEAR_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"AIRBEAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AIRBEAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig selects the relational store. Leaving every field empty keeps the
// service on the in-memory store.
type DBConfig struct {
	DSN        string `envconfig:"AIRBEAR_DB_DSN"`
	SQLitePath string `envconfig:"AIRBEAR_SQLITE_PATH" default:"airbear.db"`

	LegacyHost     string `envconfig:"AIRBEAR_DB_HOST"`
	LegacyPort     int    `envconfig:"AIRBEAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AIRBEAR_DB_USER"`
	LegacyPassword string `envconfig:"AIRBEAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"AIRBEAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"AIRBEAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AIRBEAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AIRBEAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AIRBEAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AIRBEAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Enabled reports whether a Postgres DSN is available.
func (db DBConfig) Enabled() bool {
	return strings.TrimSpace(db.DSN) != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"AIRBEAR_REDIS_URL"`
	Address      string        `envconfig:"AIRBEAR_REDIS_ADDR"`
	Password     string        `envconfig:"AIRBEAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"AIRBEAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AIRBEAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AIRBEAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AIRBEAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AIRBEAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AIRBEAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"AIRBEAR_JWT_SECRET"`
	Issuer            string `envconfig:"AIRBEAR_JWT_ISSUER" default:"airbear"`
	ExpirationMinutes int    `envconfig:"AIRBEAR_JWT_EXPIRATION_MINUTES" default:"1440"`
}

func (j JWTConfig) Enabled() bool {
	return j.Secret != ""
}

type PasswordConfig struct {
	MinLength        int `envconfig:"AIRBEAR_PASSWORD_MIN_LENGTH" default:"8"`
	ArgonMemoryKB    int `envconfig:"AIRBEAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AIRBEAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AIRBEAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AIRBEAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AIRBEAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AIRBEAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AIRBEAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AIRBEAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AIRBEAR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AIRBEAR_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AIRBEAR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite             bool `envconfig:"AIRBEAR_USE_SQLITE" default:"false"`
	AutoMigrate           bool `envconfig:"AIRBEAR_AUTO_MIGRATE" default:"false"`
	SeedData              bool `envconfig:"AIRBEAR_SEED_DATA" default:"true"`
	StrictRideTransitions bool `envconfig:"AIRBEAR_STRICT_RIDE_TRANSITIONS" default:"false"`
	CreditRideCompletion  bool `envconfig:"AIRBEAR_CREDIT_RIDE_COMPLETION" default:"false"`
}

type StripeConfig struct {
	APIKey string `envconfig:"AIRBEAR_STRIPE_API_KEY"`
	Secret string `envconfig:"AIRBEAR_STRIPE_SECRET"`
	Env    string `envconfig:"AIRBEAR_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// Enabled reports whether both the API key and the webhook secret are set.
func (s StripeConfig) Enabled() bool {
	return strings.TrimSpace(s.APIKey) != "" && strings.TrimSpace(s.Secret) != ""
}

type PaymentsConfig struct {
	Currency        string        `envconfig:"AIRBEAR_PAYMENTS_CURRENCY" default:"usd"`
	CashTokenSecret string        `envconfig:"AIRBEAR_CASH_TOKEN_SECRET"`
	WebhookDedupTTL time.Duration `envconfig:"AIRBEAR_WEBHOOK_DEDUP_TTL" default:"72h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"AIRBEAR_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	missing := []string{}
	set := 0
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
			continue
		}
		set++
	}
	if set == 0 {
		return nil
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
