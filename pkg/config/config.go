package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Catalog       CatalogConfig
	Checkout      CheckoutConfig
	Cron          CronConfig
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
	Env          string `envconfig:"KOYLUCE_APP_ENV" required:"true"`
	Port         string `envconfig:"KOYLUCE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KOYLUCE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KOYLUCE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"KOYLUCE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"KOYLUCE_DB_DSN"`
	Driver string `envconfig:"KOYLUCE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KOYLUCE_DB_HOST"`
	LegacyPort     int    `envconfig:"KOYLUCE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KOYLUCE_DB_USER"`
	LegacyPassword string `envconfig:"KOYLUCE_DB_PASSWORD"`
	LegacyName     string `envconfig:"KOYLUCE_DB_NAME"`
	LegacySSLMode  string `envconfig:"KOYLUCE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KOYLUCE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KOYLUCE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KOYLUCE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KOYLUCE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KOYLUCE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KOYLUCE_REDIS_ADDR"`
	Password     string        `envconfig:"KOYLUCE_REDIS_PASSWORD"`
	DB           int           `envconfig:"KOYLUCE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KOYLUCE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KOYLUCE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KOYLUCE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KOYLUCE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KOYLUCE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KOYLUCE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KOYLUCE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KOYLUCE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token lifetime configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KOYLUCE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KOYLUCE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KOYLUCE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KOYLUCE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KOYLUCE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KOYLUCE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KOYLUCE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KOYLUCE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KOYLUCE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KOYLUCE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KOYLUCE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KOYLUCE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KOYLUCE_AUTO_MIGRATE" default:"false"`
}

type CatalogConfig struct {
	RecentlyAddedWindow time.Duration `envconfig:"KOYLUCE_CATALOG_RECENTLY_ADDED_WINDOW" default:"336h"`
}

type CheckoutConfig struct {
	IdempotencyTTL time.Duration `envconfig:"KOYLUCE_CHECKOUT_IDEMPOTENCY_TTL" default:"24h"`
	// Flat courier fee in TL. Store pickup is always free.
	DeliveryCostTL decimal.Decimal `envconfig:"KOYLUCE_CHECKOUT_DELIVERY_COST_TL" default:"49.90"`
}

type CronConfig struct {
	RecentlyAddedInterval time.Duration `envconfig:"KOYLUCE_CRON_RECENTLY_ADDED_INTERVAL" default:"1h"`
	LockTTL               time.Duration `envconfig:"KOYLUCE_CRON_LOCK_TTL" default:"5m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
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
