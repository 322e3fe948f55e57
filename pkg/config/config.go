package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BARSTOCK"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Engine       EngineConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"BARSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"BARSTOCK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BARSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BARSTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BARSTOCK_DB_DSN"`
	Driver string `envconfig:"BARSTOCK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"BARSTOCK_DB_HOST"`
	Port     int    `envconfig:"BARSTOCK_DB_PORT" default:"5432"`
	User     string `envconfig:"BARSTOCK_DB_USER"`
	Password string `envconfig:"BARSTOCK_DB_PASSWORD"`
	Name     string `envconfig:"BARSTOCK_DB_NAME"`
	SSLMode  string `envconfig:"BARSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BARSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BARSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BARSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BARSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BARSTOCK_REDIS_URL"`
	Address      string        `envconfig:"BARSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"BARSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"BARSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BARSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BARSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BARSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BARSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BARSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The engine
// runs without redis; only idempotency replay is lost.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// EngineConfig bounds the reservation engine's lock behavior. LockTimeout is
// applied per transaction as the Postgres lock_timeout; exceeding it surfaces
// as a retryable LOCK_TIMEOUT error.
type EngineConfig struct {
	LockTimeout time.Duration `envconfig:"BARSTOCK_ENGINE_LOCK_TIMEOUT" default:"3s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BARSTOCK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return fmt.Errorf("BARSTOCK_DB_DSN is required for the sqlite driver")
	}

	missing := []string{}
	for env, value := range map[string]string{
		"BARSTOCK_DB_HOST": db.Host,
		"BARSTOCK_DB_USER": db.User,
		"BARSTOCK_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either BARSTOCK_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
