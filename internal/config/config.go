package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres | memory; memory also keeps login sessions in process
	StoreBackend   string `toml:"store_backend"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	SessionTTL                     time.Duration `toml:"session_ttl"`
	SessionsCleanupInterval        time.Duration `toml:"sessions_cleanup_interval"`
	RegisterRateLimitAllowedPerMin int           `toml:"register_rate_limit_allowed_per_min"`
	AllowedOrigins                 []string      `toml:"allowed_origins"`

	// timer tick period, one second unless testing
	TimerTickInterval time.Duration `toml:"timer_tick_interval"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config of env, defaults filled in.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in [%s]", env, path)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config [%s]: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = StoreBackendPostgres
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 7 * 24 * time.Hour
	}
	if c.SessionsCleanupInterval == 0 {
		c.SessionsCleanupInterval = 8 * time.Hour
	}
	if c.TimerTickInterval == 0 {
		c.TimerTickInterval = time.Second
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}
	switch c.StoreBackend {
	case StoreBackendMemory:
	case StoreBackendPostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			errs = append(errs, errors.New("postgres host, port and db name required"))
		}
		if c.RedisHost == "" || c.RedisPort == "" {
			errs = append(errs, errors.New("redis host and port required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store backend [%s]", c.StoreBackend))
	}
	if c.TimerTickInterval < 0 {
		errs = append(errs, errors.New("timer tick interval must be positive"))
	}
	return errors.Join(errs...)
}

// Secrets come from FITPULSE_* environment variables, never from the TOML file.
type Secrets struct {
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD"`
	RedisPassword    string `envconfig:"REDIS_PASS"`
	SentryDSN        string `envconfig:"SENTRY_DSN"`
	HoneycombEnabled bool   `envconfig:"HONEYCOMB_ENABLED" default:"false"`
}

func LoadSecrets() (*Secrets, error) {
	var s Secrets
	if err := envconfig.Process("fitpulse", &s); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}
