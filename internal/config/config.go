package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source kinds.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// WellKnownPath is where the ticket document is published.
const WellKnownPath = "/zendesk_mock_tickets_llm_flavor.json"

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig          `yaml:"app"`
	Source       SourceConfig       `yaml:"source"`
	Postgres     PostgresConfig     `yaml:"postgres"`
	Redis        RedisConfig        `yaml:"redis"`
	Logger       LoggerConfig       `yaml:"logger"`
	Export       ExportConfig       `yaml:"export"`
	Notification NotificationConfig `yaml:"notification"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `yaml:"name"`
	Env                   string `yaml:"env"`
	Host                  string `yaml:"host"`
	Port                  string `yaml:"port"`
	Version               string `yaml:"version"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	PublicDir             string `yaml:"public_dir"`
}

// SourceConfig selects where tickets are loaded from.
type SourceConfig struct {
	Kind                string `yaml:"kind"`
	BaseURL             string `yaml:"base_url"`
	Path                string `yaml:"path"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	ReloadSchedule      string `yaml:"reload_schedule"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConns       int32  `yaml:"max_conns"`
	MinConns       int32  `yaml:"min_conns"`
	RunMigrations  bool   `yaml:"run_migrations"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds"`
}

// RedisConfig holds Redis connection values. An empty Addr disables the cache.
type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// ExportConfig controls the CSV download.
type ExportConfig struct {
	Filename string `yaml:"filename"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	WebhookURL string `yaml:"webhook_url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		App: AppConfig{
			Name:                  "ticket-dashboard",
			Env:                   "development",
			Host:                  "0.0.0.0",
			Port:                  "8080",
			Version:               "dev",
			RequestTimeoutSeconds: 30,
			PublicDir:             "public",
		},
		Source: SourceConfig{
			Kind:                SourceFile,
			Path:                "public" + WellKnownPath,
			FetchTimeoutSeconds: 10,
		},
		Postgres: PostgresConfig{
			MaxConns:       10,
			MinConns:       2,
			ConnMaxIdleSec: 30,
			ConnMaxLifeSec: 300,
		},
		Redis: RedisConfig{
			CacheTTLMinutes: 60,
		},
		Logger: LoggerConfig{Level: "info"},
		Export: ExportConfig{Filename: "tickets_filtered.csv"},
	}
}

// Load reads configuration from defaults, an optional YAML file (CONFIG_PATH, default
// config.yaml) and environment variables, in increasing precedence.
func Load() (*Config, error) {
	return LoadFrom(getEnv("CONFIG_PATH", "config.yaml"))
}

// LoadFrom is Load with an explicit YAML path. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	envString(&cfg.App.Name, "APP_NAME")
	envString(&cfg.App.Env, "APP_ENV")
	envString(&cfg.App.Host, "APP_HOST")
	envString(&cfg.App.Port, "APP_PORT")
	envString(&cfg.App.Version, "APP_VERSION")
	envInt(&cfg.App.RequestTimeoutSeconds, "HTTP_REQUEST_TIMEOUT_SECONDS")
	envString(&cfg.App.PublicDir, "APP_PUBLIC_DIR")

	envString(&cfg.Source.Kind, "SOURCE_KIND")
	envString(&cfg.Source.BaseURL, "SOURCE_BASE_URL")
	envString(&cfg.Source.Path, "SOURCE_PATH")
	envInt(&cfg.Source.FetchTimeoutSeconds, "SOURCE_FETCH_TIMEOUT_SECONDS")
	envString(&cfg.Source.ReloadSchedule, "SOURCE_RELOAD_SCHEDULE")

	envString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	envInt32(&cfg.Postgres.MaxConns, "POSTGRES_MAX_CONNS")
	envInt32(&cfg.Postgres.MinConns, "POSTGRES_MIN_CONNS")
	envBool(&cfg.Postgres.RunMigrations, "POSTGRES_RUN_MIGRATIONS")
	envInt32(&cfg.Postgres.ConnMaxIdleSec, "POSTGRES_CONN_MAX_IDLE_SECONDS")
	envInt32(&cfg.Postgres.ConnMaxLifeSec, "POSTGRES_CONN_MAX_LIFE_SECONDS")

	envString(&cfg.Redis.Addr, "REDIS_ADDR")
	envString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if val := os.Getenv("REDIS_DB"); val != "" {
		db, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	envInt(&cfg.Redis.CacheTTLMinutes, "REDIS_CACHE_TTL_MINUTES")

	envString(&cfg.Logger.Level, "LOG_LEVEL")
	envString(&cfg.Export.Filename, "EXPORT_FILENAME")
	envString(&cfg.Notification.WebhookURL, "NOTIFY_WEBHOOK_URL")
	return nil
}

// Validate checks the combinations Load cannot default its way out of.
func (c Config) Validate() error {
	c.Source.Kind = strings.ToLower(strings.TrimSpace(c.Source.Kind))
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Path == "" {
			return errors.New("SOURCE_PATH required for file source")
		}
	case SourceHTTP:
		if c.Source.BaseURL == "" {
			return errors.New("SOURCE_BASE_URL required for http source")
		}
	case SourcePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN required for postgres source")
		}
	default:
		return fmt.Errorf("unknown SOURCE_KIND %q", c.Source.Kind)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// FetchTimeout bounds a single source load.
func (s SourceConfig) FetchTimeout() time.Duration {
	if s.FetchTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.FetchTimeoutSeconds) * time.Second
}

// NormalizedKind returns the lower-cased source kind.
func (s SourceConfig) NormalizedKind() string {
	return strings.ToLower(strings.TrimSpace(s.Kind))
}

// CacheTTL returns how long cached snapshots live.
func (r RedisConfig) CacheTTL() time.Duration {
	if r.CacheTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(r.CacheTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(dst *int, key string) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	if parsed, err := strconv.Atoi(val); err == nil {
		*dst = parsed
	}
}

func envInt32(dst *int32, key string) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	if parsed, err := strconv.ParseInt(val, 10, 32); err == nil {
		*dst = int32(parsed)
	}
}

func envBool(dst *bool, key string) {
	val := os.Getenv(key)
	if val == "" {
		return
	}
	if parsed, err := strconv.ParseBool(val); err == nil {
		*dst = parsed
	}
}
