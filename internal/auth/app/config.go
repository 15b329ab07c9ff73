package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	DatabaseDriver       string        `koanf:"database-driver"`       // sqlite or postgres (default: sqlite)
	DatabaseURL          string        `koanf:"database-url"`          // SQLite file path or PostgreSQL DSN (default: tabauth.db)
	Env                  string        `koanf:"env"`                   // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        `koanf:"log-level"`             // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        `koanf:"log-format"`            // Log format (json, text) (default: json)
	Port                 int           `koanf:"port"`                  // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration `koanf:"shutdown-grace-period"` // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration `koanf:"housekeeping-interval"` // Stale session sweep interval, 0 disables (default: 0)
	Metrics              bool          `koanf:"metrics"`               // Serve GET /metrics (default: true)
	Tracing              bool          `koanf:"tracing"`               // Export spans to stderr (default: false)
}

// RegisterFlags adds every configuration key to fs. Defaults come from the
// environment so that flags, when set, override it.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("database-driver", getEnvOrDefault("AUTH_DATABASE_DRIVER", DriverSQLite), "database driver (sqlite, postgres)")
	fs.String("database-url", getEnvOrDefault("AUTH_DATABASE_URL", "tabauth.db"), "SQLite file path or PostgreSQL DSN")
	fs.String("env", getEnvOrDefault("ENV", "dev"), "environment (dev, staging, prod)")
	fs.String("log-level", getEnvOrDefault("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	fs.String("log-format", getEnvOrDefault("LOG_FORMAT", "json"), "log format (json, text)")
	fs.Int("port", getEnvIntOrDefault("PORT", 8080), "HTTP server port")
	fs.Duration("shutdown-grace-period",
		getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second), "graceful shutdown timeout")
	fs.Duration("housekeeping-interval",
		getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 0), "stale session sweep interval (0 disables)")
	fs.Bool("metrics", getEnvBoolOrDefault("AUTH_METRICS", true), "serve Prometheus metrics on /metrics")
	fs.Bool("tracing", getEnvBoolOrDefault("AUTH_TRACING", false), "export OpenTelemetry spans to stderr")
}

// LoadConfig resolves configuration from the flag defaults, the optional
// YAML file at path, and finally any flags set explicitly.
func LoadConfig(fs *pflag.FlagSet, path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Unchanged flags only fill keys the file left unset.
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database-url is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("port must be positive, got %d", c.Port)
	}
	if c.HousekeepingInterval < 0 {
		return fmt.Errorf("housekeeping-interval must not be negative")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
