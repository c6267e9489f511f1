package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TOKENIZATION_DATABASE_DSN
const EnvPrefix = "TOKENIZATION"

// RestConfig holds the settings of the REST API process
type RestConfig struct {
	Port              string               `mapstructure:"port"`
	ReadHeaderTimeout time.Duration        `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration        `mapstructure:"shutdown_timeout"`
	Logger            LoggerSettings       `mapstructure:"logger"`
	Database          DatabaseSettings     `mapstructure:"database"`
	Tokenization      TokenizationSettings `mapstructure:"tokenization"`
	Resilience        ResilienceSettings   `mapstructure:"resilience"`
	Events            EventSettings        `mapstructure:"events"`
}

// Validate checks the process settings and every nested section
func (c *RestConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.ReadHeaderTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Tokenization.Validate(); err != nil {
		return err
	}
	if err := c.Resilience.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// InitializeRestConfig reads the YAML file at path, applies TOKENIZATION_* environment
// overrides on top and validates the result. An empty path uses defaults and environment only.
func InitializeRestConfig(path string) (*RestConfig, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg RestConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// setDefaults registers every key so that environment overrides apply without a config file
func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("read_header_timeout", 10*time.Second)
	v.SetDefault("shutdown_timeout", 15*time.Second)

	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 0)
	v.SetDefault("logger.max_backups", 0)
	v.SetDefault("logger.max_age", 0)

	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", ":memory:")
	v.SetDefault("database.name", "tokenization")

	v.SetDefault("tokenization.cache.ttl", 10*time.Minute)
	v.SetDefault("tokenization.cache.maximum_size", 1000)
	v.SetDefault("tokenization.idempotency.cache_ttl", 5*time.Minute)

	v.SetDefault("resilience.enabled", true)
	v.SetDefault("resilience.call_timeout", 2*time.Second)
	v.SetDefault("resilience.circuit_breaker.consecutive_failures", 5)
	v.SetDefault("resilience.circuit_breaker.open_timeout", 30*time.Second)
	v.SetDefault("resilience.circuit_breaker.half_open_max_requests", 3)
	v.SetDefault("resilience.retry.max_attempts", 3)
	v.SetDefault("resilience.retry.initial_interval", 50*time.Millisecond)
	v.SetDefault("resilience.retry.max_interval", 500*time.Millisecond)
	v.SetDefault("resilience.rate_limiter.requests_per_second", 500.0)
	v.SetDefault("resilience.rate_limiter.burst", 100)
	v.SetDefault("resilience.bulkhead.max_concurrent_calls", 25)
	v.SetDefault("resilience.bulkhead.max_wait", 100*time.Millisecond)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.topic", "tokenization.token-created")
	v.SetDefault("events.buffer_size", 256)
	v.SetDefault("events.group_id", "tokenization-cli")
}
