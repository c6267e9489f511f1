package config

import (
	"fmt"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/validators"
)

// CircuitBreakerSettings configures the circuit breaker guarding the token store
type CircuitBreakerSettings struct {
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures" validate:"gt=0"`
	OpenTimeout         time.Duration `mapstructure:"open_timeout" validate:"positive_duration"`
	HalfOpenMaxRequests uint32        `mapstructure:"half_open_max_requests" validate:"gt=0"`
}

// RetrySettings configures retries of transient token store failures
type RetrySettings struct {
	MaxAttempts     uint64        `mapstructure:"max_attempts" validate:"gt=0"`
	InitialInterval time.Duration `mapstructure:"initial_interval" validate:"positive_duration"`
	MaxInterval     time.Duration `mapstructure:"max_interval" validate:"positive_duration"`
}

// RateLimiterSettings configures the tokenize and detokenize request rate
type RateLimiterSettings struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst" validate:"gt=0"`
}

// BulkheadSettings bounds concurrent tokenize and detokenize requests
type BulkheadSettings struct {
	MaxConcurrentCalls int           `mapstructure:"max_concurrent_calls" validate:"gt=0"`
	MaxWait            time.Duration `mapstructure:"max_wait" validate:"positive_duration"`
}

// ResilienceSettings groups every policy applied around the token store
type ResilienceSettings struct {
	Enabled        bool                   `mapstructure:"enabled"`
	CallTimeout    time.Duration          `mapstructure:"call_timeout" validate:"positive_duration"`
	CircuitBreaker CircuitBreakerSettings `mapstructure:"circuit_breaker"`
	Retry          RetrySettings          `mapstructure:"retry"`
	RateLimiter    RateLimiterSettings    `mapstructure:"rate_limiter"`
	Bulkhead       BulkheadSettings       `mapstructure:"bulkhead"`
}

// Validate checks that all fields in ResilienceSettings are valid.
// Policies are only checked when resilience is enabled.
func (s *ResilienceSettings) Validate() error {
	if !s.Enabled {
		return nil
	}

	validate, err := validators.New()
	if err != nil {
		return err
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ResilienceSettings: %w", err)
	}

	if s.Retry.MaxInterval < s.Retry.InitialInterval {
		return fmt.Errorf("retry max interval must not be smaller than the initial interval")
	}

	return nil
}
