package config

import (
	"fmt"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/validators"
)

// CacheSettings configures the token-to-account cache
type CacheSettings struct {
	TTL         time.Duration `mapstructure:"ttl" validate:"positive_duration"`
	MaximumSize int           `mapstructure:"maximum_size" validate:"gt=0"`
}

// IdempotencySettings configures how long idempotency records stay in the read-through cache
type IdempotencySettings struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"positive_duration"`
}

// TokenizationSettings groups the settings of the tokenization domain
type TokenizationSettings struct {
	Cache       CacheSettings       `mapstructure:"cache"`
	Idempotency IdempotencySettings `mapstructure:"idempotency"`
}

// Validate checks that all fields in TokenizationSettings are valid
func (s *TokenizationSettings) Validate() error {
	validate, err := validators.New()
	if err != nil {
		return err
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for TokenizationSettings: %w", err)
	}

	return nil
}
