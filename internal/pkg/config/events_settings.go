package config

import (
	"fmt"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/validators"
)

// EventSettings configures publishing of tokenization events to Kafka.
// GroupID is only read by consumers such as the CLI tail command.
type EventSettings struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers" validate:"required,min=1,dive,hostname_port"`
	Topic      string   `mapstructure:"topic" validate:"required"`
	BufferSize int      `mapstructure:"buffer_size" validate:"gt=0"`
	GroupID    string   `mapstructure:"group_id"`
}

// Validate checks that all fields in EventSettings are valid.
// Disabled event publishing needs no further settings.
func (s *EventSettings) Validate() error {
	if !s.Enabled {
		return nil
	}

	validate, err := validators.New()
	if err != nil {
		return err
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for EventSettings: %w", err)
	}

	return nil
}
