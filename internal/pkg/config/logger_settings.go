package config

import (
	"fmt"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/validators"
)

// Log level constants
const (
	LogLevelInfo     = "info"
	LogLevelDebug    = "debug"
	LogLevelError    = "error"
	LogLevelWarning  = "warning"
	LogLevelCritical = "critical"
)

// Log type constants
const (
	LogTypeConsole = "console"
	LogTypeFile    = "file"
)

// LoggerSettings configures the service logger. Console logs go to stdout;
// file logs are JSON and rotated by size, so the rotation limits are mandatory for them.
type LoggerSettings struct {
	LogLevel   string `mapstructure:"log_level" validate:"required,oneof=info debug error warning critical"`
	LogType    string `mapstructure:"log_type" validate:"required,oneof=console file"`
	FilePath   string `mapstructure:"file_path" validate:"required_if=LogType file"`
	MaxSize    int    `mapstructure:"max_size" validate:"required_if=LogType file,gte=0,lte=100"`
	MaxBackups int    `mapstructure:"max_backups" validate:"required_if=LogType file,gte=0,lte=10"`
	MaxAge     int    `mapstructure:"max_age" validate:"required_if=LogType file,gte=0,lte=365"`
}

// Validate checks the level, the type and, for file logs, the rotation limits
func (s *LoggerSettings) Validate() error {
	validate, err := validators.New()
	if err != nil {
		return err
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for LoggerSettings: %w", err)
	}

	return nil
}
