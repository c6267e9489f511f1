//go:build unit
// +build unit

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerSettings_FromServiceConfig(t *testing.T) {
	tests := []struct {
		name      string
		logger    string
		wantTag   string
		wantLevel string
		wantType  string
	}{
		{
			name:      "console logger keeps unused rotation limits",
			logger:    "  log_level: warning\n  log_type: console\n  max_size: 100\n  max_backups: 5\n  max_age: 30\n",
			wantLevel: LogLevelWarning,
			wantType:  LogTypeConsole,
		},
		{
			name:      "rotated file logger",
			logger:    "  log_level: critical\n  log_type: file\n  file_path: /var/log/tokenization/rest.log\n  max_size: 50\n  max_backups: 10\n  max_age: 365\n",
			wantLevel: LogLevelCritical,
			wantType:  LogTypeFile,
		},
		{
			name:    "file logger without a path",
			logger:  "  log_type: file\n  max_size: 50\n  max_backups: 3\n  max_age: 7\n",
			wantTag: "'FilePath' failed on the 'required_if' tag",
		},
		{
			name:    "file logger relying on zero rotation defaults",
			logger:  "  log_type: file\n  file_path: /var/log/tokenization/rest.log\n",
			wantTag: "'MaxSize' failed on the 'required_if' tag",
		},
		{
			name:    "file larger than the rotation ceiling",
			logger:  "  log_type: file\n  file_path: rest.log\n  max_size: 101\n  max_backups: 3\n  max_age: 7\n",
			wantTag: "'MaxSize' failed on the 'lte' tag",
		},
		{
			name:    "too many backups",
			logger:  "  log_type: file\n  file_path: rest.log\n  max_size: 10\n  max_backups: 11\n  max_age: 7\n",
			wantTag: "'MaxBackups' failed on the 'lte' tag",
		},
		{
			name:    "negative retention on console",
			logger:  "  log_type: console\n  max_age: -1\n",
			wantTag: "'MaxAge' failed on the 'gte' tag",
		},
		{
			name:    "unknown level",
			logger:  "  log_level: trace\n",
			wantTag: "'LogLevel' failed on the 'oneof' tag",
		},
		{
			name:    "unknown type",
			logger:  "  log_type: syslog\n",
			wantTag: "'LogType' failed on the 'oneof' tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := InitializeRestConfig(writeConfig(t, "logger:\n"+tt.logger))

			if tt.wantTag != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "validation failed for LoggerSettings")
				assert.Contains(t, err.Error(), tt.wantTag)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, cfg.Logger.LogLevel)
			assert.Equal(t, tt.wantType, cfg.Logger.LogType)
		})
	}
}

func TestLoggerSettings_Defaults(t *testing.T) {
	cfg, err := InitializeRestConfig("")
	require.NoError(t, err)

	assert.Equal(t, LogLevelInfo, cfg.Logger.LogLevel)
	assert.Equal(t, LogTypeConsole, cfg.Logger.LogType)
	assert.Empty(t, cfg.Logger.FilePath)
}

func TestLoggerSettings_FileLoggerFromEnvironment(t *testing.T) {
	t.Setenv("TOKENIZATION_LOGGER_LOG_TYPE", LogTypeFile)
	t.Setenv("TOKENIZATION_LOGGER_FILE_PATH", "/tmp/tokenization.log")

	_, err := InitializeRestConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'MaxSize' failed on the 'required_if' tag")

	t.Setenv("TOKENIZATION_LOGGER_MAX_SIZE", "10")
	t.Setenv("TOKENIZATION_LOGGER_MAX_BACKUPS", "3")
	t.Setenv("TOKENIZATION_LOGGER_MAX_AGE", "28")

	cfg, err := InitializeRestConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tokenization.log", cfg.Logger.FilePath)
	assert.Equal(t, 10, cfg.Logger.MaxSize)
}
