package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/app"
	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/cache"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/messaging"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/persistence"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/tokengen"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Output formats
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Options holds the persistent flags shared by every command
type Options struct {
	ConfigPath string
	Output     string
	LogLevel   string
}

// NewRootCommand builds the CLI with every command group registered
func NewRootCommand() (*cobra.Command, error) {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "tokenization-cli",
		Short: "Account number tokenization CLI tool",
		Long: `tokenization-cli replaces account numbers with opaque tokens and resolves them back.
It works directly against the configured token store, so it shares the database
of the REST service when pointed at the same configuration.

Configuration is read from --config (or CONFIG_PATH) and TOKENIZATION_* environment variables.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", os.Getenv("CONFIG_PATH"), "Path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", OutputJSON, "Output format: json or yaml")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", config.LogLevelWarning, "Log level written to stderr")

	InitTokenCommands(rootCmd, opts)
	InitMappingCommands(rootCmd, opts)
	InitEventCommands(rootCmd, opts)

	return rootCmd, nil
}

// setupLogger writes logs to stderr so that stdout only carries command output
func setupLogger(cmd *cobra.Command, opts *Options) logger.Logger {
	return logger.NewWriterLogger(opts.LogLevel, cmd.ErrOrStderr())
}

// printResult renders v in the selected output format
func printResult(w io.Writer, format string, v interface{}) error {
	switch format {
	case OutputJSON, "":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q (use json or yaml)", format)
	}
}

// storeServices are the services backed by the configured token store
type storeServices struct {
	db           *gorm.DB
	publisher    tokens.EventPublisher
	tokenization tokens.TokenizationService
	mappings     tokens.TokenMappingService
	idempotency  idempotency.Service
	cacheTTL     time.Duration
}

// Close flushes pending events and closes the database, reporting both failures
func (s *storeServices) Close() error {
	var flushErr error
	if err := s.publisher.Close(); err != nil {
		flushErr = fmt.Errorf("failed to flush events: %w", err)
	}
	return errors.Join(flushErr, persistence.CloseDB(s.db))
}

func loadConfig(opts *Options) (*config.RestConfig, error) {
	cfg, err := config.InitializeRestConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// withStore opens the token store, runs fn and closes the store again.
// A failing close is returned together with the error of fn.
func withStore(cmd *cobra.Command, opts *Options, fn func(store *storeServices) error) (err error) {
	store, err := openStore(opts, setupLogger(cmd, opts))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	return fn(store)
}

// openStore connects to the token store and wires the application services
func openStore(opts *Options, log logger.Logger) (*storeServices, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}
	return newStore(cfg, db, log)
}

// newStore takes ownership of db and closes it again when wiring fails
func newStore(cfg *config.RestConfig, db *gorm.DB, log logger.Logger) (_ *storeServices, err error) {
	store := &storeServices{
		db:        db,
		publisher: messaging.NewNoopPublisher(),
		cacheTTL:  cfg.Tokenization.Cache.TTL,
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, store.Close())
		}
	}()

	if err := persistence.Migrate(db); err != nil {
		return nil, err
	}

	tokenRepo, err := persistence.NewGormTokenRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create token repository: %w", err)
	}
	idempotencyRepo, err := persistence.NewGormIdempotencyRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create idempotency repository: %w", err)
	}

	tokenCache, err := cache.NewTokenCache(cfg.Tokenization.Cache, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache: %w", err)
	}

	finder, err := app.NewTokenFinder(tokenRepo, tokenCache, log)
	if err != nil {
		return nil, err
	}
	if cfg.Events.Enabled {
		publisher, err := messaging.NewKafkaPublisher(cfg.Events, nil, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create event publisher: %w", err)
		}
		store.publisher = publisher
	}

	if store.tokenization, err = app.NewTokenizationService(tokenRepo, finder, tokengen.New(), store.publisher, nil, log); err != nil {
		return nil, err
	}
	if store.mappings, err = app.NewTokenMappingService(tokenRepo, tokenCache, log); err != nil {
		return nil, err
	}
	if store.idempotency, err = app.NewIdempotencyService(idempotencyRepo, log); err != nil {
		return nil, err
	}

	return store, nil
}
