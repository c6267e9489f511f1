package commands

import (
	"fmt"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/masking"

	"github.com/spf13/cobra"
)

// mappingView is the printable form of a mapping; the account number stays masked
type mappingView struct {
	Token               string    `json:"token" yaml:"token"`
	MaskedAccountNumber string    `json:"maskedAccountNumber" yaml:"maskedAccountNumber"`
	DateTimeCreated     time.Time `json:"dateTimeCreated" yaml:"dateTimeCreated"`
}

type countView struct {
	Count int64 `json:"count" yaml:"count"`
}

type purgeView struct {
	Removed int64     `json:"removed" yaml:"removed"`
	Cutoff  time.Time `json:"cutoff" yaml:"cutoff"`
}

// MappingCommandHandler encapsulates the token store administration commands
type MappingCommandHandler struct {
	opts *Options
}

// NewMappingCommandHandler creates a MappingCommandHandler
func NewMappingCommandHandler(opts *Options) *MappingCommandHandler {
	return &MappingCommandHandler{opts: opts}
}

// ListCmd prints a page of mappings, newest first
func (commandHandler *MappingCommandHandler) ListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("invalid limit flag: %w", err)
	}
	offset, err := cmd.Flags().GetInt("offset")
	if err != nil {
		return fmt.Errorf("invalid offset flag: %w", err)
	}

	query := &tokens.TokenMappingQuery{Limit: limit, Offset: offset}
	if err := query.Validate(); err != nil {
		return err
	}

	return withStore(cmd, commandHandler.opts, func(store *storeServices) error {
		mappings, err := store.mappings.List(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list mappings: %w", err)
		}

		views := make([]mappingView, 0, len(mappings))
		for _, mapping := range mappings {
			views = append(views, mappingView{
				Token:               mapping.Token,
				MaskedAccountNumber: masking.MaskAccountNumber(mapping.AccountNumber),
				DateTimeCreated:     mapping.DateTimeCreated,
			})
		}
		return printResult(cmd.OutOrStdout(), commandHandler.opts.Output, views)
	})
}

// CountCmd prints the number of stored mappings
func (commandHandler *MappingCommandHandler) CountCmd(cmd *cobra.Command, _ []string) error {
	return withStore(cmd, commandHandler.opts, func(store *storeServices) error {
		count, err := store.mappings.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count mappings: %w", err)
		}
		return printResult(cmd.OutOrStdout(), commandHandler.opts.Output, countView{Count: count})
	})
}

// DeleteCmd removes the mapping of a token. Running REST servers keep their own
// token cache, so they may still resolve the token until the cache TTL runs out.
func (commandHandler *MappingCommandHandler) DeleteCmd(cmd *cobra.Command, args []string) error {
	return withStore(cmd, commandHandler.opts, func(store *storeServices) error {
		if err := store.mappings.DeleteByToken(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete mapping: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted mapping for token %s\n", args[0])
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: running REST servers may resolve this token from their cache for up to %s\n", store.cacheTTL)
		return nil
	})
}

// PurgeIdempotencyCmd removes idempotency records older than --older-than
func (commandHandler *MappingCommandHandler) PurgeIdempotencyCmd(cmd *cobra.Command, _ []string) error {
	olderThan, err := cmd.Flags().GetDuration("older-than")
	if err != nil {
		return fmt.Errorf("invalid older-than flag: %w", err)
	}
	if olderThan <= 0 {
		return fmt.Errorf("older-than must be positive, got %s", olderThan)
	}

	return withStore(cmd, commandHandler.opts, func(store *storeServices) error {
		cutoff := time.Now().UTC().Add(-olderThan)
		removed, err := store.idempotency.Purge(cmd.Context(), cutoff)
		if err != nil {
			return fmt.Errorf("failed to purge idempotency records: %w", err)
		}
		return printResult(cmd.OutOrStdout(), commandHandler.opts.Output, purgeView{Removed: removed, Cutoff: cutoff})
	})
}

// InitMappingCommands registers the mapping and idempotency administration commands
func InitMappingCommands(rootCmd *cobra.Command, opts *Options) {
	handler := NewMappingCommandHandler(opts)

	var mappingsCmd = &cobra.Command{
		Use:   "mappings",
		Short: "Inspect and manage stored token mappings",
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List mappings with masked account numbers",
		Args:  cobra.NoArgs,
		RunE:  handler.ListCmd,
	}
	listCmd.Flags().IntP("limit", "", 100, "Maximum number of mappings")
	listCmd.Flags().IntP("offset", "", 0, "Number of mappings to skip")
	mappingsCmd.AddCommand(listCmd)

	mappingsCmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Count mappings",
		Args:  cobra.NoArgs,
		RunE:  handler.CountCmd,
	})

	mappingsCmd.AddCommand(&cobra.Command{
		Use:   "delete TOKEN",
		Short: "Delete the mapping of a token",
		Args:  cobra.ExactArgs(1),
		RunE:  handler.DeleteCmd,
	})
	rootCmd.AddCommand(mappingsCmd)

	var idempotencyCmd = &cobra.Command{
		Use:   "idempotency",
		Short: "Manage stored idempotent responses",
	}
	var purgeCmd = &cobra.Command{
		Use:   "purge",
		Short: "Delete idempotency records older than a duration",
		Args:  cobra.NoArgs,
		RunE:  handler.PurgeIdempotencyCmd,
	}
	purgeCmd.Flags().Duration("older-than", 24*time.Hour, "Minimum record age")
	idempotencyCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(idempotencyCmd)
}
