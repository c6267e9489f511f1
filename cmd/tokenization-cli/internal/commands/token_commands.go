package commands

import (
	"fmt"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/masking"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/tokengen"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/validators"

	"github.com/spf13/cobra"
)

// TokenCommandHandler encapsulates logic for handling tokenization operations via CLI.
type TokenCommandHandler struct {
	opts *Options
}

// NewTokenCommandHandler creates a TokenCommandHandler
func NewTokenCommandHandler(opts *Options) *TokenCommandHandler {
	return &TokenCommandHandler{opts: opts}
}

// TokenizeCmd prints the token of every account number argument, in order
func (commandHandler *TokenCommandHandler) TokenizeCmd(cmd *cobra.Command, args []string) error {
	if err := checkBatch(args, validators.IsAccountNumber, "account number"); err != nil {
		return err
	}

	return withStore(cmd, commandHandler.opts, func(store *storeServices) error {
		tokenList, err := store.tokenization.Tokenize(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("failed to tokenize: %w", err)
		}
		return printResult(cmd.OutOrStdout(), commandHandler.opts.Output, tokenList)
	})
}

// DetokenizeCmd prints the account number of every token argument, in order
func (commandHandler *TokenCommandHandler) DetokenizeCmd(cmd *cobra.Command, args []string) error {
	if err := checkBatch(args, validators.IsToken, "token"); err != nil {
		return err
	}

	return withStore(cmd, commandHandler.opts, func(store *storeServices) error {
		accountNumbers, err := store.tokenization.Detokenize(cmd.Context(), args)
		if err != nil {
			return fmt.Errorf("failed to detokenize: %w", err)
		}
		return printResult(cmd.OutOrStdout(), commandHandler.opts.Output, accountNumbers)
	})
}

// MaskCmd prints the masked form of every argument
func (commandHandler *TokenCommandHandler) MaskCmd(cmd *cobra.Command, args []string) error {
	masked := make([]string, 0, len(args))
	for _, accountNumber := range args {
		masked = append(masked, masking.MaskAccountNumber(accountNumber))
	}
	return printResult(cmd.OutOrStdout(), commandHandler.opts.Output, masked)
}

// GenerateTokenCmd prints freshly generated tokens without persisting them
func (commandHandler *TokenCommandHandler) GenerateTokenCmd(cmd *cobra.Command, _ []string) error {
	length, err := cmd.Flags().GetInt("length")
	if err != nil {
		return fmt.Errorf("invalid length flag: %w", err)
	}
	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return fmt.Errorf("invalid count flag: %w", err)
	}
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	generator := tokengen.New()
	generated := make([]string, 0, count)
	for i := 0; i < count; i++ {
		token, err := generator.Generate(length)
		if err != nil {
			return err
		}
		generated = append(generated, token)
	}
	return printResult(cmd.OutOrStdout(), commandHandler.opts.Output, generated)
}

// checkBatch applies the request limits of the REST API to CLI arguments
func checkBatch(values []string, valid func(string) bool, kind string) error {
	if len(values) > tokens.MaxBatchSize {
		return fmt.Errorf("maximum %d values per request, got %d", tokens.MaxBatchSize, len(values))
	}
	for i, value := range values {
		if !valid(value) {
			return fmt.Errorf("argument %d: wrong %s format", i+1, kind)
		}
	}
	return nil
}

// InitTokenCommands registers tokenization related commands
func InitTokenCommands(rootCmd *cobra.Command, opts *Options) {
	handler := NewTokenCommandHandler(opts)

	var tokenizeCmd = &cobra.Command{
		Use:   "tokenize ACCOUNT_NUMBER...",
		Short: "Tokenize account numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE:  handler.TokenizeCmd,
	}
	rootCmd.AddCommand(tokenizeCmd)

	var detokenizeCmd = &cobra.Command{
		Use:   "detokenize TOKEN...",
		Short: "Resolve tokens to account numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE:  handler.DetokenizeCmd,
	}
	rootCmd.AddCommand(detokenizeCmd)

	var maskCmd = &cobra.Command{
		Use:   "mask ACCOUNT_NUMBER...",
		Short: "Mask account numbers the way logs and events show them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  handler.MaskCmd,
	}
	rootCmd.AddCommand(maskCmd)

	var generateTokenCmd = &cobra.Command{
		Use:   "generate-token",
		Short: "Generate random tokens without storing them",
		Args:  cobra.NoArgs,
		RunE:  handler.GenerateTokenCmd,
	}
	generateTokenCmd.Flags().IntP("length", "", tokens.TokenLength, "Token length")
	generateTokenCmd.Flags().IntP("count", "", 1, "Number of tokens to generate")
	rootCmd.AddCommand(generateTokenCmd)
}
