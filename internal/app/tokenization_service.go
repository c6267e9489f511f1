package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/masking"
)

// maxCreateAttempts bounds token regeneration after collisions
const maxCreateAttempts = 3

// TokenMetrics counts newly created mappings
type TokenMetrics interface {
	TokenCreated()
}

// tokenizationService implements the TokenizationService interface
type tokenizationService struct {
	tokenRepo tokens.TokenRepository
	finder    tokens.TokenFinder
	generator tokens.TokenGenerator
	publisher tokens.EventPublisher
	metrics   TokenMetrics
	logger    logger.Logger
}

// NewTokenizationService creates a new tokenizationService instance. metrics may be nil.
func NewTokenizationService(
	tokenRepo tokens.TokenRepository,
	finder tokens.TokenFinder,
	generator tokens.TokenGenerator,
	publisher tokens.EventPublisher,
	metrics TokenMetrics,
	logger logger.Logger,
) (tokens.TokenizationService, error) {
	if tokenRepo == nil || finder == nil || generator == nil || publisher == nil {
		return nil, fmt.Errorf("token repository, finder, generator and publisher are required")
	}
	return &tokenizationService{
		tokenRepo: tokenRepo,
		finder:    finder,
		generator: generator,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Tokenize returns the token of every account number, creating missing mappings.
func (s *tokenizationService) Tokenize(ctx context.Context, accountNumbers []string) ([]string, error) {
	result := make([]string, 0, len(accountNumbers))

	for _, accountNumber := range accountNumbers {
		token, err := s.tokenize(ctx, accountNumber)
		if err != nil {
			return nil, err
		}
		result = append(result, token)
	}

	return result, nil
}

func (s *tokenizationService) tokenize(ctx context.Context, accountNumber string) (string, error) {
	masked := masking.MaskAccountNumber(accountNumber)
	s.logger.Info("Tokenizing account ", masked)

	existing, err := s.tokenRepo.GetByAccountNumber(ctx, accountNumber)
	if err == nil {
		return existing.Token, nil
	}
	if !errors.Is(err, tokens.ErrMappingNotFound) {
		return "", fmt.Errorf("failed to look up account %s: %w", masked, err)
	}

	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		token, err := s.generator.Generate(tokens.TokenLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}

		mapping := &tokens.TokenMapping{
			Token:           token,
			AccountNumber:   accountNumber,
			DateTimeCreated: time.Now().UTC(),
		}

		err = s.tokenRepo.Create(ctx, mapping)
		if err == nil {
			s.created(ctx, mapping, masked)
			return token, nil
		}
		if !errors.Is(err, tokens.ErrDuplicateMapping) {
			return "", fmt.Errorf("failed to store token for account %s: %w", masked, err)
		}

		// Either a concurrent request stored this account first or the token collided
		existing, err := s.tokenRepo.GetByAccountNumber(ctx, accountNumber)
		if err == nil {
			return existing.Token, nil
		}
		if !errors.Is(err, tokens.ErrMappingNotFound) {
			return "", fmt.Errorf("failed to look up account %s: %w", masked, err)
		}
		s.logger.Warn(fmt.Sprintf("Token collision for account %s, regenerating (attempt %d)", masked, attempt))
	}

	return "", fmt.Errorf("failed to create a unique token for account %s after %d attempts", masked, maxCreateAttempts)
}

func (s *tokenizationService) created(ctx context.Context, mapping *tokens.TokenMapping, masked string) {
	s.logger.Info("Created token for account ", masked)

	if s.metrics != nil {
		s.metrics.TokenCreated()
	}

	event := tokens.TokenCreatedEvent{
		Token:               mapping.Token,
		MaskedAccountNumber: masked,
		DateTimeCreated:     mapping.DateTimeCreated,
	}
	if err := s.publisher.PublishTokenCreated(ctx, event); err != nil {
		s.logger.Warn("Token created event not published: ", err)
	}
}

// Detokenize resolves every token, failing on the first unknown one.
func (s *tokenizationService) Detokenize(ctx context.Context, tokenList []string) ([]string, error) {
	result := make([]string, 0, len(tokenList))

	for _, token := range tokenList {
		accountNumber, err := s.finder.Resolve(ctx, token)
		if err != nil {
			return nil, err
		}
		result = append(result, accountNumber)
	}

	return result, nil
}
