package app

import (
	"context"
	"fmt"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"
)

// tokenMappingService implements the TokenMappingService interface
type tokenMappingService struct {
	tokenRepo tokens.TokenRepository
	cache     tokens.TokenCache
	logger    logger.Logger
}

// NewTokenMappingService creates a new tokenMappingService instance
func NewTokenMappingService(tokenRepo tokens.TokenRepository, cache tokens.TokenCache, logger logger.Logger) (tokens.TokenMappingService, error) {
	if tokenRepo == nil || cache == nil {
		return nil, fmt.Errorf("token repository and cache are required")
	}
	return &tokenMappingService{
		tokenRepo: tokenRepo,
		cache:     cache,
		logger:    logger,
	}, nil
}

func (s *tokenMappingService) List(ctx context.Context, query *tokens.TokenMappingQuery) ([]*tokens.TokenMapping, error) {
	return s.tokenRepo.List(ctx, query)
}

func (s *tokenMappingService) Count(ctx context.Context) (int64, error) {
	return s.tokenRepo.Count(ctx)
}

// DeleteByToken removes the mapping and its cached entry
func (s *tokenMappingService) DeleteByToken(ctx context.Context, token string) error {
	if err := s.tokenRepo.DeleteByToken(ctx, token); err != nil {
		return err
	}

	s.cache.Evict(token)
	s.logger.Info("Removed token ", token, " from ", tokens.CacheName)
	return nil
}
