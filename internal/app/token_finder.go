package app

import (
	"context"
	"fmt"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// tokenFinder resolves tokens through the token cache.
// Concurrent misses for one token share a single repository read.
type tokenFinder struct {
	tokenRepo tokens.TokenRepository
	cache     tokens.TokenCache
	group     singleflight.Group
	logger    logger.Logger
}

// NewTokenFinder creates a new tokenFinder instance
func NewTokenFinder(tokenRepo tokens.TokenRepository, cache tokens.TokenCache, logger logger.Logger) (tokens.TokenFinder, error) {
	if tokenRepo == nil || cache == nil {
		return nil, fmt.Errorf("token repository and cache are required")
	}
	return &tokenFinder{
		tokenRepo: tokenRepo,
		cache:     cache,
		logger:    logger,
	}, nil
}

// Resolve returns the account number of token. Unknown tokens are not cached.
func (f *tokenFinder) Resolve(ctx context.Context, token string) (string, error) {
	if accountNumber, ok := f.cache.Get(token); ok {
		return accountNumber, nil
	}

	// The shared read outlives any single caller; each caller still stops waiting on its own ctx.
	result := f.group.DoChan(token, func() (interface{}, error) {
		f.logger.Debug("Cache miss in ", tokens.CacheName, " for token ", token)

		mapping, err := f.tokenRepo.GetByToken(context.WithoutCancel(ctx), token)
		if err != nil {
			return "", err
		}

		f.cache.Put(token, mapping.AccountNumber)
		return mapping.AccountNumber, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}
