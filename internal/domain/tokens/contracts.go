package tokens

import "context"

// TokenizationService defines the batch operations exposed to clients.
type TokenizationService interface {
	// Tokenize returns one token per account number, in input order.
	// Already tokenized account numbers keep their stored token.
	Tokenize(ctx context.Context, accountNumbers []string) ([]string, error)

	// Detokenize returns one account number per token, in input order.
	// The first unknown token fails the whole batch with a TokenNotFoundError.
	Detokenize(ctx context.Context, tokens []string) ([]string, error)
}

// TokenMappingService defines operator level access to stored mappings.
type TokenMappingService interface {
	// List returns stored mappings, newest first.
	List(ctx context.Context, query *TokenMappingQuery) ([]*TokenMapping, error)
	// Count returns the number of stored mappings.
	Count(ctx context.Context) (int64, error)
	// DeleteByToken removes a mapping and evicts it from the cache.
	DeleteByToken(ctx context.Context, token string) error
}

// TokenFinder resolves a single token, reading through the token cache
type TokenFinder interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// TokenRepository defines the interface for TokenMapping persistence
type TokenRepository interface {
	// Create adds a new TokenMapping, failing with ErrDuplicateMapping on conflicts
	Create(ctx context.Context, mapping *TokenMapping) error
	// GetByToken retrieves a TokenMapping by token
	GetByToken(ctx context.Context, token string) (*TokenMapping, error)
	// GetByAccountNumber retrieves a TokenMapping by account number
	GetByAccountNumber(ctx context.Context, accountNumber string) (*TokenMapping, error)
	// Count returns the number of stored mappings
	Count(ctx context.Context) (int64, error)
	// List lists TokenMappings with optional paging
	List(ctx context.Context, query *TokenMappingQuery) ([]*TokenMapping, error)
	// DeleteByToken deletes a TokenMapping by token
	DeleteByToken(ctx context.Context, token string) error
}

// CacheStats counts token cache outcomes since creation
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// TokenCache holds token to account number entries in memory
type TokenCache interface {
	Get(token string) (string, bool)
	Put(token, accountNumber string)
	Evict(token string)
	Clear()
	Len() int
	Stats() CacheStats
}

// TokenGenerator produces new random tokens
type TokenGenerator interface {
	Generate(length int) (string, error)
}

// EventPublisher announces new token mappings to downstream consumers
type EventPublisher interface {
	PublishTokenCreated(ctx context.Context, event TokenCreatedEvent) error
	Close() error
}
