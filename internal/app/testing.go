//go:build integration
// +build integration

package app

import (
	"testing"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/cache"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/messaging"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/persistence"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/testutil"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/tokengen"

	"github.com/stretchr/testify/require"
)

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	TokenizationService tokens.TokenizationService
	TokenMappingService tokens.TokenMappingService
	IdempotencyService  idempotency.Service
	TokenCache          tokens.TokenCache

	DBContext *persistence.TestContext
}

// SetupTestServices wires the services against a fresh database
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	log := testutil.SetupTestLogger(t)
	dbContext := persistence.SetupTestDB(t, dbType)

	tokenCache, err := cache.NewTokenCache(config.CacheSettings{TTL: time.Minute, MaximumSize: 100}, log)
	require.NoError(t, err)

	finder, err := NewTokenFinder(dbContext.TokenRepo, tokenCache, log)
	require.NoError(t, err)

	tokenizationService, err := NewTokenizationService(dbContext.TokenRepo, finder, tokengen.New(), messaging.NewNoopPublisher(), nil, log)
	require.NoError(t, err)

	tokenMappingService, err := NewTokenMappingService(dbContext.TokenRepo, tokenCache, log)
	require.NoError(t, err)

	cacheService, err := cache.NewIdempotencyCacheService(time.Minute)
	require.NoError(t, err)
	cachedRepo, err := cache.NewCachedIdempotencyRepository(dbContext.IdempotencyRepo, cacheService)
	require.NoError(t, err)

	idempotencyService, err := NewIdempotencyService(cachedRepo, log)
	require.NoError(t, err)

	return &TestServices{
		TokenizationService: tokenizationService,
		TokenMappingService: tokenMappingService,
		IdempotencyService:  idempotencyService,
		TokenCache:          tokenCache,
		DBContext:           dbContext,
	}
}
