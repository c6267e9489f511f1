//go:build unit
// +build unit

package resilience

import (
	"context"
	"testing"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuardedTokenizationService_AdmitsOncePerRequest(t *testing.T) {
	settings := testSettings()
	settings.RateLimiter = config.RateLimiterSettings{RequestsPerSecond: 0.001, Burst: 2}
	base := new(tokens.MockTokenizationService)
	service := NewGuardedTokenizationService(base, newTestPolicy(t, settings))
	ctx := context.Background()

	accounts := make([]string, 50)
	tokenList := make([]string, 50)
	for i := range accounts {
		accounts[i] = "1234 5678 9012 3456"
		tokenList[i] = "uS8vN3dph7ttuKMHbuk4Hsbbln1aAvLY"
	}
	base.On("Tokenize", mock.Anything, accounts).Return(tokenList, nil).Once()
	base.On("Detokenize", mock.Anything, tokenList).Return(accounts, nil).Once()

	result, err := service.Tokenize(ctx, accounts)
	require.NoError(t, err)
	assert.Equal(t, tokenList, result)

	resolved, err := service.Detokenize(ctx, tokenList)
	require.NoError(t, err)
	assert.Equal(t, accounts, resolved)

	_, err = service.Tokenize(ctx, accounts)
	assert.ErrorIs(t, err, ErrRateLimited)
	base.AssertExpectations(t)
}

func TestGuardedTokenizationService_ReleasesBulkheadSlot(t *testing.T) {
	settings := testSettings()
	settings.Bulkhead.MaxConcurrentCalls = 1
	base := new(tokens.MockTokenizationService)
	service := NewGuardedTokenizationService(base, newTestPolicy(t, settings))

	base.On("Detokenize", mock.Anything, mock.Anything).Return(nil, tokens.ErrTokenNotFound)

	for i := 0; i < 3; i++ {
		_, err := service.Detokenize(context.Background(), []string{"uS8vN3dph7ttuKMHbuk4Hsbbln1aAvLY"})
		assert.ErrorIs(t, err, tokens.ErrTokenNotFound)
	}
}
