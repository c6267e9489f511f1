//go:build unit
// +build unit

package resilience

import (
	"context"
	"testing"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGuardedTokenRepository_DelegatesCalls(t *testing.T) {
	base := new(tokens.MockTokenRepository)
	repo := NewGuardedTokenRepository(base, newTestPolicy(t, testSettings()))
	ctx := context.Background()

	mapping := &tokens.TokenMapping{Token: "uS8vN3dph7ttuKMHbuk4Hsbbln1aAvLY", AccountNumber: "1234 5678 9012 3456"}
	base.On("GetByToken", mock.Anything, mapping.Token).Return(mapping, nil)
	base.On("GetByAccountNumber", mock.Anything, "9999 9999 9999 9999").Return(nil, tokens.ErrMappingNotFound)
	base.On("Create", mock.Anything, mapping).Return(tokens.ErrDuplicateMapping)
	base.On("Count", mock.Anything).Return(int64(7), nil)
	base.On("List", mock.Anything, mock.Anything).Return([]*tokens.TokenMapping{mapping}, nil)
	base.On("DeleteByToken", mock.Anything, mapping.Token).Return(nil)

	found, err := repo.GetByToken(ctx, mapping.Token)
	require.NoError(t, err)
	assert.Equal(t, mapping, found)

	_, err = repo.GetByAccountNumber(ctx, "9999 9999 9999 9999")
	assert.ErrorIs(t, err, tokens.ErrMappingNotFound)

	assert.ErrorIs(t, repo.Create(ctx, mapping), tokens.ErrDuplicateMapping)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 7, count)

	list, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.NoError(t, repo.DeleteByToken(ctx, mapping.Token))

	base.AssertExpectations(t)
	base.AssertNumberOfCalls(t, "Create", 1)
	base.AssertNumberOfCalls(t, "GetByAccountNumber", 1)
}

func TestIsTokenOutcome(t *testing.T) {
	assert.True(t, IsTokenOutcome(tokens.NewTokenNotFoundError("AAAA")))
	assert.True(t, IsTokenOutcome(tokens.ErrMappingNotFound))
	assert.True(t, IsTokenOutcome(tokens.ErrDuplicateMapping))
	assert.False(t, IsTokenOutcome(errStoreDown))
	assert.False(t, IsTokenOutcome(nil))
}
