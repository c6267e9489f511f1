//go:build unit
// +build unit

package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testAccount = "1234 5678 9012 3456"
	testToken   = "uS8vN3dph7ttuKMHbuk4Hsbbln1aAvLY"
)

type mockTokenFinder struct {
	mock.Mock
}

func (m *mockTokenFinder) Resolve(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type countingMetrics struct {
	created int
}

func (m *countingMetrics) TokenCreated() {
	m.created++
}

type tokenizationFixture struct {
	repo      *tokens.MockTokenRepository
	finder    *mockTokenFinder
	generator *tokens.MockTokenGenerator
	publisher *tokens.MockEventPublisher
	metrics   *countingMetrics
	logs      *bytes.Buffer
	service   tokens.TokenizationService
}

func newTokenizationFixture(t *testing.T) *tokenizationFixture {
	t.Helper()

	f := &tokenizationFixture{
		repo:      new(tokens.MockTokenRepository),
		finder:    new(mockTokenFinder),
		generator: new(tokens.MockTokenGenerator),
		publisher: new(tokens.MockEventPublisher),
		metrics:   &countingMetrics{},
		logs:      &bytes.Buffer{},
	}

	service, err := NewTokenizationService(f.repo, f.finder, f.generator, f.publisher, f.metrics, logger.NewWriterLogger(config.LogLevelDebug, f.logs))
	require.NoError(t, err)
	f.service = service

	return f
}

func TestNewTokenizationService_RequiresDependencies(t *testing.T) {
	_, err := NewTokenizationService(nil, nil, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestTokenize_ReturnsExistingToken(t *testing.T) {
	f := newTokenizationFixture(t)

	f.repo.On("GetByAccountNumber", mock.Anything, testAccount).
		Return(&tokens.TokenMapping{Token: testToken, AccountNumber: testAccount}, nil)

	result, err := f.service.Tokenize(context.Background(), []string{testAccount})

	require.NoError(t, err)
	assert.Equal(t, []string{testToken}, result)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.generator.AssertNotCalled(t, "Generate", mock.Anything)
	assert.Zero(t, f.metrics.created)
}

func TestTokenize_CreatesNewMapping(t *testing.T) {
	f := newTokenizationFixture(t)

	f.repo.On("GetByAccountNumber", mock.Anything, testAccount).Return(nil, tokens.ErrMappingNotFound)
	f.generator.On("Generate", tokens.TokenLength).Return(testToken, nil)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(m *tokens.TokenMapping) bool {
		return m.Token == testToken && m.AccountNumber == testAccount && !m.DateTimeCreated.IsZero()
	})).Return(nil)
	f.publisher.On("PublishTokenCreated", mock.Anything, mock.MatchedBy(func(e tokens.TokenCreatedEvent) bool {
		return e.Token == testToken && e.MaskedAccountNumber == "***************3456"
	})).Return(nil)

	result, err := f.service.Tokenize(context.Background(), []string{testAccount})

	require.NoError(t, err)
	assert.Equal(t, []string{testToken}, result)
	assert.Equal(t, 1, f.metrics.created)
	f.repo.AssertExpectations(t)
	f.publisher.AssertExpectations(t)

	assert.Contains(t, f.logs.String(), "***************3456")
	assert.NotContains(t, f.logs.String(), testAccount)
}

func TestTokenize_PreservesOrder(t *testing.T) {
	f := newTokenizationFixture(t)

	accounts := []string{"1111 2222 3333 4444", "5555 6666 7777 8888", "1111 2222 3333 4444"}
	first := strings.Repeat("A", 32)
	second := strings.Repeat("B", 32)

	f.repo.On("GetByAccountNumber", mock.Anything, accounts[0]).
		Return(&tokens.TokenMapping{Token: first, AccountNumber: accounts[0]}, nil)
	f.repo.On("GetByAccountNumber", mock.Anything, accounts[1]).
		Return(&tokens.TokenMapping{Token: second, AccountNumber: accounts[1]}, nil)

	result, err := f.service.Tokenize(context.Background(), accounts)

	require.NoError(t, err)
	assert.Equal(t, []string{first, second, first}, result)
}

func TestTokenize_ConcurrentCreateReturnsWinningToken(t *testing.T) {
	f := newTokenizationFixture(t)
	winner := strings.Repeat("W", 32)

	f.repo.On("GetByAccountNumber", mock.Anything, testAccount).Return(nil, tokens.ErrMappingNotFound).Once()
	f.generator.On("Generate", tokens.TokenLength).Return(testToken, nil).Once()
	f.repo.On("Create", mock.Anything, mock.Anything).Return(tokens.ErrDuplicateMapping).Once()
	f.repo.On("GetByAccountNumber", mock.Anything, testAccount).
		Return(&tokens.TokenMapping{Token: winner, AccountNumber: testAccount}, nil).Once()

	result, err := f.service.Tokenize(context.Background(), []string{testAccount})

	require.NoError(t, err)
	assert.Equal(t, []string{winner}, result)
	f.publisher.AssertNotCalled(t, "PublishTokenCreated", mock.Anything, mock.Anything)
}

func TestTokenize_RegeneratesOnTokenCollision(t *testing.T) {
	f := newTokenizationFixture(t)
	fresh := strings.Repeat("F", 32)

	f.repo.On("GetByAccountNumber", mock.Anything, testAccount).Return(nil, tokens.ErrMappingNotFound)
	f.generator.On("Generate", tokens.TokenLength).Return(testToken, nil).Once()
	f.generator.On("Generate", tokens.TokenLength).Return(fresh, nil).Once()
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(m *tokens.TokenMapping) bool { return m.Token == testToken })).
		Return(tokens.ErrDuplicateMapping)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(m *tokens.TokenMapping) bool { return m.Token == fresh })).
		Return(nil)
	f.publisher.On("PublishTokenCreated", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Tokenize(context.Background(), []string{testAccount})

	require.NoError(t, err)
	assert.Equal(t, []string{fresh}, result)
	f.generator.AssertNumberOfCalls(t, "Generate", 2)
}

func TestTokenize_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newTokenizationFixture(t)

	f.repo.On("GetByAccountNumber", mock.Anything, testAccount).Return(nil, tokens.ErrMappingNotFound)
	f.generator.On("Generate", tokens.TokenLength).Return(testToken, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(tokens.ErrDuplicateMapping)

	_, err := f.service.Tokenize(context.Background(), []string{testAccount})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.NotContains(t, err.Error(), testAccount)
	f.repo.AssertNumberOfCalls(t, "Create", maxCreateAttempts)
}

func TestTokenize_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newTokenizationFixture(t)

	f.repo.On("GetByAccountNumber", mock.Anything, testAccount).Return(nil, tokens.ErrMappingNotFound)
	f.generator.On("Generate", tokens.TokenLength).Return(testToken, nil)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.publisher.On("PublishTokenCreated", mock.Anything, mock.Anything).Return(errors.New("event buffer is full"))

	result, err := f.service.Tokenize(context.Background(), []string{testAccount})

	require.NoError(t, err)
	assert.Equal(t, []string{testToken}, result)
	assert.Contains(t, f.logs.String(), "event buffer is full")
}

func TestTokenize_RepositoryFailure(t *testing.T) {
	f := newTokenizationFixture(t)

	f.repo.On("GetByAccountNumber", mock.Anything, testAccount).Return(nil, errors.New("connection refused"))

	_, err := f.service.Tokenize(context.Background(), []string{testAccount})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotContains(t, err.Error(), testAccount)
}

func TestDetokenize_ResolvesInOrder(t *testing.T) {
	f := newTokenizationFixture(t)
	a := strings.Repeat("A", 32)
	b := strings.Repeat("B", 32)

	f.finder.On("Resolve", mock.Anything, a).Return("1111 2222 3333 4444", nil)
	f.finder.On("Resolve", mock.Anything, b).Return("5555 6666 7777 8888", nil)

	result, err := f.service.Detokenize(context.Background(), []string{b, a})

	require.NoError(t, err)
	assert.Equal(t, []string{"5555 6666 7777 8888", "1111 2222 3333 4444"}, result)
}

func TestDetokenize_UnknownTokenFailsBatch(t *testing.T) {
	f := newTokenizationFixture(t)
	unknown := strings.Repeat("Z", 32)

	f.finder.On("Resolve", mock.Anything, testToken).Return(testAccount, nil)
	f.finder.On("Resolve", mock.Anything, unknown).Return("", tokens.NewTokenNotFoundError(unknown))

	result, err := f.service.Detokenize(context.Background(), []string{testToken, unknown, testToken})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, tokens.ErrTokenNotFound)
	assert.EqualError(t, err, "Token not found: "+unknown)
	f.finder.AssertNumberOfCalls(t, "Resolve", 2)
}
