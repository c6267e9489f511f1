package resilience

import (
	"context"
	"errors"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
)

// IsTokenOutcome reports whether err is a regular answer of the token store
// rather than a failure of the store itself.
func IsTokenOutcome(err error) bool {
	return errors.Is(err, tokens.ErrTokenNotFound) ||
		errors.Is(err, tokens.ErrMappingNotFound) ||
		errors.Is(err, tokens.ErrDuplicateMapping)
}

type guardedTokenRepository struct {
	base   tokens.TokenRepository
	policy *Policy
}

// NewGuardedTokenRepository runs every call of base under policy
func NewGuardedTokenRepository(base tokens.TokenRepository, policy *Policy) tokens.TokenRepository {
	return &guardedTokenRepository{base: base, policy: policy}
}

func (r *guardedTokenRepository) Create(ctx context.Context, mapping *tokens.TokenMapping) error {
	_, err := Execute(ctx, r.policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.base.Create(ctx, mapping)
	})
	return err
}

func (r *guardedTokenRepository) GetByToken(ctx context.Context, token string) (*tokens.TokenMapping, error) {
	return Execute(ctx, r.policy, func(ctx context.Context) (*tokens.TokenMapping, error) {
		return r.base.GetByToken(ctx, token)
	})
}

func (r *guardedTokenRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*tokens.TokenMapping, error) {
	return Execute(ctx, r.policy, func(ctx context.Context) (*tokens.TokenMapping, error) {
		return r.base.GetByAccountNumber(ctx, accountNumber)
	})
}

func (r *guardedTokenRepository) Count(ctx context.Context) (int64, error) {
	return Execute(ctx, r.policy, r.base.Count)
}

func (r *guardedTokenRepository) List(ctx context.Context, query *tokens.TokenMappingQuery) ([]*tokens.TokenMapping, error) {
	return Execute(ctx, r.policy, func(ctx context.Context) ([]*tokens.TokenMapping, error) {
		return r.base.List(ctx, query)
	})
}

func (r *guardedTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := Execute(ctx, r.policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.base.DeleteByToken(ctx, token)
	})
	return err
}
