package resilience

import (
	"context"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
)

type guardedTokenizationService struct {
	base   tokens.TokenizationService
	policy *Policy
}

// NewGuardedTokenizationService admits every Tokenize and Detokenize request through
// the rate limiter and bulkhead of policy, once per request regardless of batch size.
func NewGuardedTokenizationService(base tokens.TokenizationService, policy *Policy) tokens.TokenizationService {
	return &guardedTokenizationService{base: base, policy: policy}
}

func (s *guardedTokenizationService) Tokenize(ctx context.Context, accountNumbers []string) ([]string, error) {
	release, err := s.policy.Admit(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.base.Tokenize(ctx, accountNumbers)
}

func (s *guardedTokenizationService) Detokenize(ctx context.Context, tokenList []string) ([]string, error) {
	release, err := s.policy.Admit(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.base.Detokenize(ctx, tokenList)
}
