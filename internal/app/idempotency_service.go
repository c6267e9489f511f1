package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/google/uuid"
)

// idempotencyService implements the idempotency Service interface
type idempotencyService struct {
	repo   idempotency.Repository
	logger logger.Logger
}

// NewIdempotencyService creates a new idempotencyService instance
func NewIdempotencyService(repo idempotency.Repository, logger logger.Logger) (idempotency.Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("idempotency repository is required")
	}
	return &idempotencyService{repo: repo, logger: logger}, nil
}

func (s *idempotencyService) Lookup(ctx context.Context, key, operation, requestHash string) (*idempotency.Record, error) {
	record, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, idempotency.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	if !record.Matches(operation, requestHash) {
		s.logger.Warn("Idempotency-Key ", key, " reused with a different request")
		return nil, idempotency.ErrKeyReused
	}

	s.logger.Info("Replaying stored response for Idempotency-Key ", key)
	return record, nil
}

func (s *idempotencyService) Save(ctx context.Context, key, operation, requestHash string, statusCode int, responseJSON []byte) error {
	record := &idempotency.Record{
		ID:              uuid.NewString(),
		Key:             key,
		Operation:       operation,
		RequestHash:     requestHash,
		ResponseJSON:    string(responseJSON),
		StatusCode:      statusCode,
		DateTimeCreated: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		if errors.Is(err, idempotency.ErrDuplicateKey) {
			s.logger.Debug("Idempotency-Key ", key, " already recorded by a concurrent request")
			return nil
		}
		return fmt.Errorf("failed to save idempotency record: %w", err)
	}
	return nil
}

func (s *idempotencyService) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.repo.DeleteCreatedBefore(ctx, cutoff)
}
