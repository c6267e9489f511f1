package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"gorm.io/gorm"
)

type gormIdempotencyRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormIdempotencyRepository creates a new GORM-based idempotency Repository implementation
func NewGormIdempotencyRepository(db *gorm.DB, logger logger.Logger) (idempotency.Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &gormIdempotencyRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormIdempotencyRepository) Create(ctx context.Context, record *idempotency.Record) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.IdempotencyKeyModel{}
	model.FromDomain(record)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create idempotency record: %w", idempotency.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create idempotency record: %w", err)
	}

	r.logger.Debug("Stored idempotency record for key ", record.Key)
	return nil
}

func (r *gormIdempotencyRepository) GetByKey(ctx context.Context, key string) (*idempotency.Record, error) {
	var model models.IdempotencyKeyModel
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, idempotency.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to fetch idempotency record: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormIdempotencyRepository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("date_time_created < ?", cutoff).Delete(&models.IdempotencyKeyModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge idempotency records: %w", result.Error)
	}

	r.logger.Info("Purged ", result.RowsAffected, " idempotency records created before ", cutoff.Format(time.RFC3339))
	return result.RowsAffected, nil
}
