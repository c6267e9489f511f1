package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/masking"

	"gorm.io/gorm"
)

type gormTokenRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTokenRepository creates a new GORM-based TokenRepository implementation
func NewGormTokenRepository(db *gorm.DB, logger logger.Logger) (tokens.TokenRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &gormTokenRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTokenRepository) Create(ctx context.Context, mapping *tokens.TokenMapping) error {
	if err := mapping.Validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	model := &models.TokenModel{}
	model.FromDomain(mapping)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to create token mapping: %w", tokens.ErrDuplicateMapping)
		}
		return fmt.Errorf("failed to create token mapping: %w", err)
	}

	r.logger.Debug("Stored token mapping for account ", masking.MaskAccountNumber(mapping.AccountNumber))
	return nil
}

func (r *gormTokenRepository) GetByToken(ctx context.Context, token string) (*tokens.TokenMapping, error) {
	var model models.TokenModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tokens.NewTokenNotFoundError(token)
		}
		return nil, fmt.Errorf("failed to fetch token mapping: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormTokenRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*tokens.TokenMapping, error) {
	var model models.TokenModel
	if err := r.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tokens.ErrMappingNotFound
		}
		return nil, fmt.Errorf("failed to fetch token mapping: %w", err)
	}
	return model.ToDomain(), nil
}

func (r *gormTokenRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TokenModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count token mappings: %w", err)
	}
	return count, nil
}

func (r *gormTokenRepository) List(ctx context.Context, query *tokens.TokenMappingQuery) ([]*tokens.TokenMapping, error) {
	if query == nil {
		query = &tokens.TokenMappingQuery{}
	}
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	dbQuery := r.db.WithContext(ctx).
		Model(&models.TokenModel{}).
		Order("date_time_created desc").
		Order("token asc")

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	var modelList []*models.TokenModel
	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch token mappings: %w", err)
	}

	domainList := make([]*tokens.TokenMapping, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.TokenModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete token mapping: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return tokens.NewTokenNotFoundError(token)
	}

	r.logger.Info("Deleted token mapping ", token)
	return nil
}
