package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

const (
	// TokenLength is the number of characters of every generated token
	TokenLength = 32
	// MaxBatchSize bounds the number of items accepted per tokenize or detokenize call
	MaxBatchSize = 50
	// CacheName identifies the token to account number cache
	CacheName = "tokenToAccount"
)

// TokenMapping entity binding one token to one account number
type TokenMapping struct {
	Token           string    `validate:"required,token"`
	AccountNumber   string    `validate:"required,max=64"`
	DateTimeCreated time.Time `validate:"required"`
}

// TokenMappingQuery pages through stored mappings, newest first
type TokenMappingQuery struct {
	Limit  int `validate:"omitempty,gt=0,lte=1000"`
	Offset int `validate:"omitempty,gte=0"`
}

// Validate for validating TokenMapping struct
func (m *TokenMapping) Validate() error {
	validate, err := validators.New()
	if err != nil {
		return fmt.Errorf("failed to register custom validators: %w", err)
	}

	return formatValidationError(validate.Struct(m))
}

// Validate for validating TokenMappingQuery struct
func (q *TokenMappingQuery) Validate() error {
	return formatValidationError(validator.New().Struct(q))
}

func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("validation failed: %v", messages)
	}
	return fmt.Errorf("validation error: %w", err)
}
