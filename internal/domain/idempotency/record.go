package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Operations that accept an Idempotency-Key
const (
	OperationTokenize = "TOKENIZE"
)

// MaxKeyLength bounds the Idempotency-Key header value
const MaxKeyLength = 128

// Record entity
type Record struct {
	ID              string    `validate:"required,uuid4"`
	Key             string    `validate:"required,min=1,max=128"`
	Operation       string    `validate:"required,oneof=TOKENIZE"`
	RequestHash     string    `validate:"required,len=64,hexadecimal"`
	ResponseJSON    string    `validate:"required"`
	StatusCode      int       `validate:"required,gte=200,lt=300"`
	DateTimeCreated time.Time `validate:"required"`
}

// Matches reports whether a replayed request belongs to this record
func (r *Record) Matches(operation, requestHash string) bool {
	return r.Operation == operation && r.RequestHash == requestHash
}

// Validate for validating Record struct
func (r *Record) Validate() error {
	validate := validator.New()

	err := validate.Struct(r)
	if err != nil {
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

	return nil
}

// Fingerprint returns the hex encoded SHA-256 of a request body
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
