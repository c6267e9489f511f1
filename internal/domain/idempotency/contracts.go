package idempotency

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRecordNotFound is returned when no record exists for a key
	ErrRecordNotFound = errors.New("idempotency record not found")
	// ErrKeyReused is returned when a key is replayed with a different request
	ErrKeyReused = errors.New("Idempotency-Key reused with a different request")
	// ErrDuplicateKey is returned when a record for the key already exists
	ErrDuplicateKey = errors.New("idempotency key already recorded")
)

// Service defines the replay protocol around an idempotent operation.
type Service interface {
	// Lookup returns the stored record for key, or nil when the key is new.
	// It fails with ErrKeyReused when the stored record belongs to another request.
	Lookup(ctx context.Context, key, operation, requestHash string) (*Record, error)

	// Save stores the outcome of the first execution for key.
	// Losing a race against a concurrent request with the same key is not an error.
	Save(ctx context.Context, key, operation, requestHash string, statusCode int, responseJSON []byte) error

	// Purge removes records created before cutoff and returns how many were removed.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// Repository defines the interface for Record persistence
type Repository interface {
	// Create adds a new Record, failing with ErrDuplicateKey when the key exists
	Create(ctx context.Context, record *Record) error
	// GetByKey retrieves a Record by its idempotency key
	GetByKey(ctx context.Context, key string) (*Record, error)
	// DeleteCreatedBefore deletes every Record older than cutoff
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
