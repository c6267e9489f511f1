// Package persistence provides database repository implementations.
// It uses GORM as the ORM layer to store token mappings and idempotency
// records in SQLite or PostgreSQL. Unique constraint violations are
// translated into the domain's duplicate errors.
package persistence
