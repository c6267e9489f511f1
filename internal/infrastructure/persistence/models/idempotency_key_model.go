package models

import (
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
)

// IdempotencyKeyModel is the GORM database model for idempotency records
type IdempotencyKeyModel struct {
	ID              string    `gorm:"primaryKey;type:uuid"`
	IdempotencyKey  string    `gorm:"not null;uniqueIndex;type:varchar(128)"`
	Operation       string    `gorm:"not null;type:varchar(32)"`
	RequestHash     string    `gorm:"not null;type:char(64)"`
	ResponseJSON    string    `gorm:"not null;type:text"`
	StatusCode      int       `gorm:"not null"`
	DateTimeCreated time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (IdempotencyKeyModel) TableName() string {
	return "idempotency_keys"
}

// ToDomain converts GORM model to domain entity
func (m *IdempotencyKeyModel) ToDomain() *idempotency.Record {
	return &idempotency.Record{
		ID:              m.ID,
		Key:             m.IdempotencyKey,
		Operation:       m.Operation,
		RequestHash:     m.RequestHash,
		ResponseJSON:    m.ResponseJSON,
		StatusCode:      m.StatusCode,
		DateTimeCreated: m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model
func (m *IdempotencyKeyModel) FromDomain(r *idempotency.Record) {
	m.ID = r.ID
	m.IdempotencyKey = r.Key
	m.Operation = r.Operation
	m.RequestHash = r.RequestHash
	m.ResponseJSON = r.ResponseJSON
	m.StatusCode = r.StatusCode
	m.DateTimeCreated = r.DateTimeCreated
}
