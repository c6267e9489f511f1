package models

import (
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
)

// TokenModel is the GORM database model for token mappings
type TokenModel struct {
	Token           string    `gorm:"primaryKey;type:varchar(32)"`
	AccountNumber   string    `gorm:"not null;uniqueIndex;type:varchar(64)"`
	DateTimeCreated time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for GORM
func (TokenModel) TableName() string {
	return "tokens"
}

// ToDomain converts GORM model to domain entity
func (m *TokenModel) ToDomain() *tokens.TokenMapping {
	return &tokens.TokenMapping{
		Token:           m.Token,
		AccountNumber:   m.AccountNumber,
		DateTimeCreated: m.DateTimeCreated,
	}
}

// FromDomain converts domain entity to GORM model
func (m *TokenModel) FromDomain(t *tokens.TokenMapping) {
	m.Token = t.Token
	m.AccountNumber = t.AccountNumber
	m.DateTimeCreated = t.DateTimeCreated
}
