package tokens

import "time"

// TokenCreatedEvent announces a newly persisted mapping.
// It only ever carries the masked account number.
type TokenCreatedEvent struct {
	Token               string    `json:"token" yaml:"token"`
	MaskedAccountNumber string    `json:"maskedAccountNumber" yaml:"maskedAccountNumber"`
	DateTimeCreated     time.Time `json:"dateTimeCreated" yaml:"dateTimeCreated"`
}
