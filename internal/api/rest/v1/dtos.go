package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// Request body messages
const (
	MsgBodyRequired     = "Request body is required"
	MsgFailedToRead     = "Failed to read request"
	MsgNotEmpty         = "must not be empty"
	MsgTooManyAccounts  = "Maximum 50 account numbers per request"
	MsgTooManyTokens    = "Maximum 50 tokens per request"
	MsgWrongAccountFmt  = "Wrong account number format"
	MsgWrongTokenFormat = "Wrong token format."
)

var (
	errBodyRequired = errors.New(MsgBodyRequired)
	errFailedToRead = errors.New(MsgFailedToRead)
)

// TokenizeRequest is the JSON array of account numbers posted to /tokenize
type TokenizeRequest struct {
	AccountNumbers []string `validate:"min=1,max=50,dive,account_number"`
}

// DetokenizeRequest is the JSON array of tokens posted to /detokenize
type DetokenizeRequest struct {
	Tokens []string `validate:"min=1,max=50,dive,token"`
}

var tokenizeMessages = map[string]string{
	"min":                       MsgNotEmpty,
	"max":                       MsgTooManyAccounts,
	validators.AccountNumberTag: MsgWrongAccountFmt,
}

var detokenizeMessages = map[string]string{
	"min":               MsgNotEmpty,
	"max":               MsgTooManyTokens,
	validators.TokenTag: MsgWrongTokenFormat,
}

// ValidationError carries one message per failed constraint
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Messages)
}

// ParseTokenizeRequest decodes and validates a /tokenize body
func ParseTokenizeRequest(body []byte) (*TokenizeRequest, error) {
	var request TokenizeRequest
	if err := decodeArray(body, &request.AccountNumbers); err != nil {
		return nil, err
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return &request, nil
}

// ParseDetokenizeRequest decodes and validates a /detokenize body
func ParseDetokenizeRequest(body []byte) (*DetokenizeRequest, error) {
	var request DetokenizeRequest
	if err := decodeArray(body, &request.Tokens); err != nil {
		return nil, err
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	return &request, nil
}

// Validate validates the TokenizeRequest
func (r *TokenizeRequest) Validate() error {
	return validateRequest(r, tokenizeMessages)
}

// Validate validates the DetokenizeRequest
func (r *DetokenizeRequest) Validate() error {
	return validateRequest(r, detokenizeMessages)
}

func decodeArray(body []byte, target *[]string) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return errBodyRequired
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errFailedToRead
	}
	return nil
}

var (
	requestValidatorOnce sync.Once
	requestValidatorInst *validator.Validate
	requestValidatorErr  error
)

// requestValidator returns the validator shared by every request so its struct cache is reused
func requestValidator() (*validator.Validate, error) {
	requestValidatorOnce.Do(func() {
		requestValidatorInst, requestValidatorErr = validators.New()
	})
	return requestValidatorInst, requestValidatorErr
}

func validateRequest(request interface{}, messages map[string]string) error {
	validate, err := requestValidator()
	if err != nil {
		return err
	}

	err = validate.Struct(request)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	result := &ValidationError{}
	for _, fieldErr := range validationErrors {
		message, ok := messages[fieldErr.Tag()]
		if !ok {
			message = fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag())
		}
		result.Messages = append(result.Messages, message)
	}
	return result
}

// ProblemDetails is the RFC 7807 error body
type ProblemDetails struct {
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Status    int      `json:"status"`
	Detail    string   `json:"detail,omitempty"`
	Instance  string   `json:"instance,omitempty"`
	Timestamp string   `json:"timestamp"`
	Errors    []string `json:"errors,omitempty"`
}

// HealthResponse reports the service and component status
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}
