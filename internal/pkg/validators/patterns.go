package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Tags for the tokenization request formats
const (
	AccountNumberTag = "account_number"
	TokenTag         = "token"
)

var (
	// accountNumberRegex accepts four groups of four digits, optionally separated by a single hyphen or whitespace.
	accountNumberRegex = regexp.MustCompile(`^(\d{4}[-\s]?){3}\d{4}$`)
	tokenRegex         = regexp.MustCompile(`^[A-Za-z0-9]{32}$`)
)

// IsAccountNumber reports whether s has the account number format.
func IsAccountNumber(s string) bool {
	return accountNumberRegex.MatchString(s)
}

// IsToken reports whether s has the token format.
func IsToken(s string) bool {
	return tokenRegex.MatchString(s)
}

// AccountNumberValidation validates a string field against the account number format.
func AccountNumberValidation(fl validator.FieldLevel) bool {
	return IsAccountNumber(fl.Field().String())
}

// TokenValidation validates a string field against the token format.
func TokenValidation(fl validator.FieldLevel) bool {
	return IsToken(fl.Field().String())
}
