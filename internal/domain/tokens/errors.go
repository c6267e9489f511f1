package tokens

import "errors"

var (
	// ErrTokenNotFound matches every lookup miss by token
	ErrTokenNotFound = errors.New("token not found")
	// ErrMappingNotFound is returned when no mapping exists for an account number
	ErrMappingNotFound = errors.New("mapping not found")
	// ErrDuplicateMapping is returned when a token or account number is already mapped
	ErrDuplicateMapping = errors.New("duplicate token mapping")
)

// TokenNotFoundError names the token that could not be resolved
type TokenNotFoundError struct {
	Token string
}

// NewTokenNotFoundError creates a TokenNotFoundError for token
func NewTokenNotFoundError(token string) error {
	return &TokenNotFoundError{Token: token}
}

func (e *TokenNotFoundError) Error() string {
	return "Token not found: " + e.Token
}

// Is lets errors.Is(err, ErrTokenNotFound) match
func (e *TokenNotFoundError) Is(target error) bool {
	return target == ErrTokenNotFound
}
