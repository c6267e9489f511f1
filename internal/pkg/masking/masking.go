// Package masking hides account numbers before they reach logs, events or CLI output.
package masking

import (
	"strings"
)

// Masked is returned for inputs too short to keep any visible digits
const Masked = "****"

const visibleSuffix = 4

// MaskAccountNumber replaces all but the last four characters with '*'.
// Hyphens are stripped first; spaces are kept and masked like digits.
func MaskAccountNumber(accountNumber string) string {
	if strings.TrimSpace(accountNumber) == "" {
		return Masked
	}

	cleaned := []rune(strings.ReplaceAll(accountNumber, "-", ""))
	if len(cleaned) < visibleSuffix {
		return Masked
	}

	hidden := len(cleaned) - visibleSuffix
	return strings.Repeat("*", hidden) + string(cleaned[hidden:])
}
