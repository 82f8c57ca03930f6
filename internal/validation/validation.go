package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID = fmt.Errorf("invalid UUID format")
	ErrEmptySlice  = fmt.Errorf("slice cannot be empty")
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// NormalizeTicker uppercases and trims a ticker symbol.
// Format validation is done separately by ValidateTickerFormat.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ValidateTickerFormat checks the local format gate for ticker symbols:
// non-empty, alphanumeric, at most 10 characters after normalization.
// This runs before any provider call is attempted.
func ValidateTickerFormat(ticker string) error {
	if !tickerPattern.MatchString(ticker) {
		return &Error{Fields: map[string]string{
			"ticker": fmt.Sprintf("ticker must be 1-10 alphanumeric characters, got %q", ticker),
		}}
	}
	return nil
}
