package validation

import (
	"fmt"
	"regexp"
)

var quarterPattern = regexp.MustCompile(`^\d{4}Q[1-4]$`)

// ValidateQuarter checks the fiscal quarter label format "YYYYQ[1-4]".
func ValidateQuarter(quarter string) error {
	if !quarterPattern.MatchString(quarter) {
		return &Error{Fields: map[string]string{
			"quarter": fmt.Sprintf("quarter must match YYYYQ[1-4], got %q", quarter),
		}}
	}
	return nil
}
