package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Error carries per-field validation failures. Handlers detect it with
// errors.As to map validation problems onto 400 responses.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	// Sorted so the rendered message is stable across runs.
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return strings.Join(msgs, "; ")
}
