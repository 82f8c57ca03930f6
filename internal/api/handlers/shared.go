package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// isValidationError reports whether the error carries field-keyed
// validation detail, which always maps to a 400.
func isValidationError(err error) bool {
	var vErr *validation.Error
	return errors.As(err, &vErr)
}

// parseJSON decodes the request body into the given payload type.
// Unknown fields are rejected so typos in client payloads surface as 400s
// instead of silently dropped fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var payload T
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return payload, fmt.Errorf("failed to decode request body: %w", err)
	}
	return payload, nil
}
