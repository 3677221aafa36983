package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedBody reports input that could not be decoded at all, as opposed
// to a decoded body with invalid fields.
var ErrMalformedBody = errors.New("malformed_body")

// FieldError names one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the ordered, never-empty list of violations for a
// rejected payload.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
