package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput marks malformed or out-of-range request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoCandidates is returned when no market is left to evaluate, even
	// after the closest-N fallback.
	ErrNoCandidates = errors.New("no candidate markets available")
)

// FieldError describes a single rejected request field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects every rejected field of a request.
// It unwraps to ErrInvalidInput.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrInvalidInput }
