// Package compose contains pure functions for parsing Docker Compose documents.
// This is part of the Functional Core - all functions are pure with no I/O.
package compose

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Input validation errors
	ErrEmptyDocument = errors.New("compose file is empty or invalid")

	// YAML parsing errors
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// Document structure errors
	ErrNotMapping = errors.New("compose file must be a YAML mapping")

	// Field shape errors
	ErrInvalidService     = errors.New("invalid service definition")
	ErrInvalidPort        = errors.New("invalid port configuration")
	ErrInvalidMount       = errors.New("invalid volume configuration")
	ErrInvalidVolumes     = errors.New("invalid volumes definition")
	ErrInvalidHealthCheck = errors.New("invalid healthcheck configuration")
	ErrInvalidDependsOn   = errors.New("invalid depends_on entry")

	// Strict validation errors
	ErrValidationFailed   = errors.New("compose schema validation failed")
	ErrUnsupportedFeature = errors.New("unsupported compose feature")
)

// ParseError wraps errors with context about where parsing failed.
type ParseError struct {
	Field   string // e.g., "services.web.ports[0]"
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(field, message string, err error) *ParseError {
	return &ParseError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
