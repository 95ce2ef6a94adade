package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// Predefined Error Values
// =============================================================================

var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownComponent = errors.New("unknown component type")
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrValueOutOfScale  = errors.New("value outside declared scale")
	ErrMissingGuidance  = errors.New("guidance table not configured")
	ErrInvalidPattern   = errors.New("invalid pattern rule")
)

// =============================================================================
// Core Error Types
// =============================================================================

// ConfigurationError is fatal to the calling operation and is never retried.
// It signals that required configuration is missing or that a value falls
// outside what the configuration declares.
type ConfigurationError struct {
	Source  string // component that detected the problem, e.g. "length"
	Field   string // offending key or parameter name
	Value   any
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error in %s (%s=%v): %s", e.Source, e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("configuration error in %s (%s): %s", e.Source, e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// =============================================================================
// Error Creation Helpers
// =============================================================================

// NewConfigurationError creates a ConfigurationError wrapping cause.
// A nil cause defaults to ErrInvalidConfig so callers can always match on it.
func NewConfigurationError(source, field string, value any, cause error, message string) *ConfigurationError {
	if cause == nil {
		cause = ErrInvalidConfig
	}
	return &ConfigurationError{
		Source:  source,
		Field:   field,
		Value:   value,
		Message: message,
		Cause:   cause,
	}
}

// =============================================================================
// Error Classification Functions
// =============================================================================

// IsConfigurationError checks if an error is (or wraps) a ConfigurationError
func IsConfigurationError(err error) bool {
	if err == nil {
		return false
	}
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsTerminal determines if an error must stop the caller rather than be retried.
// Every error this module returns is terminal; quality failures are values.
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}
	return IsConfigurationError(err) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrUnknownComponent) ||
		errors.Is(err, ErrUnknownParameter) ||
		errors.Is(err, ErrValueOutOfScale)
}
