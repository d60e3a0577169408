package models

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ConfigurationError and InvalidKeyError.
var (
	ErrNotSquare        = errors.New("array is not square")
	ErrShapeMismatch    = errors.New("array shapes do not match")
	ErrInvalidDimension = errors.New("dimension must be positive")
	ErrInvalidChannels  = errors.New("channel count must be 1 or 3")
	ErrDiverged         = errors.New("chaotic orbit left the finite range")
	ErrInvalidKey       = errors.New("invalid key")
)

// ConfigurationError reports a violated shape or parameter precondition.
type ConfigurationError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewConfigurationError builds a ConfigurationError around one of the sentinels.
func NewConfigurationError(op string, err error, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		Op:     op,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// InvalidKeyError reports a key field that is missing, malformed or out of range.
type InvalidKeyError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InvalidKeyError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid key: %s", e.Reason)
	}
	return fmt.Sprintf("invalid key field %q: %s", e.Field, e.Reason)
}

// Unwrap exposes ErrInvalidKey and, when set, the more specific cause.
func (e *InvalidKeyError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Err, ErrInvalidKey}
	}
	return []error{ErrInvalidKey}
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsInvalidKeyError reports whether err is or wraps an InvalidKeyError.
func IsInvalidKeyError(err error) bool {
	var ke *InvalidKeyError
	return errors.As(err, &ke)
}
