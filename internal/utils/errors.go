package utils

import (
	"errors"
	"fmt"
)

// InsufficientDataError reports a series that is too short to forecast,
// either in raw form or after feature derivation. It is recorded per
// series/model pair and never aborts the run.
type InsufficientDataError struct {
	Message string
}

// Error returns the error message string.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// NewInsufficientDataError creates a new InsufficientDataError with a specific message.
func NewInsufficientDataError(message string) error {
	return &InsufficientDataError{
		Message: message,
	}
}

// ModelUnavailableError reports a model backend that is not registered in
// this runtime. Absence is a valid configuration, not a training failure.
type ModelUnavailableError struct {
	Kind string
}

// Error returns the error message string.
func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("%s not available", e.Kind)
}

// NewModelUnavailableError creates a new ModelUnavailableError for a model kind.
func NewModelUnavailableError(kind string) error {
	return &ModelUnavailableError{
		Kind: kind,
	}
}

// DataFormatError reports a malformed or missing aggregate dataset. It
// indicates an upstream contract violation and is fatal for the run.
type DataFormatError struct {
	Message string
	Err     error
}

// Error returns the error message string.
func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error, if any.
func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// NewDataFormatError creates a new DataFormatError wrapping an underlying cause.
func NewDataFormatError(message string, err error) error {
	return &DataFormatError{
		Message: message,
		Err:     err,
	}
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var target *InsufficientDataError
	return errors.As(err, &target)
}

// IsModelUnavailable reports whether err is a ModelUnavailableError.
func IsModelUnavailable(err error) bool {
	var target *ModelUnavailableError
	return errors.As(err, &target)
}

// IsDataFormat reports whether err is a DataFormatError.
func IsDataFormat(err error) bool {
	var target *DataFormatError
	return errors.As(err, &target)
}
