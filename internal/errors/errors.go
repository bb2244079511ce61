package errors

import (
	"errors"
	"fmt"
)

// Error codes for programmatic handling.
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeConfigMissing    = "CONFIG_MISSING"
	CodeUpstream         = "UPSTREAM_UNAVAILABLE"
	CodeResponseShape    = "RESPONSE_SHAPE_MISMATCH"
	CodeTimeout          = "TIMEOUT"
	CodeProviderNotFound = "PROVIDER_NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
)

// PilotError is a structured error with a code and actionable suggestion.
type PilotError struct {
	Code       string // machine-readable code (e.g. CONFIG_INVALID)
	Message    string // human-readable description
	Suggestion string // actionable fix
	Err        error  // wrapped underlying error
}

// Error implements the error interface.
func (e *PilotError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap supports errors.Is / errors.As.
func (e *PilotError) Unwrap() error {
	return e.Err
}

// New creates a PilotError with the given code and message.
func New(code, message string) *PilotError {
	return &PilotError{Code: code, Message: message}
}

// Wrap creates a PilotError wrapping an existing error.
func Wrap(code, message string, err error) *PilotError {
	return &PilotError{Code: code, Message: message, Err: err}
}

// WithSuggestion sets the suggestion and returns the receiver.
func (e *PilotError) WithSuggestion(suggestion string) *PilotError {
	e.Suggestion = suggestion
	return e
}

// Is checks whether target matches this error's code.
func (e *PilotError) Is(target error) bool {
	var pe *PilotError
	if errors.As(target, &pe) {
		return e.Code == pe.Code
	}
	return false
}

// AsCode extracts the PilotError code from an error, or "" if not a PilotError.
func AsCode(err error) string {
	var pe *PilotError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Suggestion extracts the suggestion from an error, or "" if not a PilotError.
func Suggestion(err error) string {
	var pe *PilotError
	if errors.As(err, &pe) {
		return pe.Suggestion
	}
	return ""
}
