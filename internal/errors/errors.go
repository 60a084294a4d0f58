// Package errors provides unified error handling for formseed.
// It implements structured error types with machine-readable codes and a
// fatal/recoverable distinction that drives the seeding run's control flow.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Recoverable indicates the run may continue past this error.
	Recoverable bool `json:"recoverable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic recoverable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Recoverable: IsRecoverableCode(code),
	}
}

// --- Common Error Constructors ---

// ServiceUnavailable creates an AppError for a service that never became ready.
func ServiceUnavailable(service string, attempts int) *AppError {
	return &AppError{
		Code:    ErrCodeServiceUnavailable,
		Message: fmt.Sprintf("%s is not responding after %d health probes", service, attempts),
		Details: map[string]any{"service": service, "attempts": attempts},
	}
}

// BundleNotFound creates an AppError for a missing seed bundle file.
func BundleNotFound(path string) *AppError {
	return &AppError{
		Code:    ErrCodeBundleNotFound,
		Message: fmt.Sprintf("seed bundle %s does not exist; run 'generate' first", path),
		Details: map[string]any{"path": path},
	}
}

// ItemCreationFailed creates a recoverable AppError for a single rejected
// create call. Kind names the item type (user, survey, response) and key is
// the identifying field (email or survey name).
func ItemCreationFailed(kind, key string, cause error) *AppError {
	return &AppError{
		Code:        ErrCodeItemCreationFailed,
		Message:     fmt.Sprintf("failed to create %s %q", kind, key),
		Recoverable: true,
		Details:     map[string]any{"kind": kind, "key": key},
		Cause:       cause,
	}
}

// DependencyMissing creates an AppError for an absent tool or credential.
func DependencyMissing(name, hint string) *AppError {
	return &AppError{
		Code:    ErrCodeDependencyMissing,
		Message: fmt.Sprintf("%s is required: %s", name, hint),
		Details: map[string]any{"dependency": name},
	}
}

// InvalidInput creates an AppError for invalid input.
func InvalidInput(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("invalid input: %s", reason),
	}
}

// InvalidFormat creates an AppError for malformed data.
func InvalidFormat(what, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidFormat,
		Message: fmt.Sprintf("%s has invalid format: %s", what, reason),
		Details: map[string]any{"subject": what},
	}
}

// ExternalService creates an AppError for a failure in an external service.
func ExternalService(service string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeExternalService,
		Message: fmt.Sprintf("%s request failed", service),
		Details: map[string]any{"service": service},
		Cause:   cause,
	}
}

// --- Inspection helpers ---

// IsRecoverable reports whether the run may continue past err.
func IsRecoverable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Recoverable
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// CodeOf extracts the error code from err, or empty string if err is not
// an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
