package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Build errors
	ErrBuild ErrorCode = "BUILD"

	// FileSystem errors
	ErrTreeCopy   ErrorCode = "TREE_COPY"
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileCreate ErrorCode = "FILE_CREATE"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
	ErrPermission ErrorCode = "PERMISSION"

	// Hook errors
	ErrHookExecute ErrorCode = "HOOK_EXECUTE"
	ErrHookTimeout ErrorCode = "HOOK_TIMEOUT"
)

// BaristaError represents a structured error with code and details
type BaristaError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BaristaError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BaristaError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BaristaError) Is(target error) bool {
	var targetErr *BaristaError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BaristaError with the given code and message
func New(code ErrorCode, message string) *BaristaError {
	return &BaristaError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BaristaError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaristaError {
	return &BaristaError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BaristaError
func Wrap(err error, code ErrorCode, message string) *BaristaError {
	if err == nil {
		return nil
	}
	return &BaristaError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BaristaError {
	if err == nil {
		return nil
	}
	return &BaristaError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *BaristaError) WithDetail(key string, value interface{}) *BaristaError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error, or any error joined into it, has a specific code
func IsErrorCode(err error, code ErrorCode) bool {
	return errors.Is(err, &BaristaError{Code: code})
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BaristaError
func GetErrorCode(err error) ErrorCode {
	var baristaErr *BaristaError
	if errors.As(err, &baristaErr) {
		return baristaErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a BaristaError
func GetErrorDetails(err error) map[string]interface{} {
	var baristaErr *BaristaError
	if errors.As(err, &baristaErr) {
		return baristaErr.Details
	}
	return nil
}

// Join combines errors collected from independent steps. Nil entries are
// dropped; the result is nil when nothing failed.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
