package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for graph sync errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Store transport error codes
const (
	STORE_REQUEST_FAILED   ErrorCode = "STORE_REQUEST_FAILED"
	STORE_STATUS_ERROR     ErrorCode = "STORE_STATUS_ERROR"
	STORE_QUERY_FAILED     ErrorCode = "STORE_QUERY_FAILED"
	STORE_RESULT_MALFORMED ErrorCode = "STORE_RESULT_MALFORMED"
)

// Graph operation error codes
const (
	GRAPH_SAVE_FAILED   ErrorCode = "GRAPH_SAVE_FAILED"
	GRAPH_GET_FAILED    ErrorCode = "GRAPH_GET_FAILED"
	GRAPH_LIST_FAILED   ErrorCode = "GRAPH_LIST_FAILED"
	GRAPH_DELETE_FAILED ErrorCode = "GRAPH_DELETE_FAILED"
	GRAPH_SEARCH_FAILED ErrorCode = "GRAPH_SEARCH_FAILED"
	GRAPH_INVALID_INPUT ErrorCode = "GRAPH_INVALID_INPUT"
)

// SyncError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type SyncError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a SyncError with the same Code.
func (e *SyncError) Is(target error) bool {
	var syncErr *SyncError
	if errors.As(target, &syncErr) {
		return e.Code == syncErr.Code
	}
	return false
}

// NewError creates a new non-retryable SyncError with the given code and message.
func NewError(code ErrorCode, message string) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
	}
}

// WrapError creates a new non-retryable SyncError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf extracts the ErrorCode from an error chain.
// Returns an empty code if no SyncError is present in the chain.
func CodeOf(err error) ErrorCode {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Code
	}
	return ""
}
