package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Project errors
	ErrCodeProjectNotFound   ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeRecognitionFailed ErrorCode = "RECOGNITION_FAILED"

	// Registry errors
	ErrCodeRegistryNotInitialized ErrorCode = "REGISTRY_NOT_INITIALIZED"
	ErrCodeEventNotFound          ErrorCode = "EVENT_NOT_FOUND"

	// Multiplexer errors
	ErrCodeToolUnavailable       ErrorCode = "TOOL_UNAVAILABLE"
	ErrCodeSessionCreationFailed ErrorCode = "SESSION_CREATION_FAILED"

	// Command execution errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// WorkonError represents a structured error with context
type WorkonError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *WorkonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *WorkonError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *WorkonError) WithDetail(key string, value interface{}) *WorkonError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *WorkonError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new WorkonError
func New(code ErrorCode, message string) *WorkonError {
	return &WorkonError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a WorkonError
func Wrap(err error, code ErrorCode, message string) *WorkonError {
	return &WorkonError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// As returns the first WorkonError in err's chain.
func As(err error) (*WorkonError, bool) {
	for err != nil {
		if werr, ok := err.(*WorkonError); ok {
			return werr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Is checks if an error is a specific WorkonError code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	workonErr, ok := err.(*WorkonError)
	if !ok {
		// Try to unwrap
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return workonErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if werr, ok := As(err); ok {
		return werr.Code
	}
	return ""
}
