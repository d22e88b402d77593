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

	// Version control errors
	ErrCodeGitOperationFailed ErrorCode = "GIT_OPERATION_FAILED"
	ErrCodeGitTimeout         ErrorCode = "GIT_TIMEOUT"

	// Session lifecycle errors
	ErrCodeBranchAlreadyInUse       ErrorCode = "BRANCH_ALREADY_IN_USE"
	ErrCodeSourceBranchNotFound     ErrorCode = "SOURCE_BRANCH_NOT_FOUND"
	ErrCodeSessionCreationCancelled ErrorCode = "SESSION_CREATION_CANCELLED"

	// Worktree repair errors
	ErrCodeBranchMissing    ErrorCode = "BRANCH_MISSING"
	ErrCodeRepairIncomplete ErrorCode = "REPAIR_INCOMPLETE"

	// Agent errors
	ErrCodeSettingsParse    ErrorCode = "SETTINGS_PARSE"
	ErrCodeInvalidSessionID ErrorCode = "INVALID_SESSION_ID"
	ErrCodeUnknownAgent     ErrorCode = "UNKNOWN_AGENT"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// ArborError represents a structured error with context
type ArborError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *ArborError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ArborError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *ArborError) WithDetail(key string, value interface{}) *ArborError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns a named detail, or nil if it was never attached.
func (e *ArborError) Detail(key string) interface{} {
	if e.Details == nil {
		return nil
	}
	return e.Details[key]
}

// ToJSON converts the error to JSON
func (e *ArborError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new ArborError
func New(code ErrorCode, message string) *ArborError {
	return &ArborError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an ArborError
func Wrap(err error, code ErrorCode, message string) *ArborError {
	return &ArborError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error carries a specific error code
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	arborErr, ok := err.(*ArborError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return Is(unwrapper.Unwrap(), code)
		}
		return false
	}

	return arborErr.Code == code
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	arborErr, ok := err.(*ArborError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return arborErr.Code
}
