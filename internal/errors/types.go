package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes shared across packages.
const (
	CodeMissingSection = "MISSING_SECTION"
	CodeInvalidPath    = "INVALID_PATH"
	CodeInvalidName    = "INVALID_NAME"
	CodeDuplicatePath  = "DUPLICATE_PATH"
	CodePageFile       = "PAGE_FILE"
	CodeInvalidEvent   = "INVALID_EVENT"
	CodeInvalidConfig  = "INVALID_CONFIG"
	CodeServerStart    = "SERVER_START"
)

// ErrMissingSection matches any ShellError carrying CodeMissingSection.
var ErrMissingSection = &ShellError{Type: ErrorTypeConfig, Code: CodeMissingSection}

// ShellError is a structured error type with context.
type ShellError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Path        string
	Recoverable bool
}

// Error implements the error interface.
func (e *ShellError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Path != "" {
		parts = append(parts, "path:"+e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ShellError) Unwrap() error {
	return e.Cause
}

// Is reports a match when both type and code agree.
func (e *ShellError) Is(target error) bool {
	var t *ShellError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ShellError) WithContext(key string, value interface{}) *ShellError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath records the page path the error is about.
func (e *ShellError) WithPath(path string) *ShellError {
	e.Path = path

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *ShellError {
	return &ShellError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error. Configuration errors are
// detected at startup and are never recoverable at runtime.
func NewConfigError(code, message string, cause error) *ShellError {
	return &ShellError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *ShellError {
	return &ShellError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(code, message string, cause error) *ShellError {
	return &ShellError{
		Type:        ErrorTypeNetwork,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// MissingSection reports that a navigation group has no section metadata.
func MissingSection(level1, level2 string) *ShellError {
	key := "/" + level1
	if level2 != "" {
		key += "/" + level2
	}

	return NewConfigError(CodeMissingSection, "no section registered for "+key, nil).
		WithContext("level1", level1).
		WithContext("level2", level2).
		WithPath(key)
}

// IsRecoverable reports whether err is a ShellError marked recoverable.
func IsRecoverable(err error) bool {
	var se *ShellError
	if errors.As(err, &se) {
		return se.Recoverable
	}

	return false
}

// GetErrorType extracts the error type of a ShellError, or "" otherwise.
func GetErrorType(err error) ErrorType {
	var se *ShellError
	if errors.As(err, &se) {
		return se.Type
	}

	return ""
}
