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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Invocation errors
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"

	// Script errors
	ErrInterpreterInit ErrorCode = "INTERPRETER_INIT"
	ErrScriptParse     ErrorCode = "SCRIPT_PARSE"
	ErrScriptRuntime   ErrorCode = "SCRIPT_RUNTIME"
	ErrMarshal         ErrorCode = "MARSHAL"

	// Link declaration errors
	ErrFieldHasNoName ErrorCode = "FIELD_HAS_NO_NAME"
	ErrMissingField   ErrorCode = "MISSING_FIELD"
	ErrInvalidField   ErrorCode = "INVALID_FIELD"

	// Link synchronization errors
	ErrLocationNotFound ErrorCode = "LOCATION_NOT_FOUND"
	ErrProtectedPath    ErrorCode = "PROTECTED_PATH"
	ErrRemove           ErrorCode = "REMOVE"
	ErrSymlinkCreate    ErrorCode = "SYMLINK_CREATE"

	// External command errors
	ErrCommandFailed ErrorCode = "COMMAND_FAILED"
)

// Severity says how far an error is allowed to propagate.
type Severity int

const (
	// SeverityFatal aborts the whole run.
	SeverityFatal Severity = iota
	// SeverityEntry drops a single link entry; the batch continues.
	SeverityEntry
	// SeverityCall fails a single utility call; the script continues.
	SeverityCall
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityEntry:
		return "entry"
	case SeverityCall:
		return "call"
	default:
		return "unknown"
	}
}

var severities = map[ErrorCode]Severity{
	ErrFieldHasNoName:   SeverityEntry,
	ErrMissingField:     SeverityEntry,
	ErrInvalidField:     SeverityEntry,
	ErrLocationNotFound: SeverityEntry,
	ErrProtectedPath:    SeverityEntry,
	ErrRemove:           SeverityEntry,
	ErrSymlinkCreate:    SeverityEntry,
	ErrCommandFailed:    SeverityCall,
	ErrNotImplemented:   SeverityCall,
	ErrMarshal:          SeverityCall,
}

// EnvsyncError represents a structured error with code and details
type EnvsyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *EnvsyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *EnvsyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *EnvsyncError) Is(target error) bool {
	var targetErr *EnvsyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// Severity returns how far this error may propagate.
// Codes without an explicit classification are fatal.
func (e *EnvsyncError) Severity() Severity {
	if s, ok := severities[e.Code]; ok {
		return s
	}
	return SeverityFatal
}

// New creates a new EnvsyncError with the given code and message
func New(code ErrorCode, message string) *EnvsyncError {
	return &EnvsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new EnvsyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *EnvsyncError {
	return &EnvsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an EnvsyncError
func Wrap(err error, code ErrorCode, message string) *EnvsyncError {
	if err == nil {
		return nil
	}
	return &EnvsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *EnvsyncError {
	if err == nil {
		return nil
	}
	return &EnvsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *EnvsyncError) WithDetail(key string, value interface{}) *EnvsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *EnvsyncError) WithDetails(details map[string]interface{}) *EnvsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var envErr *EnvsyncError
	if errors.As(err, &envErr) {
		return envErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an EnvsyncError
func GetErrorCode(err error) ErrorCode {
	var envErr *EnvsyncError
	if errors.As(err, &envErr) {
		return envErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an EnvsyncError
func GetErrorDetails(err error) map[string]interface{} {
	var envErr *EnvsyncError
	if errors.As(err, &envErr) {
		return envErr.Details
	}
	return nil
}

// SeverityOf classifies any error. Errors outside the taxonomy are fatal.
func SeverityOf(err error) Severity {
	var envErr *EnvsyncError
	if errors.As(err, &envErr) {
		return envErr.Severity()
	}
	return SeverityFatal
}

// IsFatal reports whether err must abort the run.
func IsFatal(err error) bool {
	return err != nil && SeverityOf(err) == SeverityFatal
}

// Describe returns the one-line, code-free message shown to users.
func Describe(err error) string {
	var envErr *EnvsyncError
	if errors.As(err, &envErr) {
		if envErr.Wrapped != nil {
			return fmt.Sprintf("%s: %s", envErr.Message, Describe(envErr.Wrapped))
		}
		return envErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
