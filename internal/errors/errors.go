package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard application errors
var (
	ErrMissingArgument = errors.New("missing required argument")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrInvalidPattern  = errors.New("invalid regular expression")
	ErrInvalidEncoding = errors.New("invalid encoded data")
	ErrInvalidNumber   = errors.New("invalid number")
	ErrInvalidDate     = errors.New("invalid date")
	ErrPathNotFound    = errors.New("path not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrNotMapping      = errors.New("value is not an object")
	ErrNotArray        = errors.New("value is not an array")
)

var sentinels = []error{
	ErrMissingArgument, ErrUnknownCommand, ErrEmptyInput, ErrInvalidJSON,
	ErrMultipleJSON, ErrInvalidPattern, ErrInvalidEncoding, ErrInvalidNumber,
	ErrInvalidDate, ErrPathNotFound, ErrFileNotFound, ErrNotMapping, ErrNotArray,
}

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeMissingArgument ErrorType = "missing_argument"
	ErrorTypeParse           ErrorType = "parse"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeInvalidInput    ErrorType = "invalid_input"
	ErrorTypeIO              ErrorType = "io"
	ErrorTypeRemote          ErrorType = "remote"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewMissingArgumentError creates an error for a command invoked without a required argument
func NewMissingArgumentError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeMissingArgument,
		Message: message,
		Err:     err,
	}
}

// NewParseError creates an error for malformed JSON, CSV, patterns, dates, numbers or encodings
func NewParseError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates an error for a missing file, JSON path, command or format
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Err:     err,
	}
}

// NewInvalidInputError creates an error for input of the wrong shape
func NewInvalidInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: message,
		Err:     err,
	}
}

// NewIOError creates an error for a filesystem or network failure
func NewIOError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeIO,
		Message: message,
		Err:     err,
	}
}

// NewRemoteError creates an error for a non-2xx HTTP response
func NewRemoteError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRemote,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// UserFriendlyError returns a single-line, user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Err != nil && !isSentinel(appErr.Err) {
			msg = fmt.Sprintf("%s: %v", msg, appErr.Err)
		}
		switch appErr.Type {
		case ErrorTypeMissingArgument:
			msg = "Missing argument: " + msg
		case ErrorTypeParse:
			msg = "Parse error: " + msg
		case ErrorTypeNotFound:
			msg = "Not found: " + msg
		case ErrorTypeInvalidInput:
			msg = "Invalid input: " + msg
		case ErrorTypeIO:
			msg = "I/O error: " + msg
		case ErrorTypeRemote:
			msg = "Request failed: " + msg
		default:
			msg = "Error: " + msg
		}
		return singleLine(msg)
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}

	return singleLine(fmt.Sprintf("Error: %v", err))
}

func isSentinel(err error) bool {
	for _, s := range sentinels {
		if err == s {
			return true
		}
	}
	return false
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
