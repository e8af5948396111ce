package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrInvalidJSON        = errors.New("invalid JSON")
	ErrEmptyInput         = fmt.Errorf("%w: input is empty or contains only whitespace", ErrInvalidJSON)
	ErrMultipleJSON       = fmt.Errorf("%w: multiple JSON values found at the root, only one is allowed", ErrInvalidJSON)
	ErrFileNotFound       = errors.New("file not found")
	ErrFileEmpty          = errors.New("file is empty")
	ErrNoInput            = errors.New("no input provided: please pass a file or pipe JSON data to stdin")
	ErrInvalidFilePath    = errors.New("invalid file path")
	ErrDepthExceeded      = errors.New("maximum nesting depth exceeded")
	ErrInvalidElementName = errors.New("invalid XML element name")
	ErrMalformedXML       = errors.New("malformed XML")
	ErrOutputConflict     = errors.New("several inputs map to the same output file")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeAnalysis  ErrorType = "analysis"
	ErrorTypeSerialize ErrorType = "serialize"
	ErrorTypeVerify    ErrorType = "verify"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeUnknown   ErrorType = "unknown"
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

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewAnalysisError creates a new error related to structure analysis
func NewAnalysisError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeAnalysis,
		Message: message,
		Err:     err,
	}
}

// NewSerializeError creates a new error related to XML serialization
func NewSerializeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeSerialize,
		Message: message,
		Err:     err,
	}
}

// NewVerifyError creates a new error related to output verification
func NewVerifyError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeVerify,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// IsInvalidJSON reports whether err is an InvalidJson failure.
func IsInvalidJSON(err error) bool {
	return errors.Is(err, ErrInvalidJSON)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Invalid JSON: %s", appErr.Message)
		case ErrorTypeAnalysis:
			return fmt.Sprintf("Structure error: %s", appErr.Message)
		case ErrorTypeSerialize:
			return fmt.Sprintf("Conversion error: %s", appErr.Message)
		case ErrorTypeVerify:
			return fmt.Sprintf("Verification error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors, most specific first
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Error: The input is empty. Please provide valid JSON data."
	case errors.Is(err, ErrMultipleJSON):
		return "Error: Multiple JSON values found. Please provide a single JSON value."
	case errors.Is(err, ErrInvalidJSON):
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	case errors.Is(err, ErrFileNotFound):
		return "Error: The specified file could not be found. Please check the file path."
	case errors.Is(err, ErrFileEmpty):
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	case errors.Is(err, ErrNoInput):
		return "Error: No input provided. Please pass a JSON file or pipe JSON data to stdin."
	case errors.Is(err, ErrInvalidFilePath):
		return "Error: Invalid file path. Please provide a valid file path."
	case errors.Is(err, ErrDepthExceeded):
		return "Error: The JSON input is nested too deeply."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
