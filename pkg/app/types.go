package app

import (
	"errors"
	"fmt"
)

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeImageAccess    = "IMAGE_ACCESS"
	ErrCodeHeaderNotFound = "HEADER_NOT_FOUND"
	ErrCodeLayout         = "LAYOUT"
	ErrCodeTimeout        = "TIMEOUT"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode returns the code of the first CommonError in err's chain, or an
// empty string.
func ErrorCode(err error) string {
	var ce *CommonError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// OutputFormats lists the values accepted by --output
var OutputFormats = []string{"table", "json", "yaml"}

// ValidateOutputFormat checks format is one of OutputFormats
func ValidateOutputFormat(format string) error {
	for _, f := range OutputFormats {
		if f == format {
			return nil
		}
	}
	return NewError(ErrCodeInvalidInput, fmt.Sprintf("unsupported output format %q", format), nil)
}
