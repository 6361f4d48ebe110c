package entities

import "fmt"

// ErrorDetail provides structured error information on the wire.
// Error Types: "validation", "encoding", "boundary", "config", "panic", "internal"
type ErrorDetail struct {
	// Details contains additional error context, such as the offending field.
	Details map[string]any `json:"details,omitempty"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Type categorizes the error.
	Type string `json:"type"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`

	// Stack contains the stack trace for panic errors.
	Stack []byte `json:"stack,omitempty"`
}

// Error implements the error interface. The message is returned unchanged so
// field and path details survive a round trip through the wire format.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	if e.Type == "panic" {
		return fmt.Sprintf("panic: %s", e.Message)
	}
	return e.Message
}

// NewErrorDetail creates a new ErrorDetail with the given type and message.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{
		Type:    errorType,
		Message: message,
	}
}

// WithDetails attaches details and returns the same ErrorDetail.
func (e *ErrorDetail) WithDetails(details map[string]any) *ErrorDetail {
	e.Details = details
	return e
}

// WithCode attaches a code and returns the same ErrorDetail.
func (e *ErrorDetail) WithCode(code string) *ErrorDetail {
	e.Code = code
	return e
}
