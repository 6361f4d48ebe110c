// Package errors provides the bridge's typed error taxonomy.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

var (
	// ErrRecordReleased is returned when a result record is read after it
	// was handed back to the engine.
	ErrRecordReleased = stdErrors.New("result record already released")

	// ErrTerminator marks a text field that contains a NUL byte.
	ErrTerminator = stdErrors.New("contains a NUL terminator byte")

	// ErrInvalidUTF8 marks a text field that is not valid UTF-8.
	ErrInvalidUTF8 = stdErrors.New("is not valid UTF-8")

	// ErrNoEngine is returned when a verifier is built without an engine.
	ErrNoEngine = stdErrors.New("no proof engine configured")
)

// DetailedError is implemented by error types that can convert themselves to
// a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to a structured ErrorDetail.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// InvalidInputError reports a request field the boundary cannot carry.
type InvalidInputError struct {
	Err   error
	Field string
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input in field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid input in field %q", e.Field)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *InvalidInputError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("validation", e.Error()).
		WithCode("invalid_input").
		WithDetails(map[string]any{"field": e.Field})
}

// MissingArtifactError reports a required artifact file that is not present.
type MissingArtifactError struct {
	Err  error
	Path string
}

func (e *MissingArtifactError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing artifact %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("missing artifact %s", e.Path)
}

func (e *MissingArtifactError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *MissingArtifactError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("validation", e.Error()).
		WithCode("missing_artifact").
		WithDetails(map[string]any{"path": e.Path})
}

// BoundaryError reports an engine result the bridge cannot interpret.
type BoundaryError struct {
	Op     string
	Reason string
}

func (e *BoundaryError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("boundary %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("boundary: %s", e.Reason)
}

// ToErrorDetail implements DetailedError.
func (e *BoundaryError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail("boundary", e.Error()).WithCode(e.Op)
}

// EncodingError reports text that cannot be encoded for, or decoded from, a
// boundary: a NUL byte in a field or a malformed structured-text payload.
type EncodingError struct {
	Err    error
	Field  string
	Format string
}

func (e *EncodingError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("cannot encode field %q: %v", e.Field, e.Err)
	case e.Format != "":
		return fmt.Sprintf("malformed %s payload: %v", e.Format, e.Err)
	default:
		return fmt.Sprintf("encoding failed: %v", e.Err)
	}
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *EncodingError) ToErrorDetail() *entities.ErrorDetail {
	details := map[string]any{}
	if e.Field != "" {
		details["field"] = e.Field
	}
	if e.Format != "" {
		details["format"] = e.Format
	}
	return entities.NewErrorDetail("encoding", e.Error()).
		WithCode("encoding").
		WithDetails(details)
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// MemoryError represents a memory allocation failure in guest linear memory.
type MemoryError struct {
	Requested int
	Current   int
	Limit     int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory allocation failed: requested %d bytes, current %d bytes, limit %d bytes",
		e.Requested, e.Current, e.Limit)
}

// ToErrorDetail implements DetailedError.
func (e *MemoryError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "internal", Code: "memory_limit"}
}

// IsValidationError reports whether err is an InvalidInputError or a
// MissingArtifactError.
func IsValidationError(err error) bool {
	var inv *InvalidInputError
	var miss *MissingArtifactError
	return stdErrors.As(err, &inv) || stdErrors.As(err, &miss)
}
