package errors

import (
	stdErrors "errors"
	"strings"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
)

// RemoteError is an error received as an ErrorDetail from the other side of a
// sandbox boundary. Its message is the original message. errors.As recovers
// the typed validation and encoding errors it was built from.
type RemoteError struct {
	Detail *entities.ErrorDetail
}

// FromErrorDetail turns a wire error back into a Go error. A nil detail
// yields nil.
func FromErrorDetail(detail *entities.ErrorDetail) error {
	if detail == nil {
		return nil
	}
	return &RemoteError{Detail: detail}
}

func (e *RemoteError) Error() string {
	return e.Detail.Error()
}

// ToErrorDetail implements DetailedError.
func (e *RemoteError) ToErrorDetail() *entities.ErrorDetail {
	return e.Detail
}

// Is matches the sentinel errors whose text is carried in the message.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrTerminator, ErrInvalidUTF8, ErrRecordReleased, ErrNoEngine:
		return strings.Contains(e.Detail.Message, target.Error())
	}
	return false
}

// As rebuilds the typed error named by the detail's code.
func (e *RemoteError) As(target any) bool {
	switch t := target.(type) {
	case **InvalidInputError:
		if e.Detail.Code != "invalid_input" {
			return false
		}
		*t = &InvalidInputError{Field: e.detailString("field"), Err: e.cause()}
		return true
	case **MissingArtifactError:
		if e.Detail.Code != "missing_artifact" {
			return false
		}
		*t = &MissingArtifactError{Path: e.detailString("path"), Err: e.cause()}
		return true
	case **EncodingError:
		if e.Detail.Type != "encoding" {
			return false
		}
		*t = &EncodingError{Field: e.detailString("field"), Format: e.detailString("format"), Err: e.cause()}
		return true
	case **BoundaryError:
		if e.Detail.Type != "boundary" {
			return false
		}
		*t = &BoundaryError{Op: e.Detail.Code, Reason: e.Detail.Message}
		return true
	}
	return false
}

func (e *RemoteError) detailString(key string) string {
	s, _ := e.Detail.Details[key].(string)
	return s
}

func (e *RemoteError) cause() error {
	for _, sentinel := range []error{ErrTerminator, ErrInvalidUTF8} {
		if e.Is(sentinel) {
			return sentinel
		}
	}
	return stdErrors.New(e.Detail.Message)
}
