// Package validation rejects requests the boundary cannot carry before any
// boundary call is made.
package validation

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	"github.com/go-playground/validator/v10"
)

// Struct tags registered by New.
const (
	// TagNoTerminator rejects strings holding a NUL byte.
	TagNoTerminator = "noterm"
	// TagUTF8 rejects strings that are not valid UTF-8. Text adapters cannot
	// carry such bytes unchanged.
	TagUTF8 = "utf8"
)

// Validator checks proof requests and artifact presence.
type Validator struct {
	inspector   ports.ArtifactInspector
	validate *validator.Validate
}

var _ ports.RequestValidator = (*Validator)(nil)

// New creates a Validator that inspects artifacts with inspector.
func New(inspector ports.ArtifactInspector) *Validator {
	v := validator.New()
	_ = v.RegisterValidation(TagNoTerminator, noTerminator)
	_ = v.RegisterValidation(TagUTF8, validUTF8)
	v.RegisterTagNameFunc(jsonName)
	return &Validator{inspector: inspector, validate: v}
}

// ValidateRequest fails with *errors.InvalidInputError on the first field,
// in declared order, that contains a NUL byte or invalid UTF-8.
func (v *Validator) ValidateRequest(req entities.ProofRequest) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &bridgeerrors.InvalidInputError{Err: err}
	}
	// validator reports struct fields in declaration order.
	first := verrs[0]
	cause := bridgeerrors.ErrTerminator
	if first.Tag() == TagUTF8 {
		cause = bridgeerrors.ErrInvalidUTF8
	}
	return &bridgeerrors.InvalidInputError{
		Field: first.Field(),
		Err:   cause,
	}
}

// CheckArtifacts inspects every path in order and fails with
// *errors.MissingArtifactError on the first one that is absent. File
// contents are never read.
func (v *Validator) CheckArtifacts(artifacts entities.RequiredArtifacts) error {
	for _, path := range artifacts {
		if err := v.inspector.Inspect(path); err != nil {
			return &bridgeerrors.MissingArtifactError{Path: path, Err: err}
		}
	}
	return nil
}

// Validate runs the field checks, then the artifact checks. A nil req skips
// the field checks.
func (v *Validator) Validate(req *entities.ProofRequest, artifacts entities.RequiredArtifacts) error {
	if req != nil {
		if err := v.ValidateRequest(*req); err != nil {
			return err
		}
	}
	return v.CheckArtifacts(artifacts)
}

func noTerminator(fl validator.FieldLevel) bool {
	return strings.IndexByte(fl.Field().String(), 0) < 0
}

func validUTF8(fl validator.FieldLevel) bool {
	return utf8.ValidString(fl.Field().String())
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
