// Package sandbox adapts the verifier to a sandboxed runtime where every
// value crosses the boundary as structured text.
//
// Requests and outcomes are JSON. Outcomes always carry all three keys
// (success, errorMessage, proofData); absent values are null.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/ZKNoxHQ/ksig-bridge/application/schema"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	compiler "github.com/santhosh-tekuri/jsonschema/v5"
)

// FormatJSON names the structured-text format in encoding errors.
const FormatJSON = "json"

var requestSchema = sync.OnceValues(schema.CompileRequestSchema)

// DecodeRequest parses a JSON inline witness. The document must be valid
// UTF-8 and an object holding the five fields as strings; other properties
// are ignored.
func DecodeRequest(text string) (entities.ProofRequest, error) {
	if !utf8.ValidString(text) {
		return entities.ProofRequest{}, malformed(bridgeerrors.ErrInvalidUTF8)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return entities.ProofRequest{}, malformed(err)
	}
	if dec.More() {
		return entities.ProofRequest{}, malformed(fmt.Errorf("trailing data after JSON value"))
	}

	sch, err := requestSchema()
	if err != nil {
		return entities.ProofRequest{}, err
	}
	if err := sch.Validate(doc); err != nil {
		return entities.ProofRequest{}, malformed(schemaError(err))
	}

	var req entities.ProofRequest
	if err := json.Unmarshal([]byte(text), &req); err != nil {
		return entities.ProofRequest{}, malformed(err)
	}
	return req, nil
}

// EncodeOutcome renders an outcome as JSON.
func EncodeOutcome(out entities.VerificationOutcome) (string, error) {
	data, err := json.Marshal(out)
	if err != nil {
		return "", &bridgeerrors.EncodingError{Format: FormatJSON, Err: err}
	}
	return string(data), nil
}

// DecodeOutcome parses an outcome rendered by EncodeOutcome.
func DecodeOutcome(text string) (entities.VerificationOutcome, error) {
	var out entities.VerificationOutcome
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return entities.VerificationOutcome{}, malformed(err)
	}
	return out, nil
}

// VerifyFromFiles runs the file-based verification and returns the outcome
// as JSON.
func VerifyFromFiles(ctx context.Context, v ports.Verifier) (string, error) {
	out, err := v.VerifyFromFiles(ctx)
	if err != nil {
		return "", err
	}
	return EncodeOutcome(out)
}

// VerifyWithInputs decodes a JSON inline witness, runs the verification and
// returns the outcome as JSON.
func VerifyWithInputs(ctx context.Context, v ports.Verifier, text string) (string, error) {
	req, err := DecodeRequest(text)
	if err != nil {
		return "", err
	}
	out, err := v.VerifyWithInputs(ctx, req)
	if err != nil {
		return "", err
	}
	return EncodeOutcome(out)
}

func malformed(err error) error {
	return &bridgeerrors.EncodingError{Format: FormatJSON, Err: err}
}

// schemaError flattens a validation error into its most specific causes.
func schemaError(err error) error {
	verr, ok := err.(*compiler.ValidationError)
	if !ok {
		return err
	}
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := leaf.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Errorf("at %s: %s", loc, leaf.Message)
}
