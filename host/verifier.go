package host

import (
	"context"
	"encoding/json"

	"github.com/ZKNoxHQ/ksig-bridge/adapters/sandbox"
	"github.com/ZKNoxHQ/ksig-bridge/application/validation"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
)

// TextVerifier is the text-in, text-out surface of a sandboxed guest.
type TextVerifier interface {
	VerifyFromFiles(ctx context.Context) (string, error)
	VerifyWithInputs(ctx context.Context, text string) (string, error)
}

// AsVerifier presents a text surface as a ports.Verifier, encoding requests
// and decoding outcomes as JSON.
func AsVerifier(tv TextVerifier) ports.Verifier {
	return &textVerifier{tv: tv}
}

// requests checks fields only; artifacts are inspected inside the guest.
var requests = validation.New(nil)

type textVerifier struct {
	tv TextVerifier
}

func (v *textVerifier) VerifyFromFiles(ctx context.Context) (entities.VerificationOutcome, error) {
	text, err := v.tv.VerifyFromFiles(ctx)
	if err != nil {
		return entities.VerificationOutcome{}, err
	}
	return sandbox.DecodeOutcome(text)
}

// VerifyWithInputs rejects fields that JSON cannot carry unchanged before
// encoding them.
func (v *textVerifier) VerifyWithInputs(ctx context.Context, req entities.ProofRequest) (entities.VerificationOutcome, error) {
	if err := requests.ValidateRequest(req); err != nil {
		return entities.VerificationOutcome{}, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return entities.VerificationOutcome{}, &bridgeerrors.EncodingError{Format: sandbox.FormatJSON, Err: err}
	}
	text, err := v.tv.VerifyWithInputs(ctx, string(data))
	if err != nil {
		return entities.VerificationOutcome{}, err
	}
	return sandbox.DecodeOutcome(text)
}
