// Package ksig is the native entry point of the bridge: a typed API over an
// ECDSA knowledge-of-signature proof engine.
//
//	b, err := ksig.Open(cfg)
//	out, err := b.VerifyWithInputs(ctx, ksig.NewProofRequest(msgHash, r, s, x, y))
//
// Errors are typed; use errors.As with *errors.InvalidInputError,
// *errors.MissingArtifactError or *errors.EncodingError from domain/errors.
package ksig

import (
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
)

// Version of the bridge.
const Version = "0.1.0"

// ProofRequest is the inline witness of a verification.
type ProofRequest = entities.ProofRequest

// VerificationOutcome is the result of a verification.
type VerificationOutcome = entities.VerificationOutcome

// ArtifactSet names the circuit and key files of a deployment.
type ArtifactSet = entities.ArtifactSet

// ErrorDetail is the structured form of a bridge error.
type ErrorDetail = entities.ErrorDetail

// NewProofRequest builds a request from its five hex fields.
func NewProofRequest(msgHash, r, s, pubX, pubY string) ProofRequest {
	return entities.NewProofRequest(msgHash, r, s, pubX, pubY)
}

// ToErrorDetail converts any error into its structured form.
func ToErrorDetail(err error) *ErrorDetail {
	return bridgeerrors.ToErrorDetail(err)
}
