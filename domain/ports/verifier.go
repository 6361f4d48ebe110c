package ports

import (
	"context"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
)

// Verifier is the facade every host adapter is built on.
type Verifier interface {
	// VerifyFromFiles proves and verifies using the deployment's witness file.
	VerifyFromFiles(ctx context.Context) (entities.VerificationOutcome, error)

	// VerifyWithInputs proves and verifies using an inline witness.
	VerifyWithInputs(ctx context.Context, req entities.ProofRequest) (entities.VerificationOutcome, error)
}
