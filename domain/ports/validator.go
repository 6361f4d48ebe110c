package ports

import "github.com/ZKNoxHQ/ksig-bridge/domain/entities"

// RequestValidator decides whether an operation may reach the engine.
type RequestValidator interface {
	// Validate checks req (skipped when nil), then every artifact path in
	// order, and returns the first violation.
	Validate(req *entities.ProofRequest, artifacts entities.RequiredArtifacts) error
}
