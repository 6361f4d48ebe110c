package ports

import "github.com/ZKNoxHQ/ksig-bridge/domain/entities"

// Engine is the fixed foreign call surface of the proof-verification engine.
//
// Implementations must be safe for concurrent independent calls: every call
// receives its own InputRecord and returns its own ResultRecord. The engine
// must not retain InputRecord references after returning.
type Engine interface {
	// Verify runs a verification using the engine's own witness file.
	Verify() entities.ResultRecord

	// VerifyWithInputs runs a verification using the inline witness.
	VerifyWithInputs(in entities.InputRecord) entities.ResultRecord

	// Release frees the engine-owned references of a record returned by
	// Verify or VerifyWithInputs. It must be called exactly once per record.
	Release(rec entities.ResultRecord)
}
