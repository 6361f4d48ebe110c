package entities

import "unsafe"

// InputRecord mirrors the engine's ProveInput struct: five NUL-terminated
// string references. The references are borrowed from caller-owned buffers
// and are valid only for the duration of one boundary call.
type InputRecord struct {
	MsgHash unsafe.Pointer
	R       unsafe.Pointer
	S       unsafe.Pointer
	PubX    unsafe.Pointer
	PubY    unsafe.Pointer
}

// ResultRecord mirrors the engine's ProofResult struct. Error and Proof are
// owned by the engine; nil means absent. A record must be handed back to the
// engine's release operation exactly once.
type ResultRecord struct {
	Error   unsafe.Pointer
	Proof   unsafe.Pointer
	Success int32
}
