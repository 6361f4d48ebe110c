//go:build cgo && ksignative

package native

/*
#cgo LDFLAGS: -lecdsa_verifier
#include "ecdsa_verifier.h"
*/
import "C"

import (
	"unsafe"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
)

// Engine calls into libecdsa_verifier.
type Engine struct{}

var _ ports.Engine = (*Engine)(nil)

// New returns the native engine.
func New() (*Engine, error) {
	return &Engine{}, nil
}

// Verify implements ports.Engine.
func (e *Engine) Verify() entities.ResultRecord {
	return fromC(C.RunProofVerification())
}

// VerifyWithInputs implements ports.Engine. The input buffers must stay
// pinned for the duration of the call.
func (e *Engine) VerifyWithInputs(in entities.InputRecord) entities.ResultRecord {
	return fromC(C.RunProofVerificationWithInputs(C.ProveInput{
		msgHash: (*C.char)(in.MsgHash),
		r:       (*C.char)(in.R),
		s:       (*C.char)(in.S),
		pubX:    (*C.char)(in.PubX),
		pubY:    (*C.char)(in.PubY),
	}))
}

// Release implements ports.Engine. The record is rebuilt as the library's
// own ProofResult type before it is handed back.
func (e *Engine) Release(rec entities.ResultRecord) {
	C.FreeProofResult(C.ProofResult{
		success:    C.int(rec.Success),
		error_msg:  (*C.char)(rec.Error),
		proof_data: (*C.char)(rec.Proof),
	})
}

func fromC(res C.ProofResult) entities.ResultRecord {
	return entities.ResultRecord{
		Success: int32(res.success),
		Error:   unsafe.Pointer(res.error_msg),
		Proof:   unsafe.Pointer(res.proof_data),
	}
}
