//go:build wasip1

package sandbox

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ZKNoxHQ/ksig-bridge/application/schema"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	"github.com/ZKNoxHQ/ksig-bridge/internal/abi"
	"github.com/ZKNoxHQ/ksig-bridge/internal/wasmcontext"
	_ "github.com/ZKNoxHQ/ksig-bridge/log" // route guest logs to the host
)

var installed ports.Verifier

// Install sets the verifier the exports call into. The guest's main
// function must call it before the host invokes any export.
func Install(v ports.Verifier) {
	installed = v
}

//go:wasmexport run_proof_verification_from_files_wasm
func runProofVerificationFromFilesWasm() uint64 {
	return handleExportedCall("from_files", func() (string, error) {
		if installed == nil {
			return "", bridgeerrors.ErrNoEngine
		}
		return VerifyFromFiles(wasmcontext.GetCurrentContext(), installed)
	})
}

//go:wasmexport run_proof_verification_with_inputs_wasm
func runProofVerificationWithInputsWasm(ptr, length uint32) uint64 {
	return handleExportedCall("with_inputs", func() (string, error) {
		text := string(abi.BytesFromPtr(abi.PackPtrLen(ptr, length)))
		if installed == nil {
			return "", bridgeerrors.ErrNoEngine
		}
		return VerifyWithInputs(wasmcontext.GetCurrentContext(), installed, text)
	})
}

//go:wasmexport schema
func requestSchemaWasm() uint64 {
	return handleExportedCall("schema", func() (string, error) {
		raw, err := schema.RequestSchema()
		return string(raw), err
	})
}

// handleExportedCall runs f inside a fresh call context and packs its result
// as a SandboxResponse. A panic becomes an error envelope.
func handleExportedCall(op string, f func() (string, error)) (packed uint64) {
	wasmcontext.Begin(op)
	defer wasmcontext.End()

	defer func() {
		if r := recover(); r != nil {
			abi.FreeAllTracked()
			detail := &entities.ErrorDetail{
				Message: fmt.Sprintf("guest panic: %v", r),
				Type:    "panic",
				Stack:   debug.Stack(),
			}
			slog.Error("sandbox: guest panic recovered", "operation", op, "error", detail.Message)
			packed = abi.PtrFromBytes(MarshalEnvelope("", detail))
		}
	}()

	output, err := f()
	if err != nil {
		slog.Debug("sandbox: export returned error", "operation", op, "error", err.Error())
	}
	return abi.PtrFromBytes(MarshalEnvelope(output, err))
}
