// Command libksig builds the reference engine as a C shared library exposing
// the libecdsa_verifier call surface:
//
//	go build -buildmode=c-shared -o libecdsa_verifier.so ./cmd/libksig
//
// Artifacts are read from KSIG_ARTIFACT_DIR, or the working directory when
// unset.
package main

/*
#include <stdlib.h>

typedef struct {
    char* msgHash;
    char* r;
    char* s;
    char* pubX;
    char* pubY;
} ProveInput;

typedef struct {
    int success;
    char* error_msg;
    char* proof_data;
} ProofResult;
*/
import "C"

import (
	"encoding/hex"
	"fmt"
	"os"
	"unsafe"

	"github.com/ZKNoxHQ/ksig-bridge/config"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/engine/gnarkengine"
)

func artifactSet() entities.ArtifactSet {
	return entities.DefaultArtifactSet(os.Getenv(config.EnvArtifactDir))
}

func run(prove func() ([]byte, error)) (res C.ProofResult) {
	defer func() {
		if r := recover(); r != nil {
			res = C.ProofResult{error_msg: C.CString(fmt.Sprintf("engine panic: %v", r))}
		}
	}()
	gnarkengine.SilenceLogs()
	proof, err := prove()
	if err != nil {
		return C.ProofResult{error_msg: C.CString(err.Error())}
	}
	return C.ProofResult{success: 1, proof_data: C.CString(hex.EncodeToString(proof))}
}

func goString(p *C.char) string {
	if p == nil {
		return ""
	}
	return C.GoString(p)
}

//export RunProofVerification
func RunProofVerification() C.ProofResult {
	return run(func() ([]byte, error) {
		return gnarkengine.ProveFromFiles(artifactSet())
	})
}

//export RunProofVerificationWithInputs
func RunProofVerificationWithInputs(input C.ProveInput) C.ProofResult {
	req := entities.NewProofRequest(
		goString(input.msgHash),
		goString(input.r),
		goString(input.s),
		goString(input.pubX),
		goString(input.pubY),
	)
	return run(func() ([]byte, error) {
		return gnarkengine.ProveWithInputs(artifactSet(), req)
	})
}

//export FreeProofResult
func FreeProofResult(res C.ProofResult) {
	if res.error_msg != nil {
		C.free(unsafe.Pointer(res.error_msg))
	}
	if res.proof_data != nil {
		C.free(unsafe.Pointer(res.proof_data))
	}
}

func main() {}
