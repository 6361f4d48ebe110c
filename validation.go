package ksig

import "github.com/ZKNoxHQ/ksig-bridge/application/validation"

// requests checks request fields only; it never inspects artifacts.
var requests = validation.New(nil)

// ValidateRequest reports the first field that cannot cross the engine
// boundary, as an *errors.InvalidInputError.
func ValidateRequest(req ProofRequest) error {
	return requests.ValidateRequest(req)
}
