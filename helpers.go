package ksig

import (
	"encoding/json"
	"fmt"

	"github.com/ZKNoxHQ/ksig-bridge/adapters/sandbox"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
)

// Values is a loosely typed request, as decoded from JSON or YAML.
type Values map[string]any

// GetString extracts a string from values, returning (value, found).
func GetString(values Values, key string) (string, bool) {
	v, ok := values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// RequestFromMap converts loosely typed values into a ProofRequest. All five
// fields must be present as strings; other keys are ignored. The values go
// through the same JSON schema as sandbox requests.
func RequestFromMap(values Values) (ProofRequest, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return ProofRequest{}, &bridgeerrors.EncodingError{
			Format: sandbox.FormatJSON,
			Err:    fmt.Errorf("failed to marshal values: %w", err),
		}
	}
	return sandbox.DecodeRequest(string(data))
}

// OutcomeToMap renders an outcome as loosely typed values. Absent strings
// map to nil.
func OutcomeToMap(out VerificationOutcome) Values {
	values := Values{
		"success":      out.Success,
		"errorMessage": nil,
		"proofData":    nil,
	}
	if out.ErrorMessage != nil {
		values["errorMessage"] = *out.ErrorMessage
	}
	if out.ProofData != nil {
		values["proofData"] = *out.ProofData
	}
	return values
}
