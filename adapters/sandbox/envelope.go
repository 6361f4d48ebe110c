package sandbox

import (
	"encoding/json"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
)

// Envelope wraps an export's result for the trip back to the host.
func Envelope(output string, err error) entities.SandboxResponse {
	if err != nil {
		return entities.SandboxResponse{Error: bridgeerrors.ToErrorDetail(err)}
	}
	return entities.SandboxResponse{Output: output}
}

// MarshalEnvelope renders Envelope(output, err) as JSON.
func MarshalEnvelope(output string, err error) []byte {
	data, mErr := json.Marshal(Envelope(output, err))
	if mErr != nil {
		data, _ = json.Marshal(entities.SandboxResponse{
			Error: entities.NewErrorDetail("internal", "failed to marshal sandbox response: "+mErr.Error()),
		})
	}
	return data
}

// OpenEnvelope parses a guest response. An error envelope becomes a
// *errors.RemoteError that errors.As can match against the typed errors.
func OpenEnvelope(data []byte) (string, error) {
	var resp entities.SandboxResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", malformed(err)
	}
	if resp.Error != nil {
		return "", bridgeerrors.FromErrorDetail(resp.Error)
	}
	return resp.Output, nil
}
