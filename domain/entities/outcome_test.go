package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestVerificationOutcome_IsAmbiguous(t *testing.T) {
	tests := []struct {
		name    string
		outcome VerificationOutcome
		want    bool
	}{
		{name: "success", outcome: OutcomeSuccess(strPtr("00ff")), want: false},
		{name: "success without proof", outcome: OutcomeSuccess(nil), want: false},
		{name: "failure with message", outcome: OutcomeFailure("bad signature"), want: false},
		{name: "failure without message", outcome: VerificationOutcome{}, want: true},
		{name: "failure with empty message", outcome: VerificationOutcome{ErrorMessage: strPtr("")}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.IsAmbiguous())
		})
	}
}

func TestVerificationOutcome_JSONNulls(t *testing.T) {
	data, err := json.Marshal(OutcomeSuccess(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"errorMessage":null,"proofData":null}`, string(data))

	var decoded VerificationOutcome
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, OutcomeSuccess(nil), decoded)
}

func TestVerificationOutcome_Accessors(t *testing.T) {
	o := OutcomeFailure("boom")
	assert.Equal(t, "boom", o.Error())
	assert.Empty(t, o.Proof())

	o = OutcomeSuccess(strPtr("abcd"))
	assert.Empty(t, o.Error())
	assert.Equal(t, "abcd", o.Proof())

	assert.Equal(t, UnknownFailureMessage, OutcomeUnknownFailure().Error())
}

func TestProofRequest_FieldsOrder(t *testing.T) {
	req := NewProofRequest("h", "r", "s", "x", "y")
	fields := req.Fields()

	names := make([]string, 0, len(fields))
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
		values = append(values, f.Value)
	}
	assert.Equal(t, []string{FieldMsgHash, FieldR, FieldS, FieldPubX, FieldPubY}, names)
	assert.Equal(t, []string{"h", "r", "s", "x", "y"}, values)
}

func TestArtifactSet_Flows(t *testing.T) {
	set := DefaultArtifactSet("/data/circuit")

	assert.Equal(t, RequiredArtifacts{
		"/data/circuit/r1cs.bin",
		"/data/circuit/proving_key.bin",
		"/data/circuit/verifying_key.bin",
		"/data/circuit/witness_input.json",
	}, set.FileFlow())

	assert.Equal(t, RequiredArtifacts{
		"/data/circuit/r1cs.bin",
		"/data/circuit/proving_key.bin",
		"/data/circuit/verifying_key.bin",
	}, set.InputFlow())
}

func TestArtifactSet_Path(t *testing.T) {
	set := DefaultArtifactSet("")
	assert.Equal(t, "r1cs.bin", set.ConstraintSystemPath())

	set.Dir = "base"
	set.Witness = "/abs/witness.json"
	assert.Equal(t, "/abs/witness.json", set.WitnessPath())
	assert.Equal(t, "base/proving_key.bin", set.ProvingKeyPath())
}

func TestErrorDetail_Error(t *testing.T) {
	var nilDetail *ErrorDetail
	assert.Empty(t, nilDetail.Error())

	d := NewErrorDetail("validation", "invalid input in field \"r\"").WithCode("invalid_input")
	assert.Equal(t, "invalid input in field \"r\"", d.Error())
	assert.Equal(t, "invalid_input", d.Code)

	p := NewErrorDetail("panic", "nil map")
	assert.Equal(t, "panic: nil map", p.Error())
}
