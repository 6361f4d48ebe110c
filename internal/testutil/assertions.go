// Package testutil provides shared test fixtures and assertions for bridge tests.
package testutil

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ScenarioRequest returns the reference P-256 witness used across tests.
func ScenarioRequest() entities.ProofRequest {
	return entities.NewProofRequest(
		"beaaf37129e2e801ca360e226bce78c8c82ad08bf88e3250177e8e32cad17f8e",
		"d5675d2bf43d09c689c1c5f080467c40493ecfad7b8a9753ed4019615913c52b",
		"9f6c5744183080ed5da9d3c1dacea9db10c07d4721dfe4aba8e217720635e3df",
		"ec2a78c1dcde84326c812a7666a9167022ad2b388035d8fdd97b495939ce7174",
		"dee8b2f2861a1bee29932861deb5e045580d3bbe1592d5aa1bbbe7322f2396e9",
	)
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// WriteArtifacts creates a temporary directory holding placeholder files for
// the default artifact set, skipping the names listed in omit.
func WriteArtifacts(t *testing.T, omit ...string) entities.ArtifactSet {
	t.Helper()

	dir := t.TempDir()
	set := entities.DefaultArtifactSet(dir)
	skip := make(map[string]bool, len(omit))
	for _, name := range omit {
		skip[name] = true
	}
	for _, name := range []string{set.ConstraintSystem, set.ProvingKey, set.VerifyingKey} {
		if skip[name] {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("artifact"), 0o600))
	}
	if !skip[set.Witness] {
		witness, err := json.Marshal(ScenarioRequest())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, set.Witness), witness, 0o600))
	}
	return set
}

// AssertInvalidInput asserts that err is an InvalidInputError for field.
func AssertInvalidInput(t *testing.T, err error, field string) {
	t.Helper()

	var inv *bridgeerrors.InvalidInputError
	require.True(t, errors.As(err, &inv), "expected InvalidInputError, got %v", err)
	assert.Equal(t, field, inv.Field)
}

// AssertMissingArtifact asserts that err is a MissingArtifactError for path.
func AssertMissingArtifact(t *testing.T, err error, path string) {
	t.Helper()

	var miss *bridgeerrors.MissingArtifactError
	require.True(t, errors.As(err, &miss), "expected MissingArtifactError, got %v", err)
	assert.Equal(t, path, miss.Path)
}

// AssertOutcome compares two outcomes field by field.
func AssertOutcome(t *testing.T, expected, actual entities.VerificationOutcome, msgAndArgs ...interface{}) {
	t.Helper()

	assert.Equal(t, expected.Success, actual.Success, msgAndArgs...)
	assert.Equal(t, expected.ErrorMessage, actual.ErrorMessage, msgAndArgs...)
	assert.Equal(t, expected.ProofData, actual.ProofData, msgAndArgs...)
}

// AssertJSONEqual compares two JSON strings for equality, ignoring formatting
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()

	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected JSON is invalid")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual JSON is invalid")

	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}
