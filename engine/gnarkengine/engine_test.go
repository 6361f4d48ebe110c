package gnarkengine

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"os"
	"testing"

	"github.com/ZKNoxHQ/ksig-bridge/application/marshal"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWitness(t *testing.T) {
	w, err := decodeWitness(testutil.ScenarioRequest())
	require.NoError(t, err)
	want, _ := new(big.Int).SetString("d5675d2bf43d09c689c1c5f080467c40493ecfad7b8a9753ed4019615913c52b", 16)
	assert.Zero(t, want.Cmp(w.r))

	bad := testutil.ScenarioRequest()
	bad.PubY = "zz"
	_, err = decodeWitness(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding pubY hex")
}

func TestGenerateWitness(t *testing.T) {
	msg := []byte("message")
	req, err := GenerateWitness(msg)
	require.NoError(t, err)

	w, err := decodeWitness(req)
	require.NoError(t, err)
	pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: w.x, Y: w.y}
	digest := sha256.Sum256(msg)
	assert.Equal(t, hex.EncodeToString(digest[:]), req.MsgHash)
	assert.True(t, ecdsa.Verify(pub, digest[:], w.r, w.s))
}

func TestParseSignature(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	digest := sha256.Sum256([]byte("x"))
	der, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
	require.NoError(t, err)

	r, s, err := parseSignature(der)
	require.NoError(t, err)
	assert.True(t, ecdsa.Verify(&key.PublicKey, digest[:], r, s))

	_, _, err = parseSignature(der[:len(der)-1])
	assert.Error(t, err)
	_, _, err = parseSignature(append(der, 0))
	assert.Error(t, err)
}

func TestEngine_MissingArtifacts(t *testing.T) {
	set := entities.DefaultArtifactSet(t.TempDir())
	e := New(set)

	out, err := marshal.Decode(e.Verify(), e)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error(), set.WitnessPath())
	assert.Nil(t, out.ProofData)
	assert.Zero(t, e.Outstanding())

	frame, err := marshal.Encode(testutil.ScenarioRequest())
	require.NoError(t, err)
	rec := e.VerifyWithInputs(frame.Record())
	frame.Release()
	assert.Equal(t, 1, e.Outstanding())

	out, err = marshal.Decode(rec, e)
	require.NoError(t, err)
	assert.Contains(t, out.Error(), set.ConstraintSystemPath())
	assert.Zero(t, e.Outstanding())
}

func TestEngine_ReleaseUnknownRecord(t *testing.T) {
	e := New(entities.DefaultArtifactSet(t.TempDir()))
	rec := e.Verify()
	e.Release(rec)
	assert.NotPanics(t, func() { e.Release(rec) })
	assert.Zero(t, e.Outstanding())
}

// TestEngine_EndToEnd compiles the circuit and runs real proofs. It takes
// minutes; set KSIG_E2E=1 to run it.
func TestEngine_EndToEnd(t *testing.T) {
	if os.Getenv("KSIG_E2E") != "1" {
		t.Skip("KSIG_E2E not set")
	}
	set := entities.DefaultArtifactSet(t.TempDir())
	require.NoError(t, Setup(set))
	e := New(set)

	t.Run("from files", func(t *testing.T) {
		out, err := marshal.Decode(e.Verify(), e)
		require.NoError(t, err)
		require.True(t, out.Success, out.Error())
		assert.NotEmpty(t, out.Proof())
	})

	t.Run("scenario vector", func(t *testing.T) {
		frame, err := marshal.Encode(testutil.ScenarioRequest())
		require.NoError(t, err)
		defer frame.Release()

		out, err := marshal.Decode(e.VerifyWithInputs(frame.Record()), e)
		require.NoError(t, err)
		assert.True(t, out.Success, out.Error())
	})

	t.Run("tampered signature", func(t *testing.T) {
		req := testutil.ScenarioRequest()
		req.S = "01" + req.S[2:]
		frame, err := marshal.Encode(req)
		require.NoError(t, err)
		defer frame.Release()

		out, err := marshal.Decode(e.VerifyWithInputs(frame.Record()), e)
		require.NoError(t, err)
		assert.False(t, out.Success)
		assert.NotEmpty(t, out.Error())
	})

	assert.Zero(t, e.Outstanding())
}
