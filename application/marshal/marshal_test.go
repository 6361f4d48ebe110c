package marshal_test

import (
	"testing"

	"github.com/ZKNoxHQ/ksig-bridge/application/marshal"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/internal/cstr"
	"github.com/ZKNoxHQ/ksig-bridge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("fields are copied in order", func(t *testing.T) {
		req := testutil.ScenarioRequest()
		frame, err := marshal.Encode(req)
		require.NoError(t, err)
		defer frame.Release()

		rec := frame.Record()
		for i, p := range []any{rec.MsgHash, rec.R, rec.S, rec.PubX, rec.PubY} {
			assert.NotNil(t, p, "field %d", i)
		}
		assert.Equal(t, req.MsgHash, string(cstr.Bytes(rec.MsgHash)))
		assert.Equal(t, req.R, string(cstr.Bytes(rec.R)))
		assert.Equal(t, req.S, string(cstr.Bytes(rec.S)))
		assert.Equal(t, req.PubX, string(cstr.Bytes(rec.PubX)))
		assert.Equal(t, req.PubY, string(cstr.Bytes(rec.PubY)))
	})

	t.Run("empty fields become empty strings", func(t *testing.T) {
		frame, err := marshal.Encode(entities.ProofRequest{})
		require.NoError(t, err)
		defer frame.Release()

		assert.NotNil(t, frame.Record().PubY)
		assert.Equal(t, []byte{}, cstr.Bytes(frame.Record().PubY))
	})

	t.Run("terminator rejected", func(t *testing.T) {
		req := testutil.ScenarioRequest()
		req.PubX = "ec2a\x00"

		frame, err := marshal.Encode(req)
		assert.Nil(t, frame)
		var encErr *bridgeerrors.EncodingError
		require.ErrorAs(t, err, &encErr)
		assert.Equal(t, entities.FieldPubX, encErr.Field)
		assert.ErrorIs(t, err, bridgeerrors.ErrTerminator)
	})

	t.Run("release is idempotent", func(t *testing.T) {
		frame, err := marshal.Encode(testutil.ScenarioRequest())
		require.NoError(t, err)
		require.True(t, frame.Live())

		frame.Release()
		frame.Release()
		assert.False(t, frame.Live())
		assert.Equal(t, entities.InputRecord{}, frame.Record())
	})
}

func TestBorrowed_Decode(t *testing.T) {
	tests := []struct {
		name     string
		response testutil.FakeResponse
		expected entities.VerificationOutcome
	}{
		{
			name:     "success with proof",
			response: testutil.FakeResponse{Success: true, Proof: testutil.Ptr("abcd")},
			expected: entities.OutcomeSuccess(testutil.Ptr("abcd")),
		},
		{
			name:     "success with both fields absent",
			response: testutil.FakeResponse{Success: true},
			expected: entities.VerificationOutcome{Success: true},
		},
		{
			name:     "success with both fields present",
			response: testutil.FakeResponse{Success: true, Proof: testutil.Ptr("p"), Error: testutil.Ptr("warn")},
			expected: entities.VerificationOutcome{Success: true, ProofData: testutil.Ptr("p"), ErrorMessage: testutil.Ptr("warn")},
		},
		{
			name:     "failure with message",
			response: testutil.FakeResponse{Error: testutil.Ptr("Failed to read R1CS")},
			expected: entities.OutcomeFailure("Failed to read R1CS"),
		},
		{
			name:     "failure without message",
			response: testutil.FakeResponse{},
			expected: entities.OutcomeUnknownFailure(),
		},
		{
			name:     "failure with empty message is kept",
			response: testutil.FakeResponse{Error: testutil.Ptr("")},
			expected: entities.OutcomeFailure(""),
		},
		{
			name:     "invalid utf-8 repaired",
			response: testutil.FakeResponse{RawError: []byte{'b', 'a', 'd', 0xff}},
			expected: entities.OutcomeFailure("bad�"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := testutil.NewFakeEngine(tt.response)

			got, err := marshal.Decode(engine.Verify(), engine)
			require.NoError(t, err)
			testutil.AssertOutcome(t, tt.expected, got)
			assert.Equal(t, 1, engine.Released())
			assert.Zero(t, engine.Outstanding())
			assert.Zero(t, engine.DoubleReleases())
		})
	}
}

func TestBorrowed_ReleaseExactlyOnce(t *testing.T) {
	t.Run("decode twice", func(t *testing.T) {
		engine := testutil.SucceedingEngine("proof")
		b := marshal.Borrow(engine.Verify(), engine.Release)

		_, err := b.Decode()
		require.NoError(t, err)
		_, err = b.Decode()
		assert.ErrorIs(t, err, bridgeerrors.ErrRecordReleased)

		b.Release()
		assert.True(t, b.Released())
		assert.Equal(t, 1, engine.Released())
		assert.Zero(t, engine.DoubleReleases())
	})

	t.Run("release without reading", func(t *testing.T) {
		engine := testutil.FailingEngine("boom")
		b := marshal.Borrow(engine.Verify(), engine.Release)

		b.Release()
		b.Release()
		_, err := b.Decode()
		assert.ErrorIs(t, err, bridgeerrors.ErrRecordReleased)
		assert.Equal(t, 1, engine.Released())
		assert.Zero(t, engine.Outstanding())
	})

	t.Run("null record never dereferenced", func(t *testing.T) {
		var released []entities.ResultRecord
		b := marshal.Borrow(entities.ResultRecord{Success: 1}, func(r entities.ResultRecord) {
			released = append(released, r)
		})

		got, err := b.Decode()
		require.NoError(t, err)
		assert.Equal(t, entities.VerificationOutcome{Success: true}, got)
		assert.Len(t, released, 1)
	})

	t.Run("panicking release still marks record released", func(t *testing.T) {
		calls := 0
		b := marshal.Borrow(entities.ResultRecord{}, func(entities.ResultRecord) {
			calls++
			panic("engine fault")
		})

		assert.Panics(t, func() { b.Release() })
		assert.True(t, b.Released())
		assert.NotPanics(t, func() { b.Release() })
		assert.Equal(t, 1, calls)
	})
}

func TestEncodeDecode_RoundTripThroughEngine(t *testing.T) {
	engine := testutil.SucceedingEngine("proof")
	req := testutil.ScenarioRequest()

	frame, err := marshal.Encode(req)
	require.NoError(t, err)
	rec := engine.VerifyWithInputs(frame.Record())
	frame.Release()

	got, err := marshal.Decode(rec, engine)
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Equal(t, []entities.ProofRequest{req}, engine.Inputs())
}
