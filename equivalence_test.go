package ksig_test

import (
	"context"
	"testing"

	ksig "github.com/ZKNoxHQ/ksig-bridge"
	"github.com/ZKNoxHQ/ksig-bridge/adapters/managed"
	"github.com/ZKNoxHQ/ksig-bridge/adapters/sandbox"
	"github.com/ZKNoxHQ/ksig-bridge/application/verifier"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	"github.com/ZKNoxHQ/ksig-bridge/host"
	"github.com/ZKNoxHQ/ksig-bridge/internal/testutil"
	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptVerifier drives the managed adapter through JavaScript.
type scriptVerifier struct {
	vm *goja.Runtime
}

func newScriptVerifier(t *testing.T, v ports.Verifier) ports.Verifier {
	t.Helper()
	vm := goja.New()
	require.NoError(t, managed.Install(vm, v))
	return &scriptVerifier{vm: vm}
}

func (s *scriptVerifier) VerifyFromFiles(context.Context) (entities.VerificationOutcome, error) {
	return s.run(`ksig.runProofVerificationFromFiles()`)
}

func (s *scriptVerifier) VerifyWithInputs(_ context.Context, req entities.ProofRequest) (entities.VerificationOutcome, error) {
	args := make(map[string]any, 5)
	for _, f := range req.Fields() {
		args[f.Name] = f.Value
	}
	if err := s.vm.Set("args", args); err != nil {
		return entities.VerificationOutcome{}, err
	}
	return s.run(`ksig.runProofVerificationWithInputs(args)`)
}

func (s *scriptVerifier) run(script string) (entities.VerificationOutcome, error) {
	val, err := s.vm.RunString(script)
	if err != nil {
		return entities.VerificationOutcome{}, err
	}
	return managed.ExportOutcome(s.vm, val)
}

// envelopeSurface is an in-process guest: results travel as the same JSON
// envelopes a wasm guest returns.
type envelopeSurface struct {
	v ports.Verifier
}

func (e envelopeSurface) VerifyFromFiles(ctx context.Context) (string, error) {
	return sandbox.OpenEnvelope(sandbox.MarshalEnvelope(sandbox.VerifyFromFiles(ctx, e.v)))
}

func (e envelopeSurface) VerifyWithInputs(ctx context.Context, text string) (string, error) {
	return sandbox.OpenEnvelope(sandbox.MarshalEnvelope(sandbox.VerifyWithInputs(ctx, e.v, text)))
}

type adapterCase struct {
	wrap func(*testing.T, ports.Verifier) ports.Verifier
	name string
}

var adapters = []adapterCase{
	{name: "native", wrap: func(_ *testing.T, v ports.Verifier) ports.Verifier { return v }},
	{name: "managed", wrap: newScriptVerifier},
	{name: "sandbox", wrap: func(_ *testing.T, v ports.Verifier) ports.Verifier {
		return host.AsVerifier(envelopeSurface{v: v})
	}},
}

func TestEquivalence_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		response testutil.FakeResponse
		want     entities.VerificationOutcome
	}{
		{
			name:     "success with proof",
			response: testutil.FakeResponse{Success: true, Proof: testutil.Ptr("0x1234")},
			want:     entities.OutcomeSuccess(testutil.Ptr("0x1234")),
		},
		{
			name:     "success without fields",
			response: testutil.FakeResponse{Success: true},
			want:     entities.OutcomeSuccess(nil),
		},
		{
			name:     "failure with message",
			response: testutil.FakeResponse{Error: testutil.Ptr("constraint not satisfied")},
			want:     entities.OutcomeFailure("constraint not satisfied"),
		},
		{
			name:     "failure without message",
			response: testutil.FakeResponse{},
			want:     entities.OutcomeUnknownFailure(),
		},
		{
			name:     "failure with empty message",
			response: testutil.FakeResponse{Error: testutil.Ptr("")},
			want:     entities.OutcomeUnknownFailure(),
		},
		{
			name:     "invalid UTF-8 is replaced",
			response: testutil.FakeResponse{Success: true, RawProof: []byte{'0', 'x', 0xff}},
			want:     entities.OutcomeSuccess(testutil.Ptr("0x�")),
		},
	}

	for _, tt := range tests {
		for _, a := range adapters {
			t.Run(tt.name+"/"+a.name, func(t *testing.T) {
				set := testutil.WriteArtifacts(t)

				for _, op := range []string{verifier.OpVerifyFromFiles, verifier.OpVerifyWithInputs} {
					engine := testutil.NewFakeEngine(tt.response)
					b, err := ksig.New(engine, verifier.WithArtifacts(set))
					require.NoError(t, err)
					v := a.wrap(t, b)

					var out entities.VerificationOutcome
					if op == verifier.OpVerifyFromFiles {
						out, err = v.VerifyFromFiles(context.Background())
					} else {
						out, err = v.VerifyWithInputs(context.Background(), testutil.ScenarioRequest())
					}
					require.NoError(t, err, op)
					testutil.AssertOutcome(t, tt.want, out, op)
					assert.Equal(t, 1, engine.Released(), op)
					assert.Zero(t, engine.DoubleReleases(), op)
				}
			})
		}
	}
}

func TestEquivalence_InvalidInput(t *testing.T) {
	tests := []struct {
		edit  func(*entities.ProofRequest)
		cause error
		name  string
		field string
	}{
		{
			name:  "embedded terminator",
			field: entities.FieldS,
			cause: bridgeerrors.ErrTerminator,
			edit:  func(r *entities.ProofRequest) { r.S = "9f6c\x005744" },
		},
		{
			name:  "invalid UTF-8 field",
			field: entities.FieldMsgHash,
			cause: bridgeerrors.ErrInvalidUTF8,
			edit:  func(r *entities.ProofRequest) { r.MsgHash = "be\xffaf" },
		},
	}

	for _, tt := range tests {
		for _, a := range adapters {
			t.Run(tt.name+"/"+a.name, func(t *testing.T) {
				engine := testutil.SucceedingEngine("0x1234")
				b, err := ksig.New(engine, verifier.WithArtifacts(testutil.WriteArtifacts(t)))
				require.NoError(t, err)

				req := testutil.ScenarioRequest()
				tt.edit(&req)
				_, err = a.wrap(t, b).VerifyWithInputs(context.Background(), req)
				require.Error(t, err)
				if a.name == "managed" {
					assert.Contains(t, err.Error(), `invalid input in field "`+tt.field+`"`)
				} else {
					testutil.AssertInvalidInput(t, err, tt.field)
					assert.ErrorIs(t, err, tt.cause)
				}
				assert.Empty(t, engine.Calls(), "engine must not be called")
			})
		}
	}
}

func TestEquivalence_MissingArtifact(t *testing.T) {
	for _, a := range adapters {
		t.Run(a.name, func(t *testing.T) {
			engine := testutil.SucceedingEngine("0x1234")
			set := testutil.WriteArtifacts(t, entities.DefaultConstraintSystemFile, entities.DefaultWitnessFile)
			b, err := ksig.New(engine, verifier.WithArtifacts(set))
			require.NoError(t, err)

			_, err = a.wrap(t, b).VerifyFromFiles(context.Background())
			require.Error(t, err)
			if a.name == "managed" {
				assert.Contains(t, err.Error(), set.ConstraintSystemPath())
			} else {
				testutil.AssertMissingArtifact(t, err, set.ConstraintSystemPath())
			}
			assert.Empty(t, engine.Calls())
		})
	}
}
