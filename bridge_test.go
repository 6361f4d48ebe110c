package ksig_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	ksig "github.com/ZKNoxHQ/ksig-bridge"
	"github.com/ZKNoxHQ/ksig-bridge/application/verifier"
	"github.com/ZKNoxHQ/ksig-bridge/config"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := ksig.New(nil)
	assert.ErrorIs(t, err, bridgeerrors.ErrNoEngine)

	engine := testutil.SucceedingEngine("0xproof")
	set := testutil.WriteArtifacts(t)
	b, err := ksig.New(engine, verifier.WithArtifacts(set))
	require.NoError(t, err)
	assert.Same(t, engine, b.Engine())
	assert.Equal(t, set, b.Artifacts())
}

func TestBridge_ScenarioVector(t *testing.T) {
	engine := testutil.SucceedingEngine("0x1234")
	b, err := ksig.New(engine, verifier.WithArtifacts(testutil.WriteArtifacts(t)))
	require.NoError(t, err)

	out, err := b.VerifyWithInputs(context.Background(), testutil.ScenarioRequest())
	require.NoError(t, err)
	testutil.AssertOutcome(t, entities.OutcomeSuccess(testutil.Ptr("0x1234")), out)
	assert.Equal(t, []entities.ProofRequest{testutil.ScenarioRequest()}, engine.Inputs())
	assert.Equal(t, 1, engine.Released())
}

func TestBridge_MissingArtifact(t *testing.T) {
	engine := testutil.SucceedingEngine("0x1234")
	set := testutil.WriteArtifacts(t, entities.DefaultProvingKeyFile)
	b, err := ksig.New(engine, verifier.WithArtifacts(set))
	require.NoError(t, err)

	_, err = b.VerifyFromFiles(context.Background())
	testutil.AssertMissingArtifact(t, err, set.ProvingKeyPath())
	assert.Empty(t, engine.Calls())

	detail := ksig.ToErrorDetail(err)
	require.NotNil(t, detail)
	assert.Equal(t, "missing_artifact", detail.Code)
}

func TestOpen_Gnark(t *testing.T) {
	cfg := config.Default()
	cfg.Engine = config.EngineGnark
	cfg.Artifacts = testutil.WriteArtifacts(t)

	b, err := ksig.Open(cfg)
	require.NoError(t, err)

	// Placeholder artifacts are not loadable, so the engine reports failure.
	out, err := b.VerifyFromFiles(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error())
}

func TestOpenWithLogger_SharedByEngine(t *testing.T) {
	cfg := config.Default()
	cfg.Engine = config.EngineGnark
	cfg.Artifacts = testutil.WriteArtifacts(t)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b, err := ksig.OpenWithLogger(cfg, logger)
	require.NoError(t, err)

	_, err = b.VerifyFromFiles(context.Background())
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "gnark engine call finished")
	assert.Contains(t, logs.String(), "verification finished")
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Engine = "wasm"

	_, err := ksig.Open(cfg)
	var cfgErr *bridgeerrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "engine", cfgErr.Field)
}
