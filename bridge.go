package ksig

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ZKNoxHQ/ksig-bridge/application/verifier"
	"github.com/ZKNoxHQ/ksig-bridge/config"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	"github.com/ZKNoxHQ/ksig-bridge/engine/gnarkengine"
	"github.com/ZKNoxHQ/ksig-bridge/engine/native"
)

// Bridge runs verifications against one engine.
type Bridge struct {
	engine   ports.Engine
	verifier *verifier.Verifier
}

var _ ports.Verifier = (*Bridge)(nil)

// New creates a Bridge over engine.
func New(engine ports.Engine, opts ...verifier.Option) (*Bridge, error) {
	v, err := verifier.New(engine, opts...)
	if err != nil {
		return nil, err
	}
	return &Bridge{engine: engine, verifier: v}, nil
}

// Open creates a Bridge from configuration, logging as cfg.Log describes to
// stderr. Extra options are applied after those derived from cfg.
func Open(cfg config.Config, opts ...verifier.Option) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return nil, err
	}
	return OpenWithLogger(cfg, logger, opts...)
}

// OpenWithLogger is Open with a caller-supplied logger, shared by the
// engine and the verifier.
func OpenWithLogger(cfg config.Config, logger *slog.Logger, opts ...verifier.Option) (*Bridge, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	engine, err := openEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	base := []verifier.Option{
		verifier.WithArtifacts(cfg.Artifacts),
		verifier.WithLogger(logger),
	}
	return New(engine, append(base, opts...)...)
}

func openEngine(cfg config.Config, logger *slog.Logger) (ports.Engine, error) {
	switch cfg.Engine {
	case config.EngineGnark:
		return gnarkengine.New(cfg.Artifacts, gnarkengine.WithLogger(logger)), nil
	case config.EngineNative:
		if filepath.Clean(cfg.Artifacts.Dir) != "." {
			logger.Warn("native engine resolves artifacts against the working directory",
				"artifact_dir", cfg.Artifacts.Dir)
		}
		e, err := native.New()
		if err != nil {
			return nil, fmt.Errorf("failed to open native engine: %w", err)
		}
		return e, nil
	default:
		return nil, &bridgeerrors.ConfigError{Field: "engine", Err: fmt.Errorf("unknown engine %q", cfg.Engine)}
	}
}

// Engine returns the underlying engine.
func (b *Bridge) Engine() ports.Engine {
	return b.engine
}

// Artifacts returns the artifact set checked before each call.
func (b *Bridge) Artifacts() ArtifactSet {
	return b.verifier.Artifacts()
}

// VerifyFromFiles proves and verifies using the witness file of the
// artifact set.
func (b *Bridge) VerifyFromFiles(ctx context.Context) (VerificationOutcome, error) {
	return b.verifier.VerifyFromFiles(ctx)
}

// VerifyWithInputs proves and verifies using the inline witness req.
func (b *Bridge) VerifyWithInputs(ctx context.Context, req ProofRequest) (VerificationOutcome, error) {
	return b.verifier.VerifyWithInputs(ctx, req)
}
