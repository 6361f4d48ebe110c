// Package verifier exposes the two verification operations over a proof
// engine. It validates, encodes, calls the engine once and decodes; every
// adapter goes through it.
package verifier

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ZKNoxHQ/ksig-bridge/application/marshal"
	"github.com/ZKNoxHQ/ksig-bridge/application/validation"
	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	"github.com/ZKNoxHQ/ksig-bridge/infrastructure/artifacts"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation names used in logs and metric labels.
const (
	OpVerifyFromFiles  = "verify_from_files"
	OpVerifyWithInputs = "verify_with_inputs"
)

// Verifier runs verifications against one engine. It holds no per-call
// state, so concurrent calls are safe as long as the engine allows them.
type Verifier struct {
	engine     ports.Engine
	inspector     ports.ArtifactInspector
	logger     *slog.Logger
	registerer prometheus.Registerer
	validator  ports.RequestValidator
	metrics    *Metrics
	artifacts  entities.ArtifactSet
}

// New creates a Verifier for engine.
func New(engine ports.Engine, opts ...Option) (*Verifier, error) {
	if engine == nil {
		return nil, bridgeerrors.ErrNoEngine
	}

	v := &Verifier{
		engine:    engine,
		artifacts: entities.DefaultArtifactSet("."),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.inspector == nil {
		v.inspector = artifacts.NewFileInspector()
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	if v.registerer != nil {
		m, err := NewMetrics(v.registerer)
		if err != nil {
			return nil, err
		}
		v.metrics = m
	}
	v.validator = validation.New(v.inspector)
	return v, nil
}

// Artifacts returns the artifact set checked before each call.
func (v *Verifier) Artifacts() entities.ArtifactSet {
	return v.artifacts
}

// VerifyFromFiles checks that all four artifacts exist and asks the engine
// to prove and verify using the witness file.
//
// ctx is checked once before the engine call; the call itself cannot be
// interrupted.
func (v *Verifier) VerifyFromFiles(ctx context.Context) (entities.VerificationOutcome, error) {
	const op = OpVerifyFromFiles

	if err := ctx.Err(); err != nil {
		return entities.VerificationOutcome{}, err
	}
	if err := v.validator.Validate(nil, v.artifacts.FileFlow()); err != nil {
		return v.reject(op, err)
	}

	start := time.Now()
	rec := v.engine.Verify()
	return v.finish(ctx, op, rec, time.Since(start))
}

// VerifyWithInputs validates req, checks the three circuit and key artifacts
// and asks the engine to prove and verify using the inline witness.
//
// ctx is checked once before the engine call; the call itself cannot be
// interrupted.
func (v *Verifier) VerifyWithInputs(ctx context.Context, req entities.ProofRequest) (entities.VerificationOutcome, error) {
	const op = OpVerifyWithInputs

	if err := ctx.Err(); err != nil {
		return entities.VerificationOutcome{}, err
	}
	if err := v.validator.Validate(&req, v.artifacts.InputFlow()); err != nil {
		return v.reject(op, err)
	}

	frame, err := marshal.Encode(req)
	if err != nil {
		return v.reject(op, err)
	}
	defer frame.Release()

	start := time.Now()
	rec := v.engine.VerifyWithInputs(frame.Record())
	return v.finish(ctx, op, rec, time.Since(start))
}

func (v *Verifier) finish(ctx context.Context, op string, rec entities.ResultRecord, elapsed time.Duration) (entities.VerificationOutcome, error) {
	silent := rec.Success == 0 && rec.Error == nil
	out, err := marshal.Borrow(rec, v.release).Decode()
	if err != nil {
		return entities.VerificationOutcome{}, err
	}

	if silent || out.IsAmbiguous() {
		v.logger.WarnContext(ctx, "engine reported failure without a message",
			slog.String("operation", op),
			slog.Any("error", &bridgeerrors.BoundaryError{Op: op, Reason: entities.UnknownFailureMessage}))
		out = entities.OutcomeUnknownFailure()
	}

	v.metrics.observeCall(op, out.Success, elapsed)
	v.logger.DebugContext(ctx, "verification finished",
		slog.String("operation", op),
		slog.Bool("success", out.Success),
		slog.Duration("elapsed", elapsed))
	return out, nil
}

func (v *Verifier) release(rec entities.ResultRecord) {
	v.engine.Release(rec)
	v.metrics.observeRelease()
}

func (v *Verifier) reject(op string, err error) (entities.VerificationOutcome, error) {
	v.metrics.observeRejection(op, rejectionReason(err))
	v.logger.Info("request rejected before engine call",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return entities.VerificationOutcome{}, err
}

func rejectionReason(err error) string {
	var (
		inv  *bridgeerrors.InvalidInputError
		miss *bridgeerrors.MissingArtifactError
		enc  *bridgeerrors.EncodingError
	)
	switch {
	case errors.As(err, &inv):
		return "invalid_input"
	case errors.As(err, &miss):
		return "missing_artifact"
	case errors.As(err, &enc):
		return "encoding"
	default:
		return "other"
	}
}
