// Package gnarkengine is an in-process reference proof engine: groth16 over
// BN254 with an emulated P-256 ECDSA verification circuit.
//
// It implements the fixed engine call surface (ports.Engine) so the bridge
// can be exercised end to end without the native library.
package gnarkengine

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/internal/cstr"
	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
)

var silenceOnce sync.Once

// SilenceLogs routes gnark's zerolog output to io.Discard. Only the first
// call has an effect.
func SilenceLogs() {
	silenceOnce.Do(func() {
		gnarklogger.Set(zerolog.New(io.Discard).Level(zerolog.Disabled))
	})
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-call timing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithGnarkLogger keeps gnark's own logging, sent to logger.
func WithGnarkLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.gnarkLogger = &logger
	}
}

// Engine serves proof requests against one artifact set. Result strings are
// NUL-terminated buffers owned by the engine until Release.
type Engine struct {
	logger      *slog.Logger
	gnarkLogger *zerolog.Logger
	live        map[unsafe.Pointer][]byte
	artifacts   entities.ArtifactSet
	mu          sync.Mutex
}

// New creates an engine for set.
func New(set entities.ArtifactSet, opts ...Option) *Engine {
	e := &Engine{
		artifacts: set,
		live:      make(map[unsafe.Pointer][]byte),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.gnarkLogger != nil {
		gnarklogger.Set(*e.gnarkLogger)
	} else {
		SilenceLogs()
	}
	return e
}

// Verify implements ports.Engine.
func (e *Engine) Verify() entities.ResultRecord {
	return e.run("verify", func() ([]byte, error) {
		return ProveFromFiles(e.artifacts)
	})
}

// VerifyWithInputs implements ports.Engine. The input strings are copied
// before any work starts.
func (e *Engine) VerifyWithInputs(in entities.InputRecord) entities.ResultRecord {
	req := entities.NewProofRequest(
		text(in.MsgHash), text(in.R), text(in.S), text(in.PubX), text(in.PubY),
	)
	return e.run("verifyWithInputs", func() ([]byte, error) {
		return ProveWithInputs(e.artifacts, req)
	})
}

// Release implements ports.Engine. Unknown references are ignored.
func (e *Engine) Release(rec entities.ResultRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.live, rec.Error)
	delete(e.live, rec.Proof)
}

// Outstanding returns the number of result buffers not yet released.
func (e *Engine) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

func (e *Engine) run(op string, prove func() ([]byte, error)) (rec entities.ResultRecord) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			rec = entities.ResultRecord{Error: e.alloc(fmt.Sprintf("engine panic: %v", r))}
		}
	}()

	proof, err := prove()
	e.logger.Debug("gnark engine call finished",
		"operation", op, "elapsed", time.Since(start), "ok", err == nil)
	if err != nil {
		return entities.ResultRecord{Error: e.alloc(err.Error())}
	}
	return entities.ResultRecord{Success: 1, Proof: e.alloc(hex.EncodeToString(proof))}
}

func (e *Engine) alloc(s string) unsafe.Pointer {
	buf := cstr.Terminated(s)
	p := unsafe.Pointer(&buf[0])
	e.mu.Lock()
	e.live[p] = buf
	e.mu.Unlock()
	return p
}

func text(p unsafe.Pointer) string {
	s, _ := cstr.Lossy(p)
	return s
}
