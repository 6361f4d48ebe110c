package host

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/ZKNoxHQ/ksig-bridge/adapters/sandbox"
	"github.com/ZKNoxHQ/ksig-bridge/config"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	ksigwazero "github.com/ZKNoxHQ/ksig-bridge/infrastructure/wazero"
	"github.com/ZKNoxHQ/ksig-bridge/internal/abi"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Guest export names. ExportAllocationStats is optional; it fills in
// MemoryError figures.
const (
	ExportFromFiles       = "run_proof_verification_from_files_wasm"
	ExportWithInputs      = "run_proof_verification_with_inputs_wasm"
	ExportSchema          = "schema"
	ExportAllocate        = "allocate"
	ExportDeallocate      = "deallocate"
	ExportAllocationStats = "allocation_stats"
)

var requiredExports = []string{ExportFromFiles, ExportWithInputs, ExportAllocate, ExportDeallocate}

// Runner owns one guest instance. A wasm instance is single threaded, so
// calls are serialized.
type Runner struct {
	runtime wazero.Runtime
	module  api.Module
	logger  *slog.Logger
	name    string
	mu      sync.Mutex
}

// NewRunner compiles and instantiates wasm.
func NewRunner(ctx context.Context, wasm []byte, opts ...Option) (*Runner, error) {
	cfg := defaultRunnerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	rtCfg := wazero.NewRuntimeConfig()
	if cfg.memoryLimitPages > 0 {
		rtCfg = rtCfg.WithMemoryLimitPages(cfg.memoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rtCfg)

	r, err := instantiate(ctx, rt, wasm, cfg)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	return r, nil
}

// NewRunnerFromFile reads a guest module from path and instantiates it.
func NewRunnerFromFile(ctx context.Context, path string, opts ...Option) (*Runner, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guest module: %w", err)
	}
	return NewRunner(ctx, wasm, opts...)
}

func instantiate(ctx context.Context, rt wazero.Runtime, wasm []byte, cfg runnerConfig) (*Runner, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return nil, fmt.Errorf("failed to instantiate WASI: %w", err)
	}
	if err := ksigwazero.RegisterHostModule(ctx, rt, ksigwazero.WithLogger(cfg.logger)); err != nil {
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("failed to compile guest module: %w", err)
	}

	modCfg := wazero.NewModuleConfig().
		WithName(cfg.name).
		WithStartFunctions("_initialize").
		WithStdout(cfg.stdout).
		WithStderr(cfg.stderr).
		WithSysWalltime().
		WithSysNanotime().
		WithRandSource(rand.Reader).
		WithEnv(config.EnvArtifactDir, cfg.guestArtifactDir)
	if cfg.artifactDir != "" {
		modCfg = modCfg.WithFSConfig(
			wazero.NewFSConfig().WithReadOnlyDirMount(cfg.artifactDir, cfg.guestArtifactDir))
	}

	ctx = ksigwazero.WithGuestName(ctx, cfg.name)
	mod, err := rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate guest module: %w", err)
	}
	for _, name := range requiredExports {
		if mod.ExportedFunction(name) == nil {
			return nil, fmt.Errorf("guest does not export %q", name)
		}
	}

	return &Runner{runtime: rt, module: mod, logger: cfg.logger, name: cfg.name}, nil
}

// Close releases the guest instance and the runtime.
func (r *Runner) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// VerifyFromFiles calls the guest's file-based verification and returns the
// outcome text.
func (r *Runner) VerifyFromFiles(ctx context.Context) (string, error) {
	return r.call(ctx, ExportFromFiles, nil)
}

// VerifyWithInputs passes a JSON inline witness to the guest and returns the
// outcome text.
func (r *Runner) VerifyWithInputs(ctx context.Context, text string) (string, error) {
	return r.call(ctx, ExportWithInputs, []byte(text))
}

// Schema returns the guest's request schema.
func (r *Runner) Schema(ctx context.Context) ([]byte, error) {
	out, err := r.call(ctx, ExportSchema, nil)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func (r *Runner) call(ctx context.Context, export string, input []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = ksigwazero.WithGuestName(ctx, r.name)
	f := r.module.ExportedFunction(export)
	if f == nil {
		return "", fmt.Errorf("guest does not export %q", export)
	}

	var (
		results []uint64
		err     error
	)
	if input == nil {
		results, err = f.Call(ctx)
	} else {
		var ptr uint32
		ptr, err = r.write(ctx, input)
		if err != nil {
			return "", err
		}
		results, err = f.Call(ctx, uint64(ptr), uint64(len(input)))
		r.free(ctx, ptr, uint32(len(input))) //nolint:gosec // G115: bounded by write
	}
	if err != nil {
		return "", fmt.Errorf("guest call %s failed: %w", export, err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("guest call %s returned no result", export)
	}

	data, err := r.take(ctx, results[0])
	if err != nil {
		return "", fmt.Errorf("guest call %s: %w", export, err)
	}
	r.logger.DebugContext(ctx, "sandbox call finished", "guest", r.name, "export", export, "bytes", len(data))
	return sandbox.OpenEnvelope(data)
}

// write copies input into a guest-allocated buffer.
func (r *Runner) write(ctx context.Context, input []byte) (uint32, error) {
	if len(input) == 0 {
		return 0, nil
	}
	res, err := r.module.ExportedFunction(ExportAllocate).Call(ctx, uint64(len(input)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate in guest: %w", err)
	}
	if len(res) == 0 {
		return 0, fmt.Errorf("allocate returned no results")
	}
	ptr := uint32(res[0]) //nolint:gosec // G115: wasm32 pointers are 32-bit
	if ptr == 0 {
		return 0, r.allocationError(ctx, len(input))
	}
	if !r.module.Memory().Write(ptr, input) {
		r.free(ctx, ptr, uint32(len(input))) //nolint:gosec // G115: bounded by allocate
		return 0, fmt.Errorf("failed to write input to guest memory")
	}
	return ptr, nil
}

// allocationError describes a refused guest allocation.
func (r *Runner) allocationError(ctx context.Context, requested int) error {
	memErr := &bridgeerrors.MemoryError{Requested: requested}
	if f := r.module.ExportedFunction(ExportAllocationStats); f != nil {
		if res, err := f.Call(ctx); err == nil && len(res) > 0 {
			memErr.Current = int(res[0] >> abi.PtrHighBits)
			memErr.Limit = int(uint32(res[0])) //nolint:gosec // G115: packed 32-bit half
		}
	}
	return memErr
}

// take copies a packed guest response and frees the guest buffer.
func (r *Runner) take(ctx context.Context, packed uint64) ([]byte, error) {
	// Unpacked by hand: a misbehaving guest must not panic the host.
	ptr, length := uint32(packed>>abi.PtrHighBits), uint32(packed) //nolint:gosec // G115: packed 32-bit halves
	if ptr == 0 || length == 0 {
		return nil, fmt.Errorf("null response from guest")
	}
	defer r.free(ctx, ptr, length)

	view, ok := r.module.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("response %#x out of guest memory range", packed)
	}
	return append([]byte(nil), view...), nil
}

func (r *Runner) free(ctx context.Context, ptr, length uint32) {
	if ptr == 0 {
		return
	}
	if _, err := r.module.ExportedFunction(ExportDeallocate).Call(ctx, uint64(ptr), uint64(length)); err != nil {
		r.logger.WarnContext(ctx, "failed to free guest buffer", "guest", r.name, "error", err)
	}
}
