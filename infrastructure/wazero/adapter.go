package wazero

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	ksiglog "github.com/ZKNoxHQ/ksig-bridge/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// DefaultModuleName is the import module name guests link against.
const DefaultModuleName = "ksig_host"

// DefaultMaxLogSize bounds a single log payload read from guest memory.
const DefaultMaxLogSize = 64 * 1024

// AdapterConfig holds configuration for the host module.
type AdapterConfig struct {
	// Logger receives replayed guest log records.
	Logger *slog.Logger

	// ModuleName is the host module name (default: "ksig_host").
	ModuleName string

	// CustomHandlers are exported next to log_message.
	CustomHandlers []CustomHandler

	// MaxLogSize limits the size of log payloads read from guest memory.
	MaxLogSize uint32
}

// CustomHandler is an additional host function.
type CustomHandler struct {
	Handler     api.GoModuleFunc
	Name        string
	ParamTypes  []api.ValueType
	ResultTypes []api.ValueType
}

// AdapterOption configures the host module.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxLogSize sets the maximum log payload size.
func WithMaxLogSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxLogSize = size
	}
}

// WithLogger sets the logger guest records are replayed through.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = logger
	}
}

// WithCustomHandler adds a host function.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName: DefaultModuleName,
		MaxLogSize: DefaultMaxLogSize,
	}
}

// RegisterHostModule instantiates the host module in runtime.
func RegisterHostModule(ctx context.Context, runtime wazero.Runtime, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)
	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			handleLogMessage(ctx, mod, stack[0], cfg)
		}), []api.ValueType{api.ValueTypeI64}, []api.ValueType{}).
		Export("log_message")

	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	_, err := builder.Instantiate(ctx)
	return err
}

// handleLogMessage reads a log payload from guest memory and replays it.
// The guest keeps ownership of the payload buffer.
func handleLogMessage(ctx context.Context, mod api.Module, packed uint64, cfg AdapterConfig) {
	ptr, length := unpackPtrLen(packed)
	guest := GetGuestName(ctx, mod)

	if length > cfg.MaxLogSize {
		cfg.Logger.WarnContext(ctx, "wazero: guest log payload too large",
			"guest", guest, "size", length, "limit", cfg.MaxLogSize)
		return
	}
	payload, ok := mod.Memory().Read(ptr, length)
	if !ok {
		cfg.Logger.ErrorContext(ctx, "wazero: failed to read log payload from guest memory", "guest", guest)
		return
	}
	replayPayload(ctx, cfg.Logger, guest, payload)
}

func replayPayload(ctx context.Context, logger *slog.Logger, guest string, payload []byte) {
	var msg entities.LogMessageWire
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.InfoContext(ctx, "guest log (raw)", "guest", guest, "payload", string(payload))
		return
	}
	ksiglog.Replay(ctx, logger, msg, slog.String("guest", guest))
}

// unpackPtrLen unpacks a pointer and length from a packed i64.
func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: packed format stores 32-bit values
	return ptr, length
}
