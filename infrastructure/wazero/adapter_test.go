package wazero

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"
)

func TestDefaultAdapterConfig(t *testing.T) {
	cfg := defaultAdapterConfig()
	assert.Equal(t, DefaultModuleName, cfg.ModuleName)
	assert.Equal(t, uint32(DefaultMaxLogSize), cfg.MaxLogSize)

	WithModuleName("custom")(&cfg)
	WithMaxLogSize(16)(&cfg)
	assert.Equal(t, "custom", cfg.ModuleName)
	assert.Equal(t, uint32(16), cfg.MaxLogSize)
}

func TestUnpackPtrLen(t *testing.T) {
	ptr, length := unpackPtrLen(uint64(0x1234)<<32 | 0x56)
	assert.Equal(t, uint32(0x1234), ptr)
	assert.Equal(t, uint32(0x56), length)
}

func TestReplayPayload(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Run("structured", func(t *testing.T) {
		buf.Reset()
		replayPayload(context.Background(), logger, "ksig-guest",
			[]byte(`{"level":"ERROR","message":"engine failed","attrs":[{"key":"op","type":"string","value":"with_inputs"}]}`))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "ERROR", rec["level"])
		assert.Equal(t, "engine failed", rec["msg"])
		assert.Equal(t, "with_inputs", rec["op"])
		assert.Equal(t, "ksig-guest", rec["guest"])
	})

	t.Run("raw", func(t *testing.T) {
		buf.Reset()
		replayPayload(context.Background(), logger, "g", []byte("not json"))
		assert.Contains(t, buf.String(), "guest log (raw)")
		assert.Contains(t, buf.String(), "not json")
	})
}

func TestGuestName(t *testing.T) {
	ctx := WithGuestName(context.Background(), "verifier")
	name, ok := GuestNameFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "verifier", name)
	assert.Equal(t, "verifier", GetGuestName(ctx, nil))
	assert.Empty(t, GetGuestName(context.Background(), nil))
}

func TestRegisterHostModule(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	require.NoError(t, RegisterHostModule(ctx, rt))
	mod := rt.Module(DefaultModuleName)
	require.NotNil(t, mod)
	assert.NotNil(t, mod.ExportedFunction("log_message"))

	assert.Error(t, RegisterHostModule(ctx, rt), "module names are unique per runtime")
}
