package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/internal/wasmcontext"
)

// Sink receives one encoded entities.LogMessageWire.
type Sink func(payload []byte)

// GuestHandler implements slog.Handler by encoding records as
// entities.LogMessageWire and handing them to a Sink. Inside a guest the sink
// is the host's log_message import.
type GuestHandler struct {
	sink   Sink
	attrs  []entities.LogAttrWire
	prefix string
	level  slog.Level
}

// GuestOption configures a GuestHandler.
type GuestOption func(*GuestHandler)

// WithGuestLevel sets the minimum level forwarded to the sink.
func WithGuestLevel(level slog.Level) GuestOption {
	return func(h *GuestHandler) {
		h.level = level
	}
}

// NewGuestHandler creates a handler writing to sink.
func NewGuestHandler(sink Sink, opts ...GuestOption) *GuestHandler {
	h := &GuestHandler{sink: sink, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *GuestHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle encodes the record with accumulated attributes and the export call
// ID, then sends it.
func (h *GuestHandler) Handle(ctx context.Context, record slog.Record) error {
	msg := entities.LogMessageWire{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
		Attrs:     append([]entities.LogAttrWire(nil), h.attrs...),
	}
	if id := wasmcontext.CallID(ctx); id != "" {
		msg.Attrs = append(msg.Attrs, entities.LogAttrWire{Key: "call_id", Type: "string", Value: id})
	}
	record.Attrs(func(attr slog.Attr) bool {
		msg.Attrs = append(msg.Attrs, h.flatten(attr)...)
		return true
	})

	payload, err := json.Marshal(msg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: cannot encode record %q: %v\n", record.Message, err)
		return nil
	}
	h.sink(payload)
	return nil
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *GuestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]entities.LogAttrWire(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.flatten(a)...)
	}
	return &clone
}

// WithGroup returns a handler that prefixes later attribute keys with name.
func (h *GuestHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// flatten expands groups into dotted keys.
func (h *GuestHandler) flatten(attr slog.Attr) []entities.LogAttrWire {
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() != slog.KindGroup {
		if attr.Equal(slog.Attr{}) {
			return nil
		}
		w := ToAttrWire(attr)
		w.Key = h.prefix + w.Key
		return []entities.LogAttrWire{w}
	}

	inner := *h
	if attr.Key != "" {
		inner.prefix = h.prefix + attr.Key + "."
	}
	var out []entities.LogAttrWire
	for _, a := range attr.Value.Group() {
		out = append(out, inner.flatten(a)...)
	}
	return out
}
