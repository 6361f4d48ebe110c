package log

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
)

// ToAttrWire converts a slog.Attr to its wire form.
func ToAttrWire(attr slog.Attr) entities.LogAttrWire {
	wire := entities.LogAttrWire{Key: attr.Key}
	v := attr.Value.Resolve()

	switch v.Kind() {
	case slog.KindString:
		wire.Type, wire.Value = "string", v.String()
	case slog.KindInt64:
		wire.Type, wire.Value = "int64", strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		wire.Type, wire.Value = "uint64", strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		wire.Type, wire.Value = "bool", strconv.FormatBool(v.Bool())
	case slog.KindFloat64:
		wire.Type, wire.Value = "float64", strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindTime:
		wire.Type, wire.Value = "time", v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		wire.Type, wire.Value = "duration", v.Duration().String()
	case slog.KindAny:
		switch x := v.Any().(type) {
		case nil:
			wire.Type, wire.Value = "any", "<nil>"
		case error:
			wire.Type, wire.Value = "error", x.Error()
		default:
			if data, err := json.Marshal(x); err == nil {
				wire.Type, wire.Value = "json", string(data)
			} else {
				wire.Type, wire.Value = "any", fmt.Sprintf("%v", x)
			}
		}
	default:
		wire.Type, wire.Value = "any", v.String()
	}
	return wire
}

// FromAttrWire converts a wire attribute back to a slog.Attr. Values that
// fail to parse are kept as strings.
func FromAttrWire(w entities.LogAttrWire) slog.Attr {
	switch w.Type {
	case "int64":
		if n, err := strconv.ParseInt(w.Value, 10, 64); err == nil {
			return slog.Int64(w.Key, n)
		}
	case "uint64":
		if n, err := strconv.ParseUint(w.Value, 10, 64); err == nil {
			return slog.Uint64(w.Key, n)
		}
	case "bool":
		if b, err := strconv.ParseBool(w.Value); err == nil {
			return slog.Bool(w.Key, b)
		}
	case "float64":
		if f, err := strconv.ParseFloat(w.Value, 64); err == nil {
			return slog.Float64(w.Key, f)
		}
	case "time":
		if ts, err := time.Parse(time.RFC3339Nano, w.Value); err == nil {
			return slog.Time(w.Key, ts)
		}
	case "duration":
		if d, err := time.ParseDuration(w.Value); err == nil {
			return slog.Duration(w.Key, d)
		}
	case "json":
		return slog.Any(w.Key, json.RawMessage(w.Value))
	}
	return slog.String(w.Key, w.Value)
}

// ParseWireLevel parses the level names produced by slog.Level.String,
// including offsets such as "DEBUG+2".
func ParseWireLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Replay re-emits a guest log record through logger, adding extra attrs.
func Replay(ctx context.Context, logger *slog.Logger, msg entities.LogMessageWire, extra ...slog.Attr) {
	level := ParseWireLevel(msg.Level)
	if !logger.Enabled(ctx, level) {
		return
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	record := slog.NewRecord(ts, level, msg.Message, 0)
	for _, a := range msg.Attrs {
		record.AddAttrs(FromAttrWire(a))
	}
	record.AddAttrs(extra...)
	_ = logger.Handler().Handle(ctx, record)
}
