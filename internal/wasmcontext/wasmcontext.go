// Package wasmcontext carries the context of the export call currently
// running inside a sandboxed guest. A wasm instance runs one export at a time,
// so a single slot is enough.
package wasmcontext

import (
	stdcontext "context"
	"strconv"
	"sync"
	"sync/atomic"
)

type contextKey string

// CallIDKey is the context key for the export call identifier.
const CallIDKey contextKey = "call_id"

var (
	slot = struct {
		ctx stdcontext.Context
		sync.RWMutex
	}{ctx: stdcontext.Background()}

	calls atomic.Uint64
)

// Begin stores a fresh context for an export call, tagged with op and a
// monotonically increasing call ID, and returns it. Call End when the export
// returns.
func Begin(op string) stdcontext.Context {
	id := op + "-" + strconv.FormatUint(calls.Add(1), 10)
	ctx := stdcontext.WithValue(stdcontext.Background(), CallIDKey, id)
	SetCurrentContext(ctx)
	return ctx
}

// End resets the slot to context.Background().
func End() {
	SetCurrentContext(stdcontext.Background())
}

// SetCurrentContext replaces the current call context.
func SetCurrentContext(ctx stdcontext.Context) {
	slot.Lock()
	defer slot.Unlock()
	slot.ctx = ctx
}

// GetCurrentContext returns the current call context, or
// context.Background() outside of an export call.
func GetCurrentContext() stdcontext.Context {
	slot.RLock()
	defer slot.RUnlock()
	if slot.ctx == nil {
		return stdcontext.Background()
	}
	return slot.ctx
}

// CallID returns the call ID stored in ctx, or "".
func CallID(ctx stdcontext.Context) string {
	id, _ := ctx.Value(CallIDKey).(string)
	return id
}
