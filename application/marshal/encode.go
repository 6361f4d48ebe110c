package marshal

import (
	"runtime"
	"strings"
	"unsafe"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/internal/cstr"
)

// Frame owns the NUL-terminated copies of one request's fields.
// The record it exposes is valid until Release.
type Frame struct {
	pinner  runtime.Pinner
	buffers [5][]byte
	record  entities.InputRecord
	live    bool
}

// Encode copies each request field into its own NUL-terminated buffer and
// pins the buffers so the record can cross the boundary. A field containing a
// NUL byte yields *errors.EncodingError naming that field.
func Encode(req entities.ProofRequest) (*Frame, error) {
	fields := req.Fields()
	for _, f := range fields {
		if strings.IndexByte(f.Value, 0) >= 0 {
			return nil, &bridgeerrors.EncodingError{Field: f.Name, Err: bridgeerrors.ErrTerminator}
		}
	}

	fr := &Frame{live: true}
	var ptrs [5]unsafe.Pointer
	for i, f := range fields {
		buf := cstr.Terminated(f.Value)
		fr.buffers[i] = buf
		fr.pinner.Pin(&buf[0])
		ptrs[i] = unsafe.Pointer(&buf[0])
	}
	fr.record = entities.InputRecord{
		MsgHash: ptrs[0],
		R:       ptrs[1],
		S:       ptrs[2],
		PubX:    ptrs[3],
		PubY:    ptrs[4],
	}
	return fr, nil
}

// Record returns the input record. After Release it is the zero record.
func (f *Frame) Record() entities.InputRecord {
	return f.record
}

// Live reports whether the frame's buffers are still pinned.
func (f *Frame) Live() bool {
	return f.live
}

// Release unpins the buffers and clears the record. It is safe to call more
// than once.
func (f *Frame) Release() {
	if !f.live {
		return
	}
	f.pinner.Unpin()
	f.record = entities.InputRecord{}
	f.buffers = [5][]byte{}
	f.live = false
}
