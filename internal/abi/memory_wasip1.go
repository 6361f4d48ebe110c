//go:build wasip1

package abi

import (
	"fmt"
	"sync"
	"unsafe"
)

// DefaultMaxTotalAllocations caps the bytes handed to the host at once.
const DefaultMaxTotalAllocations = 64 * 1024 * 1024

// tracked keeps every buffer lent to the host reachable until the host hands
// it back through deallocate.
var tracked = struct {
	sync.Mutex
	bufs  map[uint32][]byte
	total int
	limit int
}{
	bufs:  make(map[uint32][]byte),
	limit: DefaultMaxTotalAllocations,
}

// SetLimit changes the allocation cap. Non-positive values are rejected.
func SetLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("abi: invalid allocation limit %d", limit)
	}
	tracked.Lock()
	defer tracked.Unlock()
	tracked.limit = limit
	return nil
}

// Stats returns the number of live buffers and their total size.
func Stats() (count, bytes int) {
	tracked.Lock()
	defer tracked.Unlock()
	return len(tracked.bufs), tracked.total
}

// allocate reserves size bytes for the host to write a request into. It
// returns 0 when size is 0 or would exceed the limit; the host then asks
// allocation_stats for the figures to report.
//
//go:wasmexport allocate
func allocate(size uint32) uint32 {
	if size == 0 {
		return 0
	}

	tracked.Lock()
	defer tracked.Unlock()

	if tracked.total+int(size) > tracked.limit {
		return 0
	}

	buf := make([]byte, size)
	ptr := uint32(uintptr(unsafe.Pointer(&buf[0])))
	tracked.bufs[ptr] = buf
	tracked.total += int(size)
	return ptr
}

// allocationStats reports the bytes in use and the limit, packed as
// current<<32 | limit.
//
//go:wasmexport allocation_stats
func allocationStats() uint64 {
	tracked.Lock()
	defer tracked.Unlock()
	return uint64(tracked.total)<<PtrHighBits | uint64(uint32(tracked.limit)) //nolint:gosec // G115: limit fits wasm32 memory
}

// deallocate drops a tracked buffer. Unknown pointers are ignored, so a
// repeated call is harmless. The stored length is used for accounting.
//
//go:wasmexport deallocate
func deallocate(ptr uint32, _ uint32) {
	tracked.Lock()
	defer tracked.Unlock()

	buf, ok := tracked.bufs[ptr]
	if !ok {
		return
	}
	delete(tracked.bufs, ptr)
	tracked.total -= len(buf)
	if tracked.total < 0 {
		tracked.total = 0
	}
}

// FreeAllTracked forgets every tracked buffer. Used after a recovered panic.
func FreeAllTracked() {
	tracked.Lock()
	defer tracked.Unlock()
	clear(tracked.bufs)
	tracked.total = 0
}

// PtrFromBytes copies data into a tracked buffer and returns it packed.
// The host owns the buffer afterwards and must return it via deallocate.
func PtrFromBytes(data []byte) uint64 {
	if len(data) == 0 {
		return 0
	}
	size := uint32(len(data))
	ptr := allocate(size)
	if ptr == 0 {
		return 0
	}
	//nolint:gosec // G103: linear memory offset to pointer
	copy(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), size), data)
	return PackPtrLen(ptr, size)
}

// BytesFromPtr copies the packed region out of linear memory.
func BytesFromPtr(packed uint64) []byte {
	ptr, length := UnpackPtrLen(packed)
	if ptr == 0 || length == 0 {
		return nil
	}
	out := make([]byte, length)
	//nolint:gosec // G103: linear memory offset to pointer
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(uintptr(ptr))), length))
	return out
}

// DeallocatePacked releases the buffer named by a packed value.
func DeallocatePacked(packed uint64) {
	ptr, length := UnpackPtrLen(packed)
	if ptr != 0 && length > 0 {
		deallocate(ptr, length)
	}
}
