// Package cstr reads and writes NUL-terminated strings at raw addresses.
// It is the only place the bridge dereferences engine-owned memory.
package cstr

import (
	"strings"
	"unsafe"
)

// Bytes copies the NUL-terminated byte sequence at p into Go memory.
// A nil p yields nil; p is never dereferenced in that case.
func Bytes(p unsafe.Pointer) []byte {
	if p == nil {
		return nil
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(p), n))
	return out
}

// Lossy copies the NUL-terminated string at p, replacing invalid UTF-8 with
// U+FFFD. The second result is false when p is nil.
func Lossy(p unsafe.Pointer) (string, bool) {
	if p == nil {
		return "", false
	}
	return strings.ToValidUTF8(string(Bytes(p)), "�"), true
}

// Terminated returns a copy of s with a trailing NUL byte. It does not check s
// for embedded NUL bytes.
func Terminated(s string) []byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return buf
}
