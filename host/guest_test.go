package host_test

// refusingGuest assembles a minimal guest module whose allocate export always
// returns 0 and whose allocation_stats export reports current and limit.
// The verification exports return a null response.
func refusingGuest(current, limit uint32) []byte {
	const (
		i32 = 0x7f
		i64 = 0x7e
	)
	types := vec(
		[]byte{0x60, 1, i32, 1, i32},      // (i32) -> i32
		[]byte{0x60, 2, i32, i32, 0},      // (i32, i32) -> ()
		[]byte{0x60, 0, 1, i64},           // () -> i64
		[]byte{0x60, 2, i32, i32, 1, i64}, // (i32, i32) -> i64
	)
	funcs := vec([]byte{0}, []byte{1}, []byte{2}, []byte{3}, []byte{2})
	memory := vec([]byte{0x00, 0x01})
	exports := vec(
		export("memory", 0x02, 0),
		export("allocate", 0x00, 0),
		export("deallocate", 0x00, 1),
		export("run_proof_verification_from_files_wasm", 0x00, 2),
		export("run_proof_verification_with_inputs_wasm", 0x00, 3),
		export("allocation_stats", 0x00, 4),
	)
	stats := int64(uint64(current)<<32 | uint64(limit))
	code := vec(
		body(0x41, 0x00), // i32.const 0
		body(),
		body(0x42, 0x00), // i64.const 0
		body(0x42, 0x00),
		body(append([]byte{0x42}, sleb(stats)...)...),
	)

	mod := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	mod = append(mod, section(1, types)...)
	mod = append(mod, section(3, funcs)...)
	mod = append(mod, section(5, memory)...)
	mod = append(mod, section(7, exports)...)
	mod = append(mod, section(10, code)...)
	return mod
}

func section(id byte, content []byte) []byte {
	out := append([]byte{id}, uleb(uint64(len(content)))...)
	return append(out, content...)
}

func vec(items ...[]byte) []byte {
	out := uleb(uint64(len(items)))
	for _, item := range items {
		out = append(out, item...)
	}
	return out
}

func export(name string, kind byte, index uint64) []byte {
	out := append(uleb(uint64(len(name))), name...)
	out = append(out, kind)
	return append(out, uleb(index)...)
}

// body wraps instructions into a function body with no locals.
func body(instrs ...byte) []byte {
	b := append([]byte{0}, instrs...)
	b = append(b, 0x0b)
	return append(uleb(uint64(len(b))), b...)
}

func uleb(v uint64) []byte {
	var out []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, c|0x80)
			continue
		}
		return append(out, c)
	}
}

func sleb(v int64) []byte {
	var out []byte
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			return append(out, c)
		}
		out = append(out, c|0x80)
	}
}
