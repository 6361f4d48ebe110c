package testutil

import (
	"sync"
	"unsafe"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	"github.com/ZKNoxHQ/ksig-bridge/internal/cstr"
)

// FakeResponse configures what a FakeEngine returns. Nil fields become null
// references; raw byte fields take precedence over their string forms so
// tests can hand back malformed text.
type FakeResponse struct {
	Error    *string
	Proof    *string
	RawError []byte
	RawProof []byte
	Success  bool
}

// FakeEngine is an in-memory ports.Engine. It records every call, captures
// the inline witness while the input references are valid, and tracks the
// buffers it hands out so tests can check release discipline.
type FakeEngine struct {
	live           map[unsafe.Pointer][]byte
	calls          []string
	inputs         []entities.ProofRequest
	Response       FakeResponse
	mu             sync.Mutex
	released       int
	doubleReleases int
}

// NewFakeEngine creates a FakeEngine that answers every call with resp.
func NewFakeEngine(resp FakeResponse) *FakeEngine {
	return &FakeEngine{
		Response: resp,
		live:     make(map[unsafe.Pointer][]byte),
	}
}

// SucceedingEngine returns a FakeEngine that reports success with proof data.
func SucceedingEngine(proof string) *FakeEngine {
	return NewFakeEngine(FakeResponse{Success: true, Proof: &proof})
}

// FailingEngine returns a FakeEngine that reports failure with message.
func FailingEngine(message string) *FakeEngine {
	return NewFakeEngine(FakeResponse{Error: &message})
}

// Verify implements ports.Engine.
func (f *FakeEngine) Verify() entities.ResultRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "verify")
	return f.respond()
}

// VerifyWithInputs implements ports.Engine.
func (f *FakeEngine) VerifyWithInputs(in entities.InputRecord) entities.ResultRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "verifyWithInputs")
	f.inputs = append(f.inputs, entities.NewProofRequest(
		read(in.MsgHash), read(in.R), read(in.S), read(in.PubX), read(in.PubY),
	))
	return f.respond()
}

// Release implements ports.Engine.
func (f *FakeEngine) Release(rec entities.ResultRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	for _, p := range []unsafe.Pointer{rec.Error, rec.Proof} {
		if p == nil {
			continue
		}
		if _, ok := f.live[p]; !ok {
			f.doubleReleases++
			continue
		}
		delete(f.live, p)
	}
}

// Calls returns the boundary calls received so far.
func (f *FakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Inputs returns the inline witnesses received so far.
func (f *FakeEngine) Inputs() []entities.ProofRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entities.ProofRequest(nil), f.inputs...)
}

// Released returns the number of Release calls.
func (f *FakeEngine) Released() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

// Outstanding returns the number of buffers handed out and not yet released.
func (f *FakeEngine) Outstanding() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

// DoubleReleases returns how many references were released more than once.
func (f *FakeEngine) DoubleReleases() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doubleReleases
}

func (f *FakeEngine) respond() entities.ResultRecord {
	rec := entities.ResultRecord{}
	if f.Response.Success {
		rec.Success = 1
	}
	rec.Error = f.alloc(f.Response.RawError, f.Response.Error)
	rec.Proof = f.alloc(f.Response.RawProof, f.Response.Proof)
	return rec
}

func (f *FakeEngine) alloc(raw []byte, s *string) unsafe.Pointer {
	var buf []byte
	switch {
	case raw != nil:
		buf = append(append([]byte(nil), raw...), 0)
	case s != nil:
		buf = cstr.Terminated(*s)
	default:
		return nil
	}
	p := unsafe.Pointer(&buf[0])
	f.live[p] = buf
	return p
}

func read(p unsafe.Pointer) string {
	s, _ := cstr.Lossy(p)
	return s
}
