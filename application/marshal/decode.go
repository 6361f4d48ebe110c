package marshal

import (
	"sync"

	"github.com/ZKNoxHQ/ksig-bridge/domain/entities"
	bridgeerrors "github.com/ZKNoxHQ/ksig-bridge/domain/errors"
	"github.com/ZKNoxHQ/ksig-bridge/domain/ports"
	"github.com/ZKNoxHQ/ksig-bridge/internal/cstr"
)

// ReleaseFunc hands a result record back to the engine that produced it.
type ReleaseFunc func(entities.ResultRecord)

// Borrowed is an engine-owned result record that is borrowed until released.
// The record is released exactly once, either by Decode or by Release.
type Borrowed struct {
	release ReleaseFunc
	record  entities.ResultRecord
	mu      sync.Mutex
	done    bool
}

// Borrow wraps rec so that it is returned to release exactly once.
func Borrow(rec entities.ResultRecord, release ReleaseFunc) *Borrowed {
	return &Borrowed{record: rec, release: release}
}

// Decode copies the record into an owned outcome and then releases it, even
// if reading panics. Null references decode to absent fields. Invalid UTF-8
// is replaced with U+FFFD. A failure with no error text decodes to the
// unknown-failure outcome.
//
// Decode returns errors.ErrRecordReleased if the record was already released.
func (b *Borrowed) Decode() (entities.VerificationOutcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done {
		return entities.VerificationOutcome{}, bridgeerrors.ErrRecordReleased
	}
	defer b.releaseLocked()

	out := entities.VerificationOutcome{Success: b.record.Success != 0}
	if s, ok := cstr.Lossy(b.record.Error); ok {
		out.ErrorMessage = &s
	}
	if s, ok := cstr.Lossy(b.record.Proof); ok {
		out.ProofData = &s
	}
	if !out.Success && out.ErrorMessage == nil {
		return entities.OutcomeUnknownFailure(), nil
	}
	return out, nil
}

// Release returns the record to the engine without reading it. It is safe to
// call more than once and after Decode.
func (b *Borrowed) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.done {
		b.releaseLocked()
	}
}

// Released reports whether the record has been handed back.
func (b *Borrowed) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

func (b *Borrowed) releaseLocked() {
	b.done = true
	rec := b.record
	b.record = entities.ResultRecord{}
	if b.release != nil {
		b.release(rec)
	}
}

// Decode borrows rec from engine, decodes it and releases it.
func Decode(rec entities.ResultRecord, engine ports.Engine) (entities.VerificationOutcome, error) {
	return Borrow(rec, engine.Release).Decode()
}
