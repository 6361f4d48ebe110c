//go:build wasip1

package abi

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateDeallocate(t *testing.T) {
	FreeAllTracked()

	ptr := allocate(16)
	require.NotZero(t, ptr)
	count, bytes := Stats()
	assert.Equal(t, 1, count)
	assert.Equal(t, 16, bytes)

	deallocate(ptr, 0)
	deallocate(ptr, 16)
	count, bytes = Stats()
	assert.Zero(t, count)
	assert.Zero(t, bytes)
}

func TestAllocate_ZeroSize(t *testing.T) {
	assert.Zero(t, allocate(0))
}

func TestAllocate_Limit(t *testing.T) {
	FreeAllTracked()
	require.NoError(t, SetLimit(8))
	defer func() { require.NoError(t, SetLimit(DefaultMaxTotalAllocations)) }()

	assert.Zero(t, allocate(9))
	assert.Equal(t, uint64(8), allocationStats())

	ptr := allocate(5)
	require.NotZero(t, ptr)
	assert.Equal(t, uint64(5)<<PtrHighBits|8, allocationStats())
	assert.Zero(t, allocate(4))
	assert.Zero(t, PtrFromBytes([]byte("toolong!!")))
	deallocate(ptr, 5)

	assert.Error(t, SetLimit(0))
}

func TestPtrFromBytes_RoundTrip(t *testing.T) {
	FreeAllTracked()

	packed := PtrFromBytes([]byte(`{"output":"ok"}`))
	assert.Equal(t, []byte(`{"output":"ok"}`), BytesFromPtr(packed))

	DeallocatePacked(packed)
	count, _ := Stats()
	assert.Zero(t, count)

	assert.Zero(t, PtrFromBytes(nil))
	assert.Nil(t, BytesFromPtr(0))
	assert.NotPanics(t, func() { DeallocatePacked(0) })
}

func TestConcurrentAllocations(t *testing.T) {
	FreeAllTracked()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deallocate(allocate(64), 64)
		}()
	}
	wg.Wait()

	count, bytes := Stats()
	assert.Zero(t, count)
	assert.Zero(t, bytes)
}
