package strqueue

import (
	"fmt"
	"math/rand/v2"
	"unsafe"
)

// Reservation sizes charged to an Allocator for the fixed size records.
// A string value is charged len(s)+1 bytes, counting its terminator.
const (
	QueueRecordSize = int(unsafe.Sizeof(Queue{}))
	NodeRecordSize  = int(unsafe.Sizeof(node{}))
)

// Allocator accounts for the storage used by queues.
//
// Alloc reserves size bytes as one block, or returns an error wrapping
// ErrAllocFailed when the request is refused. Release returns a block of size
// bytes previously granted by Alloc.
type Allocator interface {
	Alloc(size int) error
	Release(size int)
}

// HeapAllocator grants every request. It is the default Allocator.
type HeapAllocator struct{}

var _ Allocator = HeapAllocator{}

func (HeapAllocator) Alloc(int) error { return nil }

func (HeapAllocator) Release(int) {}

// LimitAllocator grants requests while the outstanding blocks and bytes stay
// within its limits, and keeps track of what is outstanding.
type LimitAllocator struct {
	maxBlocks int
	maxBytes  int
	blocks    int
	bytes     int
	allocs    int
	refused   int
}

var _ Allocator = (*LimitAllocator)(nil)

// NewLimitAllocator creates a LimitAllocator. A limit of zero or less means
// that dimension is unlimited, so NewLimitAllocator(0, 0) only keeps count.
func NewLimitAllocator(maxBlocks, maxBytes int) *LimitAllocator {
	return &LimitAllocator{maxBlocks: maxBlocks, maxBytes: maxBytes}
}

func (a *LimitAllocator) Alloc(size int) error {
	if a.maxBlocks > 0 && a.blocks+1 > a.maxBlocks {
		a.refused++
		return fmt.Errorf("%w: %w: %d blocks outstanding, limit %d", ErrAllocFailed, ErrBudgetExceeded, a.blocks, a.maxBlocks)
	}
	if a.maxBytes > 0 && a.bytes+size > a.maxBytes {
		a.refused++
		return fmt.Errorf("%w: %w: %d+%d bytes, limit %d", ErrAllocFailed, ErrBudgetExceeded, a.bytes, size, a.maxBytes)
	}
	a.blocks++
	a.bytes += size
	a.allocs++

	return nil
}

// Release returns a block. It panics if more is released than was granted,
// which always indicates a double free.
func (a *LimitAllocator) Release(size int) {
	if a.blocks == 0 || a.bytes < size {
		panic("strqueue: release of a block that was never allocated")
	}
	a.blocks--
	a.bytes -= size
}

// Blocks returns the number of outstanding blocks.
func (a *LimitAllocator) Blocks() int { return a.blocks }

// Bytes returns the number of outstanding bytes.
func (a *LimitAllocator) Bytes() int { return a.bytes }

// Allocs returns the number of granted requests since creation.
func (a *LimitAllocator) Allocs() int { return a.allocs }

// Refused returns the number of refused requests since creation.
func (a *LimitAllocator) Refused() int { return a.refused }

// FaultAllocator refuses a percentage of requests and forwards the rest to a
// parent Allocator. Refusals are drawn from a seeded PCG source so a run can be
// reproduced.
type FaultAllocator struct {
	parent  Allocator
	percent int
	rng     *rand.Rand
}

var _ Allocator = (*FaultAllocator)(nil)

// NewFaultAllocator creates a FaultAllocator refusing percent% of requests,
// clamped to [0, 100]. A nil parent means HeapAllocator.
func NewFaultAllocator(parent Allocator, percent int, seed uint64) *FaultAllocator {
	if parent == nil {
		parent = HeapAllocator{}
	}
	f := &FaultAllocator{
		parent: parent,
		rng:    rand.New(rand.NewPCG(seed, seed)), //nolint:gosec // reproducibility matters, not unpredictability
	}
	f.SetPercent(percent)

	return f
}

// SetPercent changes the refusal rate, clamped to [0, 100].
func (f *FaultAllocator) SetPercent(percent int) {
	f.percent = min(max(percent, 0), 100)
}

// Percent returns the refusal rate.
func (f *FaultAllocator) Percent() int { return f.percent }

func (f *FaultAllocator) Alloc(size int) error {
	if f.percent > 0 && f.rng.IntN(100) < f.percent {
		return fmt.Errorf("%w: %w: %d bytes", ErrAllocFailed, ErrInjectedFault, size)
	}

	return f.parent.Alloc(size)
}

func (f *FaultAllocator) Release(size int) {
	f.parent.Release(size)
}
