package strqueue

import "errors"

var (
	// ErrAllocFailed indicates that an Allocator refused a storage request.
	// Allocator implementations wrap it with the reason of the refusal.
	ErrAllocFailed = errors.New("allocation failed")

	// ErrBudgetExceeded indicates that a LimitAllocator request would exceed its block or byte budget.
	ErrBudgetExceeded = errors.New("allocation budget exceeded")

	// ErrInjectedFault indicates that a FaultAllocator refused a request on purpose.
	ErrInjectedFault = errors.New("injected allocation fault")
)

var (
	// ErrNilAllocator indicates that WithAllocator was given a nil Allocator.
	ErrNilAllocator = errors.New("allocator is nil")

	// ErrNilLogger indicates that WithLogger was given a nil Logger.
	ErrNilLogger = errors.New("logger is nil")
)
