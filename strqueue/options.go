package strqueue

import (
	"github.com/arloliu/go-strqueue/logger"
)

type config struct {
	alloc  Allocator
	logger logger.Logger
}

func defaultConfig() *config {
	return &config{
		alloc:  HeapAllocator{},
		logger: logger.GetLogger(),
	}
}

// Option configures a Queue created by New.
type Option interface {
	apply(*config) error
}

type optFunc func(*config) error

func (f optFunc) apply(cfg *config) error { return f(cfg) }

// WithAllocator sets the Allocator charged for the queue's storage.
// The default is HeapAllocator.
func WithAllocator(a Allocator) Option {
	return optFunc(func(cfg *config) error {
		if a == nil {
			return ErrNilAllocator
		}
		cfg.alloc = a

		return nil
	})
}

// WithLogger sets the logger. The default is logger.GetLogger().
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *config) error {
		if l == nil {
			return ErrNilLogger
		}
		cfg.logger = l

		return nil
	})
}
