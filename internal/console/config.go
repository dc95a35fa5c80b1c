package console

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/go-strqueue/logger"
)

const (
	// DefaultRemoveLength is the default capacity of the buffer used by rh.
	DefaultRemoveLength = 1024
	// MaxRemoveLength is the largest allowed rh buffer capacity.
	MaxRemoveLength = 1 << 20
	// MaxRepeat is the largest repeat count accepted by ih and it.
	MaxRepeat = 1 << 20
)

type config struct {
	out         io.Writer
	logger      logger.Logger
	removeLen   int
	failPercent int
	seed        uint64
}

// Option configures a Console.
type Option interface {
	apply(*config) error
}

type optFunc func(*config) error

func (f optFunc) apply(cfg *config) error { return f(cfg) }

// WithOutput sets where command results are written. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return optFunc(func(cfg *config) error {
		if w == nil {
			return fmt.Errorf("console: %w: nil output", ErrUsage)
		}
		cfg.out = w

		return nil
	})
}

// WithLogger sets the logger for diagnostics and for the queues the console creates.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *config) error {
		if l == nil {
			return fmt.Errorf("console: %w: nil logger", ErrUsage)
		}
		cfg.logger = l

		return nil
	})
}

// WithRemoveLength sets the capacity of the rh buffer, in the range [1, MaxRemoveLength].
func WithRemoveLength(n int) Option {
	return optFunc(func(cfg *config) error {
		if n < 1 || n > MaxRemoveLength {
			return fmt.Errorf("console: %w: remove length %d out of range [1, %d]", ErrUsage, n, MaxRemoveLength)
		}
		cfg.removeLen = n

		return nil
	})
}

// WithFailPercent sets the percentage of storage requests that are refused, in the range [0, 100].
func WithFailPercent(p int) Option {
	return optFunc(func(cfg *config) error {
		if p < 0 || p > 100 {
			return fmt.Errorf("console: %w: fail percent %d out of range [0, 100]", ErrUsage, p)
		}
		cfg.failPercent = p

		return nil
	})
}

// WithSeed sets the seed of the fault injection source.
func WithSeed(seed uint64) Option {
	return optFunc(func(cfg *config) error {
		cfg.seed = seed
		return nil
	})
}

func defaultConfig() *config {
	return &config{
		out:       os.Stdout,
		logger:    logger.GetLogger(),
		removeLen: DefaultRemoveLength,
	}
}
