// Package console implements the line-oriented command language used to
// exercise a strqueue.Queue interactively or from a script.
//
// Each line holds one command and its space separated arguments. Empty lines
// and lines starting with '#' are ignored. Type "help" for the command list.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/go-strqueue/logger"
	"github.com/arloliu/go-strqueue/strqueue"
)

// Console interprets commands against at most one queue at a time.
//
// All queues it creates draw storage from a fault injecting allocator on top
// of a tracking allocator, so refusals can be provoked with the malloc option
// and leaks are detected when a queue is freed.
type Console struct {
	out       io.Writer
	logger    logger.Logger
	removeLen int

	track *strqueue.LimitAllocator
	fault *strqueue.FaultAllocator
	q     *strqueue.Queue

	commands map[string]command
	errCount int
}

// New creates a Console with no queue.
func New(opts ...Option) (*Console, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	track := strqueue.NewLimitAllocator(0, 0)

	return &Console{
		out:       cfg.out,
		logger:    cfg.logger,
		removeLen: cfg.removeLen,
		track:     track,
		fault:     strqueue.NewFaultAllocator(track, cfg.failPercent, cfg.seed),
		commands:  builtinCommands(),
	}, nil
}

// Queue returns the current queue, or nil if there is none.
func (c *Console) Queue() *strqueue.Queue {
	return c.q
}

// Errors returns the number of failed commands seen by Run.
func (c *Console) Errors() int {
	return c.errCount
}

// Exec executes a single command line.
//
// It returns ErrQuit for the quit command and the command's error otherwise.
func (c *Console) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	fields := strings.Fields(line)
	cmd, ok := c.commands[fields[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}

	args := fields[1:]
	if len(args) < cmd.minArgs || len(args) > cmd.maxArgs {
		return fmt.Errorf("%w: usage: %s", ErrUsage, cmd.usage)
	}
	c.logger.Debug("exec command", "name", fields[0], "args", args)

	return cmd.run(c, args)
}

// Run reads commands from r until EOF, the quit command, or ctx is done, and
// frees the remaining queue afterwards.
//
// Failed commands are reported on the output and counted; Run then returns an
// error wrapping ErrCommandsFailed.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), MaxRemoveLength+64)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			c.printf("cmd> %s\n", line)
		}

		err := c.Exec(line)
		if errors.Is(err, ErrQuit) {
			break
		}
		if err != nil {
			c.fail(lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}

	if err := c.Close(); err != nil {
		c.fail(lineNo, err)
	}
	if c.errCount > 0 {
		return fmt.Errorf("%w: %d errors", ErrCommandsFailed, c.errCount)
	}

	return nil
}

// Close frees the current queue, if any, and reports leaked storage.
func (c *Console) Close() error {
	if c.q == nil {
		return nil
	}
	c.q.Free()
	c.q = nil

	if blocks := c.track.Blocks(); blocks != 0 {
		return fmt.Errorf("%w: %d blocks, %d bytes still allocated", ErrLeak, blocks, c.track.Bytes())
	}

	return nil
}

func (c *Console) fail(lineNo int, err error) {
	c.errCount++
	c.printf("ERROR: %v\n", err)
	c.logger.Error("command failed", "line", lineNo, "error", err)
}

// refused handles a refused storage request. Refusals are expected while
// faults are being injected and only produce a warning then.
func (c *Console) refused(what string) error {
	if c.fault.Percent() > 0 {
		c.printf("WARNING: %s failed\n", what)
		c.logger.Warn("allocation refused under fault injection", "op", what)

		return nil
	}

	return fmt.Errorf("%s failed", what)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) show() {
	if c.q == nil {
		c.printf("q = NULL\n")
		return
	}
	c.printf("q = %s\n", c.q)
}
