package console

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/arloliu/go-strqueue/logger"
	"github.com/arloliu/go-strqueue/strqueue"
)

// fillByte pre-fills the rh buffer so writes past the terminator can be detected.
const fillByte = 'X'

type command struct {
	usage   string
	help    string
	minArgs int
	maxArgs int
	run     func(c *Console, args []string) error
}

func builtinCommands() map[string]command {
	return map[string]command{
		"new":     {usage: "new", help: "Create new queue", run: (*Console).cmdNew},
		"free":    {usage: "free", help: "Delete queue", run: (*Console).cmdFree},
		"ih":      {usage: "ih str [n]", help: "Insert string str at head of queue n times (default: n == 1)", minArgs: 1, maxArgs: 2, run: (*Console).cmdInsertHead},
		"it":      {usage: "it str [n]", help: "Insert string str at tail of queue n times (default: n == 1)", minArgs: 1, maxArgs: 2, run: (*Console).cmdInsertTail},
		"rh":      {usage: "rh [str]", help: "Remove from head of queue, optionally compare to expected value str", maxArgs: 1, run: (*Console).cmdRemoveHead},
		"rhq":     {usage: "rhq", help: "Remove from head of queue without reporting value", run: (*Console).cmdRemoveHeadQuiet},
		"reverse": {usage: "reverse", help: "Reverse queue", run: (*Console).cmdReverse},
		"sort":    {usage: "sort", help: "Sort queue in ascending order", run: (*Console).cmdSort},
		"size":    {usage: "size [n]", help: "Show size of queue, optionally compare to expected size n", maxArgs: 1, run: (*Console).cmdSize},
		"show":    {usage: "show", help: "Show queue contents", run: (*Console).cmdShow},
		"option":  {usage: "option [name value]", help: "Display or set options (malloc, length, verbose)", maxArgs: 2, run: (*Console).cmdOption},
		"help":    {usage: "help", help: "Show documentation", run: (*Console).cmdHelp},
		"quit":    {usage: "quit", help: "Exit program", run: (*Console).cmdQuit},
	}
}

func (c *Console) needQueue() error {
	if c.q == nil {
		return ErrNoQueue
	}

	return nil
}

func parseCount(s string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUsage, s)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %d out of range [%d, %d]", ErrUsage, n, lo, hi)
	}

	return n, nil
}

func (c *Console) cmdNew(_ []string) error {
	if err := c.Close(); err != nil {
		return err
	}

	q, err := strqueue.New(strqueue.WithAllocator(c.fault), strqueue.WithLogger(c.logger))
	if err != nil {
		c.logger.Debug("new queue refused", "error", err)
		if rerr := c.refused("new"); rerr != nil {
			return rerr
		}
	}
	c.q = q
	c.show()

	return nil
}

func (c *Console) cmdFree(_ []string) error {
	if err := c.needQueue(); err != nil {
		return err
	}
	err := c.Close()
	c.show()

	return err
}

func (c *Console) insert(args []string, what string, insert func(string) bool) error {
	if err := c.needQueue(); err != nil {
		return err
	}

	reps := 1
	if len(args) == 2 {
		var err error
		if reps, err = parseCount(args[1], 1, MaxRepeat); err != nil {
			return err
		}
	}

	for range reps {
		if !insert(args[0]) {
			if err := c.refused(fmt.Sprintf("%s of %s", what, args[0])); err != nil {
				return err
			}
			break
		}
	}
	c.show()

	return nil
}

func (c *Console) cmdInsertHead(args []string) error {
	return c.insert(args, "insertion at head", func(s string) bool { return c.q.InsertHead(s) })
}

func (c *Console) cmdInsertTail(args []string) error {
	return c.insert(args, "insertion at tail", func(s string) bool { return c.q.InsertTail(s) })
}

func (c *Console) cmdRemoveHead(args []string) error {
	if err := c.needQueue(); err != nil {
		return err
	}

	buf := make([]byte, c.removeLen+1)
	for i := range buf {
		buf[i] = fillByte
	}
	if !c.q.RemoveHead(buf[:c.removeLen]) {
		return fmt.Errorf("%w: remove from empty queue", ErrCheckFailed)
	}

	got := strqueue.CString(buf)
	for _, b := range buf[len(got)+1:] {
		if b != fillByte {
			return fmt.Errorf("%w: remove head wrote past the end of the string", ErrCheckFailed)
		}
	}
	c.printf("Removed %s from queue\n", got)

	if len(args) == 1 {
		want := args[0]
		if len(want) > c.removeLen-1 {
			want = want[:c.removeLen-1]
		}
		if got != want {
			return fmt.Errorf("%w: removed value %s != expected value %s", ErrCheckFailed, got, want)
		}
	}
	c.show()

	return nil
}

func (c *Console) cmdRemoveHeadQuiet(_ []string) error {
	if err := c.needQueue(); err != nil {
		return err
	}
	if !c.q.RemoveHead(nil) {
		return fmt.Errorf("%w: remove from empty queue", ErrCheckFailed)
	}
	c.show()

	return nil
}

func (c *Console) cmdReverse(_ []string) error {
	if err := c.needQueue(); err != nil {
		return err
	}
	c.q.Reverse()
	c.show()

	return nil
}

func (c *Console) cmdSort(_ []string) error {
	if err := c.needQueue(); err != nil {
		return err
	}
	c.q.Sort()
	c.show()

	if !slices.IsSorted(c.q.Values()) {
		return fmt.Errorf("%w: queue not sorted in ascending order", ErrCheckFailed)
	}

	return nil
}

func (c *Console) cmdSize(args []string) error {
	if err := c.needQueue(); err != nil {
		return err
	}

	size := c.q.Size()
	c.printf("Queue size = %d\n", size)

	if n := len(c.q.Values()); n != size {
		return fmt.Errorf("%w: size %d but %d elements reachable", ErrCheckFailed, size, n)
	}
	if len(args) == 1 {
		want, err := parseCount(args[0], 0, 1<<31-1)
		if err != nil {
			return err
		}
		if size != want {
			return fmt.Errorf("%w: queue size %d != expected size %d", ErrCheckFailed, size, want)
		}
	}

	return nil
}

func (c *Console) cmdShow(_ []string) error {
	c.show()
	return nil
}

func (c *Console) cmdOption(args []string) error {
	switch len(args) {
	case 0:
		c.printf("malloc\t%d\tPercent of storage requests refused\n", c.fault.Percent())
		c.printf("length\t%d\tBuffer capacity used by rh\n", c.removeLen)
		c.printf("verbose\t%d\tVerbosity level (0-3)\n", verbosity(c.logger.Level()))
		return nil
	case 1:
		return fmt.Errorf("%w: usage: option [name value]", ErrUsage)
	}

	name, value := args[0], args[1]
	switch name {
	case "malloc":
		p, err := parseCount(value, 0, 100)
		if err != nil {
			return err
		}
		c.fault.SetPercent(p)
	case "length":
		n, err := parseCount(value, 1, MaxRemoveLength)
		if err != nil {
			return err
		}
		c.removeLen = n
	case "verbose":
		v, err := parseCount(value, 0, 3)
		if err != nil {
			return err
		}
		c.logger.SetLevel(logger.VerbosityLevel(v))
	default:
		return fmt.Errorf("%w: unknown option %s", ErrUsage, name)
	}
	c.logger.Info("option changed", "name", name, "value", value)

	return nil
}

func (c *Console) cmdHelp(_ []string) error {
	c.printf("Commands:\n")
	for _, name := range slices.Sorted(maps.Keys(c.commands)) {
		cmd := c.commands[name]
		c.printf("\t%-20s| %s\n", cmd.usage, cmd.help)
	}

	return nil
}

func (c *Console) cmdQuit(_ []string) error {
	return ErrQuit
}

// verbosity is the inverse of logger.VerbosityLevel.
func verbosity(level logger.Level) int {
	switch {
	case level >= logger.ErrorLevel:
		return 0
	case level == logger.WarnLevel:
		return 1
	case level == logger.InfoLevel:
		return 2
	default:
		return 3
	}
}
