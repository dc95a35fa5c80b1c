package console

import "errors"

var (
	// ErrQuit is returned by Exec for the quit command.
	ErrQuit = errors.New("quit")

	// ErrUnknownCommand indicates that the command name is not defined.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage indicates that a command was called with invalid arguments.
	ErrUsage = errors.New("invalid arguments")

	// ErrNoQueue indicates that a command needs a queue but none was created with new.
	ErrNoQueue = errors.New("no queue, run new first")

	// ErrCheckFailed indicates that the queue did not match an expected value or order.
	ErrCheckFailed = errors.New("check failed")

	// ErrLeak indicates that storage was still reserved after a queue was freed.
	ErrLeak = errors.New("storage leaked")

	// ErrCommandsFailed is returned by Run when at least one command failed.
	ErrCommandsFailed = errors.New("commands failed")
)
