package ctrlc

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelEmpty is returned by TryRecv when no signal is pending.
	ErrChannelEmpty = errors.New("ctrlc: channel is empty")
	// ErrNoSuchSignal matches every *NoSuchSignalError.
	ErrNoSuchSignal = errors.New("ctrlc: signal could not be found from the system")
	// ErrMultipleHandlers is returned when a signal already has an owner.
	ErrMultipleHandlers = errors.New("ctrlc: signal handler already registered")
	// ErrTooManySignals is returned when a channel exceeds the platform's wait limit.
	ErrTooManySignals = errors.New("ctrlc: too many signals registered for a channel")
	// ErrSystem matches every *SystemError.
	ErrSystem = errors.New("ctrlc: unexpected system error")
	// ErrNoSignals is returned when a channel is built from an empty set.
	ErrNoSignals = errors.New("ctrlc: no signals provided")
	// ErrClosed is returned by receives on a closed Channel.
	ErrClosed = errors.New("ctrlc: channel closed")
	// ErrNoHandler is returned by RemoveAllHandlers when nothing is installed.
	ErrNoHandler = errors.New("ctrlc: no handler registered")
	// ErrHandlerPanic wraps the value recovered from a panicking callback.
	ErrHandlerPanic = errors.New("ctrlc: handler panicked")
)

// NoSuchSignalError reports a signal that is not part of the platform's
// enumeration. Signal is preserved exactly as requested.
type NoSuchSignalError struct {
	Signal Signal
}

func (e *NoSuchSignalError) Error() string {
	return fmt.Sprintf("ctrlc: signal %v could not be found from the system", e.Signal)
}

func (e *NoSuchSignalError) Is(target error) bool { return target == ErrNoSuchSignal }

// SystemError wraps a failure of the underlying OS primitive.
type SystemError struct {
	Op  string
	Err error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("ctrlc: %s: %v", e.Op, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }

func (e *SystemError) Is(target error) bool { return target == ErrSystem }
