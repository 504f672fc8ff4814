package ctrlc

import (
	"os"
	"os/signal"
)

// Source abstracts the process' OS signal plumbing.
// It is primarily useful for injecting a fake OS during testing.
type Source interface {
	// Notify subscribes c to the given signals.
	Notify(c chan<- os.Signal, sig ...os.Signal)
	// Stop unsubscribes c. No signal is sent to c once it returns.
	Stop(c chan<- os.Signal)
	// Ignored reports whether sig is currently ignored.
	Ignored(sig os.Signal) bool
}

// osSource is the production Source. It delegates to os/signal.
type osSource struct{}

func (osSource) Notify(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }

func (osSource) Stop(c chan<- os.Signal) { signal.Stop(c) }

func (osSource) Ignored(sig os.Signal) bool { return signal.Ignored(sig) }
