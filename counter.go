package ctrlc

import "sync/atomic"

// Counter counts deliveries of one signal. It owns the signal's handler from
// NewCounter until Close.
//
// The count is process-wide and monotonic: closing a Counter does not reset
// it, so a later Counter for the same signal starts from the running total.
type Counter struct {
	sig    Signal
	tab    *table
	row    *row
	closed atomic.Bool
}

// NewCounter installs the handler for sig.
//
// It fails with a *NoSuchSignalError (ErrNoSuchSignal) if the platform does
// not expose sig, and with ErrMultipleHandlers if a Counter or Channel already
// owns it or, on Unix, if the signal is currently ignored.
func NewCounter(sig Signal) (*Counter, error) {
	return registry().newCounter(sig)
}

func (t *table) newCounter(sig Signal) (*Counter, error) {
	r, err := t.lookup(sig)
	if err != nil {
		return nil, err
	}
	if err := t.install(r, stateCounter, false); err != nil {
		return nil, err
	}
	return &Counter{sig: sig, tab: t, row: r}, nil
}

// Get returns a snapshot of the count. It never blocks; the value may
// already be stale when it returns.
func (c *Counter) Get() uint64 {
	return c.row.counter.Load()
}

// Signal returns the signal c counts.
func (c *Counter) Signal() Signal { return c.sig }

// Close uninstalls the handler. It is idempotent.
func (c *Counter) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.tab.uninstall(c.row)
	return nil
}
