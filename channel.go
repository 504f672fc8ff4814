package ctrlc

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/srozzo/go-ctrlc/internal/emitter"
)

// Channel receives deliveries of a set of signals. It owns every signal in
// the set from creation until Close.
//
// A Channel may be handed between goroutines, but concurrent receivers each
// consume some delivery and which receiver gets which is unspecified.
type Channel struct {
	tab      *table
	signals  []Signal
	rows     []*row
	emitters []*emitter.Emitter

	// next is where the following receive starts its scan.
	next   atomic.Uint32
	closed atomic.Bool
}

// ChannelBuilder accumulates signals for a Channel.
type ChannelBuilder struct {
	tab     *table
	signals []Signal
}

// NewChannelBuilder returns an empty builder bound to the process registry.
func NewChannelBuilder() *ChannelBuilder {
	return &ChannelBuilder{tab: registry()}
}

// AddSignal adds s to the set. Adding the same signal twice is harmless.
func (b *ChannelBuilder) AddSignal(s Signal) *ChannelBuilder {
	b.signals = append(b.signals, s)
	return b
}

// Build installs every accumulated signal. See NewChannel.
func (b *ChannelBuilder) Build() (*Channel, error) {
	return b.tab.newChannel(b.signals, false)
}

// NewChannel installs handlers for sigs, all or nothing: if any install fails
// the ones already made are rolled back.
//
// It fails with ErrNoSignals for an empty set, ErrTooManySignals if the set
// exceeds the platform wait limit (checked before anything is installed),
// a *NoSuchSignalError for a signal the platform does not expose, and
// ErrMultipleHandlers if any signal already has an owner.
func NewChannel(sigs ...Signal) (*Channel, error) {
	return registry().newChannel(sigs, false)
}

func (t *table) newChannel(sigs []Signal, overwrite bool) (*Channel, error) {
	if len(sigs) == 0 {
		return nil, ErrNoSignals
	}
	if emitter.MaxWait > 0 && len(sigs) > emitter.MaxWait {
		return nil, fmt.Errorf("%w: %d requested, limit is %d", ErrTooManySignals, len(sigs), emitter.MaxWait)
	}

	c := &Channel{tab: t}
	seen := make(map[Native]bool, len(sigs))
	for _, s := range sigs {
		r, err := t.lookup(s)
		if err != nil {
			return nil, err
		}
		if seen[r.native] {
			continue
		}
		seen[r.native] = true
		c.signals = append(c.signals, s)
		c.rows = append(c.rows, r)
	}

	for i, r := range c.rows {
		if err := t.install(r, stateChannel, overwrite); err != nil {
			for _, prev := range c.rows[:i] {
				t.uninstall(prev)
			}
			return nil, err
		}
		c.emitters = append(c.emitters, r.emitter.Load())
	}
	return c, nil
}

// check reports the error newChannel would return for sigs once the rows in
// owned are released. It claims nothing, so a racing installer can still win.
func (t *table) check(sigs []Signal, owned []*row) error {
	if len(sigs) == 0 {
		return ErrNoSignals
	}
	if emitter.MaxWait > 0 && len(sigs) > emitter.MaxWait {
		return fmt.Errorf("%w: %d requested, limit is %d", ErrTooManySignals, len(sigs), emitter.MaxWait)
	}
	for _, s := range sigs {
		r, err := t.lookup(s)
		if err != nil {
			return err
		}
		if r.load() != stateFree && !slices.Contains(owned, r) {
			return fmt.Errorf("%w: %v", ErrMultipleHandlers, FromNative(r.native))
		}
	}
	return nil
}

// Recv blocks until one of the channel's signals is delivered and returns
// it, consuming exactly one delivery. Recv cannot be cancelled; closing the
// Channel does not wake a blocked Recv.
//
// The returned Signal is FromNative of the delivered identifier, so a
// subscription to Other(SIGINT) reports Ctrlc.
func (c *Channel) Recv() (Signal, error) {
	return c.recv(true)
}

// TryRecv is Recv without blocking. It returns ErrChannelEmpty when nothing
// is pending.
func (c *Channel) TryRecv() (Signal, error) {
	return c.recv(false)
}

func (c *Channel) recv(block bool) (Signal, error) {
	if c.closed.Load() {
		return Signal{}, ErrClosed
	}
	start := int(c.next.Load() % uint32(len(c.emitters)))
	i, id, err := emitter.Select(c.emitters, start, block)
	switch {
	case errors.Is(err, emitter.ErrEmpty):
		return Signal{}, ErrChannelEmpty
	case err != nil:
		return Signal{}, &SystemError{Op: "receive", Err: err}
	}
	c.next.Store(uint32(i + 1))
	return FromNative(Native(id)), nil
}

// Signals returns the deduplicated set, in the order it was requested.
func (c *Channel) Signals() []Signal {
	return append([]Signal(nil), c.signals...)
}

// wake queues a synthetic delivery on the first signal without touching its
// counter, releasing a goroutine blocked in Recv.
func (c *Channel) wake() {
	c.emitters[0].Emit()
}

// Close uninstalls every handler the channel owns. It is idempotent.
func (c *Channel) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	for _, r := range c.rows {
		c.tab.uninstall(r)
	}
	return nil
}
