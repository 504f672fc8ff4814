package ctrlc

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/srozzo/go-ctrlc/internal/emitter"
)

// state is the install state of a row.
type state uint32

const (
	stateFree state = iota
	// statePending rows are owned by an installer that has not hooked the OS yet.
	statePending
	stateCounter
	stateChannel
)

func (s state) String() string {
	switch s {
	case stateFree:
		return "free"
	case statePending:
		return "pending"
	case stateCounter:
		return "counter"
	case stateChannel:
		return "channel"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// row is the per-signal slot. Everything the delivery path touches is an
// atomic, so no lock is ever taken there.
type row struct {
	native Native
	sig    os.Signal

	// counter is never reset while the process runs.
	counter atomic.Uint64
	state   atomic.Uint32
	// emitter is created on the first channel install and reused afterwards.
	emitter atomic.Pointer[emitter.Emitter]
	// sub is the live OS subscription. Only the row's owner touches it.
	sub atomic.Pointer[subscription]
}

func (r *row) load() state { return state(r.state.Load()) }

// subscription is one install of a row: its own notify channel and the
// goroutine forwarding from it. Stopping the channel bounds what can still
// arrive, so nothing queued for one owner reaches the next.
type subscription struct {
	c    chan os.Signal
	done chan struct{}
}

// table is the process-wide signal registry. Its rows are allocated once and
// never move.
type table struct {
	src   Source
	rows  []row
	index map[Native]*row
}

// notifyBuffer bounds the deliveries queued between the runtime and a
// subscription's forwarder. os/signal drops deliveries when it is full.
const notifyBuffer = 16

func newTable(src Source, natives []Native) *table {
	t := &table{
		src:   src,
		rows:  make([]row, len(natives)),
		index: make(map[Native]*row, len(natives)),
	}
	for i, n := range natives {
		r := &t.rows[i]
		r.native = n
		r.sig = n.osSignal()
		t.index[n] = r
	}
	return t
}

// registry returns the process-wide table, building it on first use.
var registry = sync.OnceValue(func() *table {
	return newTable(osSource{}, supportedNatives)
})

func (t *table) lookup(s Signal) (*row, error) {
	r, ok := t.index[s.Native()]
	if !ok {
		return nil, &NoSuchSignalError{Signal: s}
	}
	return r, nil
}

// ensureEmitter must only be called by the goroutine that owns r.
func (t *table) ensureEmitter(r *row) (*emitter.Emitter, error) {
	if e := r.emitter.Load(); e != nil {
		return e, nil
	}
	e, err := emitter.New(uint32(r.native))
	if err != nil {
		return nil, &SystemError{Op: "create emitter", Err: err}
	}
	r.emitter.Store(e)
	return e, nil
}

// install makes kind the single owner of r and hooks the OS signal. The
// pending claim serializes installers; the final store publishes the row to
// the forwarder only once the emitter is ready.
func (t *table) install(r *row, kind state, overwrite bool) error {
	if !r.state.CompareAndSwap(uint32(stateFree), uint32(statePending)) {
		return fmt.Errorf("%w: %v", ErrMultipleHandlers, FromNative(r.native))
	}
	if !overwrite && foreignDisposition(t.src, r.sig) {
		r.state.Store(uint32(stateFree))
		return fmt.Errorf("%w: %v has a non-default disposition", ErrMultipleHandlers, FromNative(r.native))
	}

	if kind == stateChannel {
		e, err := t.ensureEmitter(r)
		if err != nil {
			r.state.Store(uint32(stateFree))
			return err
		}
		// Units left by an earlier subscriber are not ours to report.
		if err := e.Drain(); err != nil {
			r.state.Store(uint32(stateFree))
			return &SystemError{Op: "drain emitter", Err: err}
		}
	}

	sub := &subscription{
		c:    make(chan os.Signal, notifyBuffer),
		done: make(chan struct{}),
	}
	r.sub.Store(sub)
	go t.forward(sub)
	t.src.Notify(sub.c, r.sig)
	r.state.Store(uint32(kind))

	logger().Debug("ctrlc: installed", "signal", FromNative(r.native), "mode", kind)
	return nil
}

// uninstall unhooks the OS signal and frees r. It never fails.
//
// The row stays pending until the forwarder has exited: Stop guarantees no
// further sends, the backlog is discarded, and any Emit already in flight
// lands before a later install drains the emitter.
func (t *table) uninstall(r *row) {
	r.state.Store(uint32(statePending))
	if sub := r.sub.Swap(nil); sub != nil {
		t.src.Stop(sub.c)
		close(sub.c)
		<-sub.done
	}
	r.state.Store(uint32(stateFree))
	logger().Debug("ctrlc: uninstalled", "signal", FromNative(r.native))
}

// forward is the handler for one subscription. It exits once the channel is
// closed by uninstall.
func (t *table) forward(sub *subscription) {
	defer close(sub.done)
	for s := range sub.c {
		t.deliver(s)
	}
}

// deliver is restricted to a map read, atomic operations and Emit. Rows that
// are free or pending drop the delivery.
func (t *table) deliver(s os.Signal) {
	n, ok := nativeOf(s)
	if !ok {
		return
	}
	r := t.index[n]
	if r == nil {
		return
	}
	switch r.load() {
	case stateCounter:
		r.counter.Add(1)
	case stateChannel:
		r.counter.Add(1)
		if e := r.emitter.Load(); e != nil {
			e.Emit()
		}
	}
}
