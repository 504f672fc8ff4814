package ctrlc

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Handlers installs at most one callback for a set of signals, backed by a
// Channel and a goroutine that loops on Recv. Default backs the package-level
// functions; separate Handlers may coexist as long as their signal sets do not
// overlap.
type Handlers struct {
	tab *table

	mu  sync.Mutex // guards cfg and cur
	cfg Config
	cur *session

	// installMu serializes install and removal.
	installMu sync.Mutex
}

// session is one installed callback.
type session struct {
	ch   *Channel
	fn   func() bool
	log  *slog.Logger
	stop atomic.Bool
	done chan struct{}
	exit func()

	mu     sync.Mutex // guards closed against a racing wake
	closed bool
}

// NewHandlers returns an orchestrator with nothing installed.
func NewHandlers(opts ...Option) *Handlers {
	return newHandlers(nil, opts...)
}

func newHandlers(tab *table, opts ...Option) *Handlers {
	h := &Handlers{tab: tab}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Default is the orchestrator behind SetHandler and friends.
var Default = NewHandlers()

func (h *Handlers) table() *table {
	if h.tab != nil {
		return h.tab
	}
	return registry()
}

// SetHandler installs fn for the configured signals, replacing any handler h
// installed before. It also takes over signals whose disposition is ignored.
// fn runs on a dedicated goroutine, once per received signal. If the new
// signal set is rejected the previous handler stays in place. It must not be
// called from inside the callback.
func (h *Handlers) SetHandler(fn func()) error {
	return h.start(true, repeat(fn), nil, func(s *session) { go h.serve(s) })
}

// TrySetHandler is SetHandler without replacement: it fails with
// ErrMultipleHandlers while h has a handler installed, or if any configured
// signal already has an owner.
func (h *Handlers) TrySetHandler(fn func()) error {
	return h.start(false, repeat(fn), nil, func(s *session) { go h.serve(s) })
}

// TrySetScopedHandler runs the handler loop inside g, so fn may capture
// state that does not outlive g. fn returns true once it is finished; the
// handler then uninstalls itself and the goroutine ends, letting g.Wait
// return. A panic in fn surfaces from g.Wait as ErrHandlerPanic.
func (h *Handlers) TrySetScopedHandler(g *errgroup.Group, fn func() bool) error {
	return h.start(false, fn, nil, func(s *session) {
		g.Go(func() error { return h.serve(s) })
	})
}

// RemoveAllHandlers stops the handler loop and uninstalls its signals. It
// returns ErrNoHandler if nothing is installed. It must not be called from
// inside the callback.
func (h *Handlers) RemoveAllHandlers() error {
	h.installMu.Lock()
	defer h.installMu.Unlock()
	h.mu.Lock()
	s := h.cur
	h.mu.Unlock()
	if s == nil {
		return ErrNoHandler
	}
	h.halt(s)
	return nil
}

// Installed reports whether h currently has a handler installed.
func (h *Handlers) Installed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cur != nil
}

func repeat(fn func()) func() bool {
	return func() bool {
		fn()
		return false
	}
}

func (h *Handlers) start(overwrite bool, fn func() bool, exit func(), launch func(*session)) error {
	h.installMu.Lock()
	defer h.installMu.Unlock()

	h.mu.Lock()
	cur, cfg := h.cur, h.cfg
	h.mu.Unlock()
	if cur != nil {
		if !overwrite {
			return fmt.Errorf("%w: a handler is already set", ErrMultipleHandlers)
		}
		// A replacement that cannot install leaves the current handler running.
		if err := h.table().check(cfg.signals(), cur.ch.rows); err != nil {
			return err
		}
		h.halt(cur)
	}

	ch, err := h.table().newChannel(cfg.signals(), overwrite)
	if err != nil {
		return err
	}
	s := &session{
		ch:   ch,
		fn:   fn,
		log:  cfg.logger(),
		done: make(chan struct{}),
		exit: exit,
	}
	h.mu.Lock()
	h.cur = s
	h.mu.Unlock()

	s.log.Debug("ctrlc: handler set", "signals", ch.Signals(), "overwrite", overwrite)
	launch(s)
	return nil
}

// serve receives until fn reports it is finished, the session is halted, or
// fn panics. A panic leaves the installation in place so later deliveries
// are absorbed until the handler is removed.
func (h *Handlers) serve(s *session) (err error) {
	defer func() {
		close(s.done)
		if s.exit != nil {
			s.exit()
		}
	}()
	for {
		sig, rerr := s.ch.Recv()
		if s.stop.Load() {
			break
		}
		if rerr != nil {
			s.log.Error("ctrlc: receive failed", "error", rerr)
			err = rerr
			break
		}
		s.log.Debug("ctrlc: handling signal", "signal", sig)
		finished, perr := s.invoke(sig)
		if perr != nil {
			return perr
		}
		if finished {
			break
		}
	}
	h.finish(s)
	return err
}

func (s *session) invoke(sig Signal) (finished bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("ctrlc: panic in handler", "signal", sig, "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return s.fn(), nil
}

// halt stops s and waits for its goroutine. The caller holds installMu.
func (h *Handlers) halt(s *session) {
	s.stop.Store(true)
	select {
	case <-s.done:
	default:
		s.wake()
		<-s.done
	}
	h.finish(s)
}

// finish closes the channel and clears s from h. It is idempotent.
func (h *Handlers) finish(s *session) {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		if err := s.ch.Close(); err != nil && !errors.Is(err, ErrClosed) {
			s.log.Warn("ctrlc: closing channel", "error", err)
		}
		s.log.Debug("ctrlc: handler removed", "signals", s.ch.Signals())
	}
	s.mu.Unlock()

	h.mu.Lock()
	if h.cur == s {
		h.cur = nil
	}
	h.mu.Unlock()
}

// wake releases a Recv blocked in the session goroutine, unless the channel
// is already closed and its emitters may belong to someone else.
func (s *session) wake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.ch.wake()
	}
}

// Once is the result of a handler that runs at most once.
type Once[T any] struct {
	done  chan struct{}
	val   T
	fired bool
}

// Wait blocks until the handler has run or been removed. It reports false,
// with the zero T, if the handler was removed before it fired or panicked.
func (o *Once[T]) Wait() (T, bool) {
	<-o.done
	return o.val, o.fired
}

// Done is closed once Wait would no longer block.
func (o *Once[T]) Done() <-chan struct{} { return o.done }

// SetHandlerOnce installs fn on Default for a single delivery. After fn runs
// the handler uninstalls itself, so a later SetHandlerOnce can succeed. It
// fails with ErrMultipleHandlers while Default has a handler installed.
func SetHandlerOnce[T any](fn func() T) (*Once[T], error) {
	return HandleOnce(Default, fn)
}

// HandleOnce is SetHandlerOnce on h.
func HandleOnce[T any](h *Handlers, fn func() T) (*Once[T], error) {
	o := &Once[T]{done: make(chan struct{})}
	once := func() bool {
		o.val = fn()
		o.fired = true
		return true
	}
	err := h.start(false, once, func() { close(o.done) }, func(s *session) { go h.serve(s) })
	if err != nil {
		return nil, err
	}
	return o, nil
}
