package ctrlc

import (
	"os"
	"sync"
	"testing"
	"time"
)

// fakeSource is a Source that never hooks the OS. Tests drive deliveries
// directly through table.deliver, or through the subscribed channels with send.
type fakeSource struct {
	mu      sync.Mutex
	subs    map[chan<- os.Signal][]os.Signal
	stopped map[os.Signal]int
	ignored map[os.Signal]bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		subs:    make(map[chan<- os.Signal][]os.Signal),
		stopped: make(map[os.Signal]int),
		ignored: make(map[os.Signal]bool),
	}
}

func (f *fakeSource) Notify(c chan<- os.Signal, sig ...os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[c] = append(f.subs[c], sig...)
}

func (f *fakeSource) Stop(c chan<- os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs[c] {
		f.stopped[s]++
	}
	delete(f.subs, c)
}

func (f *fakeSource) Ignored(sig os.Signal) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ignored[sig]
}

func (f *fakeSource) setIgnored(s Signal, v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ignored[s.Native().osSignal()] = v
}

// stops reports how many subscriptions for s were stopped.
func (f *fakeSource) stops(s Signal) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped[s.Native().osSignal()]
}

// send queues s on every channel subscribed to it, as os/signal does, and
// reports how many channels took it.
func (f *fakeSource) send(s Signal) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sig := s.Native().osSignal()
	n := 0
	for c, sigs := range f.subs {
		for _, want := range sigs {
			if want == sig {
				select {
				case c <- sig:
					n++
				default:
				}
			}
		}
	}
	return n
}

// newFakeTable returns a table over every supported native, wired to a fake
// source. Its emitters are closed when the test ends.
func newFakeTable(t testing.TB) (*table, *fakeSource) {
	t.Helper()
	src := newFakeSource()
	tab := newTable(src, supportedNatives)
	t.Cleanup(func() {
		for i := range tab.rows {
			if e := tab.rows[i].emitter.Load(); e != nil {
				_ = e.Close()
			}
		}
	})
	return tab, src
}

// raise delivers s as a subscription forwarder would.
func (t *table) raise(s Signal) {
	t.deliver(s.Native().osSignal())
}

const waitTimeout = 2 * time.Second

func waitFor(t testing.TB, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for %s", what)
	}
}
