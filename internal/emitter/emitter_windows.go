//go:build windows

package emitter

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// MaxWait is MAXIMUM_WAIT_OBJECTS, the handle limit of WaitForMultipleObjects.
const MaxWait = 64

// maxCount bounds the semaphore. Releases beyond it fail and are ignored.
const maxCount = 65535

var (
	modkernel32          = windows.NewLazySystemDLL("kernel32.dll")
	procCreateSemaphoreW = modkernel32.NewProc("CreateSemaphoreW")
	procReleaseSemaphore = modkernel32.NewProc("ReleaseSemaphore")
)

// Emitter is an unnamed counting semaphore. Each unit is one delivery.
type Emitter struct {
	id  uint32
	sem windows.Handle
}

// New creates the semaphore for the console event identified by id.
func New(id uint32) (*Emitter, error) {
	if err := procCreateSemaphoreW.Find(); err != nil {
		return nil, fmt.Errorf("load CreateSemaphoreW: %w", err)
	}
	r, _, callErr := procCreateSemaphoreW.Call(0, 0, maxCount, 0)
	if r == 0 {
		return nil, fmt.Errorf("CreateSemaphoreW: %w", callErr)
	}
	return &Emitter{id: id, sem: windows.Handle(r)}, nil
}

// Emit releases one unit. Overflow past maxCount is ignored.
func (e *Emitter) Emit() {
	_, _, _ = procReleaseSemaphore.Call(uintptr(e.sem), 1, 0)
}

// Drain takes every pending unit without blocking.
func (e *Emitter) Drain() error {
	for {
		ev, err := windows.WaitForSingleObject(e.sem, 0)
		if err != nil {
			return fmt.Errorf("WaitForSingleObject: %w", err)
		}
		if ev != windows.WAIT_OBJECT_0 {
			return nil
		}
	}
}

// Close releases the semaphore handle.
func (e *Emitter) Close() error {
	return windows.CloseHandle(e.sem)
}

// Select waits until one of es is signalled, takes one unit from it and
// returns its index and identifier. Handles are passed to the wait rotated by
// start, so the lowest-index preference of WaitForMultipleObjects begins at
// start. With block false the wait has a zero timeout and ErrEmpty is
// returned when nothing is pending.
func Select(es []*Emitter, start int, block bool) (int, uint32, error) {
	n := len(es)
	if n == 0 {
		return -1, 0, ErrNoEmitters
	}
	if n > MaxWait {
		return -1, 0, fmt.Errorf("emitter: %d handles exceeds wait limit %d", n, MaxWait)
	}
	start = normalize(start, n)

	handles := make([]windows.Handle, n)
	for k := range handles {
		handles[k] = es[(start+k)%n].sem
	}
	timeout := uint32(0)
	if block {
		timeout = windows.INFINITE
	}

	ev, err := windows.WaitForMultipleObjects(handles, false, timeout)
	switch {
	case err != nil:
		return -1, 0, fmt.Errorf("WaitForMultipleObjects: %w", err)
	case ev == uint32(windows.WAIT_TIMEOUT):
		return -1, 0, ErrEmpty
	case ev-windows.WAIT_OBJECT_0 < uint32(n):
		i := (start + int(ev-windows.WAIT_OBJECT_0)) % n
		return i, es[i].id, nil
	default:
		return -1, 0, fmt.Errorf("WaitForMultipleObjects: unexpected return value %#x", ev)
	}
}
