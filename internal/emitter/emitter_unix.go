//go:build unix

package emitter

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/sys/unix"
)

// MaxWait is the number of emitters Select can multiplex. Zero means no limit.
const MaxWait = 0

// Emitter is a self-pipe. Both ends are non-blocking and close-on-exec so a
// write from the delivery path can never stall and the descriptors never leak
// into child processes.
type Emitter struct {
	id uint32
	r  int
	w  int
}

// New creates the pipe pair for the signal identified by id.
func New(id uint32) (*Emitter, error) {
	var p [2]int

	// Hold ForkLock so no fork observes the descriptors before FD_CLOEXEC is set.
	syscall.ForkLock.RLock()
	err := unix.Pipe(p[:])
	if err == nil {
		err = setCloexec(p)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}

	for _, fd := range p {
		if err := unix.SetNonblock(fd, true); err != nil {
			_ = unix.Close(p[0])
			_ = unix.Close(p[1])
			return nil, fmt.Errorf("set nonblock: %w", err)
		}
	}
	return &Emitter{id: id, r: p[0], w: p[1]}, nil
}

func setCloexec(p [2]int) error {
	for _, fd := range p {
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
			_ = unix.Close(p[0])
			_ = unix.Close(p[1])
			return err
		}
	}
	return nil
}

// Emit writes the encoded identifier into the pipe. Failures are ignored:
// EAGAIN means the pipe is full and the receiver is already behind.
func (e *Emitter) Emit() {
	var buf [IDSize]byte
	Encode(&buf, e.id)
	_, _ = unix.Write(e.w, buf[:])
}

// Drain discards every pending delivery.
func (e *Emitter) Drain() error {
	for {
		_, ok, err := e.take()
		if err != nil || !ok {
			return err
		}
	}
}

// Close releases both descriptors.
func (e *Emitter) Close() error {
	werr := unix.Close(e.w)
	rerr := unix.Close(e.r)
	return errors.Join(werr, rerr)
}

// take consumes exactly one pending delivery and reports false if the pipe
// is empty.
func (e *Emitter) take() (uint32, bool, error) {
	var buf [IDSize]byte
	got := 0
	for got < IDSize {
		n, err := unix.Read(e.r, buf[got:])
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
			if got == 0 {
				return 0, false, nil
			}
			// A write of IDSize bytes is atomic, so the remainder is in flight.
			continue
		case err != nil:
			return 0, false, err
		case n == 0:
			return 0, false, io.ErrUnexpectedEOF
		}
		got += n
	}
	return Decode(&buf), true, nil
}

// Select waits until one of es has a pending delivery, consumes it and
// returns the emitter's index and the decoded identifier. Ready emitters are
// scanned starting at start. With block false Select polls once and returns
// ErrEmpty if nothing is pending. Interrupted waits are retried.
func Select(es []*Emitter, start int, block bool) (int, uint32, error) {
	if len(es) == 0 {
		return -1, 0, ErrNoEmitters
	}
	start = normalize(start, len(es))

	timeout := 0
	if block {
		timeout = -1
	}
	fds := make([]unix.PollFd, len(es))
	for {
		for i, e := range es {
			fds[i] = unix.PollFd{Fd: int32(e.r), Events: unix.POLLIN}
		}
		n, err := unix.Poll(fds, timeout)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return -1, 0, fmt.Errorf("poll: %w", err)
		}
		if n > 0 {
			for k := range es {
				i := (start + k) % len(es)
				if fds[i].Revents == 0 {
					continue
				}
				id, ok, err := es[i].take()
				if err != nil {
					return -1, 0, fmt.Errorf("read: %w", err)
				}
				if ok {
					return i, id, nil
				}
			}
		}
		// Either the poll timed out or a concurrent receiver won the read.
		if !block {
			return -1, 0, ErrEmpty
		}
	}
}
