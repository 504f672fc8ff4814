//go:build !unix && !windows

package emitter

import "errors"

// MaxWait is the number of emitters Select can multiplex. Zero means no limit.
const MaxWait = 0

// Emitter is unavailable on this platform.
type Emitter struct{}

// New always fails with errors.ErrUnsupported.
func New(id uint32) (*Emitter, error) {
	return nil, errors.ErrUnsupported
}

// Emit does nothing.
func (e *Emitter) Emit() {}

// Drain always fails with errors.ErrUnsupported.
func (e *Emitter) Drain() error { return errors.ErrUnsupported }

// Close does nothing.
func (e *Emitter) Close() error { return nil }

// Select always fails with errors.ErrUnsupported.
func Select(es []*Emitter, start int, block bool) (int, uint32, error) {
	return -1, 0, errors.ErrUnsupported
}
