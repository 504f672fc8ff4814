// Package emitter implements the notification primitive that carries a signal
// from the delivery path to a waiting receiver: a non-blocking self-pipe on
// Unix and a counting semaphore on Windows.
//
// Emit is the only method the delivery path may call. It never blocks and
// silently drops the notification when the underlying resource is saturated,
// since a saturated emitter already has a pending wake-up for its receiver.
package emitter

import (
	"encoding/binary"
	"errors"
)

// IDSize is the length in bytes of one encoded delivery.
const IDSize = 4

var (
	// ErrEmpty is returned by a non-blocking Select when nothing is pending.
	ErrEmpty = errors.New("emitter: nothing pending")
	// ErrNoEmitters is returned when Select is given an empty set.
	ErrNoEmitters = errors.New("emitter: no emitters to select")
)

// Encode writes id into dst as a little-endian uint32.
func Encode(dst *[IDSize]byte, id uint32) {
	binary.LittleEndian.PutUint32(dst[:], id)
}

// Decode is the inverse of Encode.
func Decode(src *[IDSize]byte) uint32 {
	return binary.LittleEndian.Uint32(src[:])
}

// normalize maps start onto [0, n).
func normalize(start, n int) int {
	start %= n
	if start < 0 {
		start += n
	}
	return start
}
