//go:build !unix && !windows

package ctrlc

import (
	"fmt"
	"os"
)

const (
	ctrlcNative       Native = 2
	terminationNative Native = 15
)

// No signal can be subscribed to on this platform.
var supportedNatives []Native

func nativeName(n Native) string { return fmt.Sprintf("signal %d", uint32(n)) }

func (n Native) osSignal() os.Signal { return nil }

func nativeOf(os.Signal) (Native, bool) { return 0, false }

func terminationSet() []Signal { return []Signal{Termination} }

func foreignDisposition(Source, os.Signal) bool { return false }
