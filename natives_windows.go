//go:build windows

package ctrlc

import (
	"fmt"
	"os"
	"syscall"
)

// Console control events, from wincon.h.
const (
	ctrlCEvent        Native = 0
	ctrlBreakEvent    Native = 1
	ctrlCloseEvent    Native = 2
	ctrlLogoffEvent   Native = 5
	ctrlShutdownEvent Native = 6
)

const (
	ctrlcNative       = ctrlCEvent
	terminationNative = ctrlCloseEvent
)

// The Go runtime folds CTRL_BREAK_EVENT into os.Interrupt and the logoff and
// shutdown events into SIGTERM, so only one event of each pair is addressable.
var supportedNatives = []Native{ctrlCEvent, ctrlCloseEvent}

func nativeName(n Native) string {
	switch n {
	case ctrlCEvent:
		return "CTRL_C_EVENT"
	case ctrlBreakEvent:
		return "CTRL_BREAK_EVENT"
	case ctrlCloseEvent:
		return "CTRL_CLOSE_EVENT"
	case ctrlLogoffEvent:
		return "CTRL_LOGOFF_EVENT"
	case ctrlShutdownEvent:
		return "CTRL_SHUTDOWN_EVENT"
	default:
		return fmt.Sprintf("event %d", uint32(n))
	}
}

func (n Native) osSignal() os.Signal {
	switch n {
	case ctrlCEvent:
		return os.Interrupt
	case ctrlCloseEvent:
		return syscall.SIGTERM
	default:
		return nil
	}
}

func nativeOf(s os.Signal) (Native, bool) {
	switch s {
	case os.Interrupt:
		return ctrlCEvent, true
	case syscall.SIGTERM:
		return ctrlCloseEvent, true
	default:
		return 0, false
	}
}

func terminationSet() []Signal {
	return []Signal{Termination}
}

// foreignDisposition is always false on Windows: console handlers stack, and
// the row install flag alone enforces a single owner.
func foreignDisposition(Source, os.Signal) bool {
	return false
}
