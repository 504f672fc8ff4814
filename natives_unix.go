//go:build unix

package ctrlc

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	ctrlcNative       = Native(unix.SIGINT)
	terminationNative = Native(unix.SIGTERM)
)

// supportedNatives excludes SIGKILL and SIGSTOP, which cannot be caught, and
// the synchronous fault signals the Go runtime reserves for itself.
var supportedNatives = []Native{
	Native(unix.SIGHUP),
	Native(unix.SIGINT),
	Native(unix.SIGQUIT),
	Native(unix.SIGUSR1),
	Native(unix.SIGUSR2),
	Native(unix.SIGPIPE),
	Native(unix.SIGALRM),
	Native(unix.SIGTERM),
	Native(unix.SIGCHLD),
	Native(unix.SIGCONT),
	Native(unix.SIGTSTP),
	Native(unix.SIGTTIN),
	Native(unix.SIGTTOU),
	Native(unix.SIGWINCH),
	Native(unix.SIGXCPU),
	Native(unix.SIGXFSZ),
	Native(unix.SIGVTALRM),
}

var nativeNames = map[Native]string{
	Native(unix.SIGHUP):    "SIGHUP",
	Native(unix.SIGINT):    "SIGINT",
	Native(unix.SIGQUIT):   "SIGQUIT",
	Native(unix.SIGUSR1):   "SIGUSR1",
	Native(unix.SIGUSR2):   "SIGUSR2",
	Native(unix.SIGPIPE):   "SIGPIPE",
	Native(unix.SIGALRM):   "SIGALRM",
	Native(unix.SIGTERM):   "SIGTERM",
	Native(unix.SIGCHLD):   "SIGCHLD",
	Native(unix.SIGCONT):   "SIGCONT",
	Native(unix.SIGTSTP):   "SIGTSTP",
	Native(unix.SIGTTIN):   "SIGTTIN",
	Native(unix.SIGTTOU):   "SIGTTOU",
	Native(unix.SIGWINCH):  "SIGWINCH",
	Native(unix.SIGXCPU):   "SIGXCPU",
	Native(unix.SIGXFSZ):   "SIGXFSZ",
	Native(unix.SIGVTALRM): "SIGVTALRM",
}

func nativeName(n Native) string {
	if name, ok := nativeNames[n]; ok {
		return name
	}
	return fmt.Sprintf("signal %d", uint32(n))
}

func (n Native) osSignal() os.Signal { return syscall.Signal(n) }

func nativeOf(s os.Signal) (Native, bool) {
	sig, ok := s.(syscall.Signal)
	if !ok || sig < 0 {
		return 0, false
	}
	return Native(sig), true
}

// terminationSet is what WithTermination adds to a handler's signals.
func terminationSet() []Signal {
	return []Signal{Termination, Other(Native(unix.SIGHUP))}
}

// foreignDisposition reports whether sig is bound to something other than the
// OS default. Go only exposes the ignored disposition.
func foreignDisposition(src Source, sig os.Signal) bool {
	return src.Ignored(sig)
}
