package ctrlc

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies a Signal.
type Kind uint8

const (
	// KindCtrlc maps to SIGINT on Unix and CTRL_C_EVENT on Windows.
	KindCtrlc Kind = iota
	// KindTermination maps to SIGTERM on Unix and CTRL_CLOSE_EVENT on Windows.
	KindTermination
	// KindOther carries a platform-specific Native value.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindCtrlc:
		return "Ctrlc"
	case KindTermination:
		return "Termination"
	case KindOther:
		return "Other"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Native is a platform signal identifier: a POSIX signal number on Unix, a
// console control event on Windows.
type Native uint32

func (n Native) String() string { return nativeName(n) }

// Signal is a cross-platform way to name Ctrl-C, program termination, or any
// other signal the platform exposes. The zero value is Ctrlc. Signals are
// comparable.
type Signal struct {
	kind   Kind
	native Native
}

var (
	// Ctrlc is the interactive interrupt.
	Ctrlc = Signal{kind: KindCtrlc}
	// Termination is the polite request to stop.
	Termination = Signal{kind: KindTermination}
)

// Other wraps an arbitrary native signal. Whether it can be subscribed to is
// decided when a Counter or Channel is created.
func Other(n Native) Signal {
	return Signal{kind: KindOther, native: n}
}

// FromNative maps a native identifier back to a Signal. The two well-known
// natives become Ctrlc and Termination; everything else becomes Other.
func FromNative(n Native) Signal {
	switch n {
	case ctrlcNative:
		return Ctrlc
	case terminationNative:
		return Termination
	default:
		return Other(n)
	}
}

// Kind reports which variant s is.
func (s Signal) Kind() Kind { return s.kind }

// Native returns the platform identifier s stands for.
func (s Signal) Native() Native {
	switch s.kind {
	case KindCtrlc:
		return ctrlcNative
	case KindTermination:
		return terminationNative
	default:
		return s.native
	}
}

func (s Signal) String() string {
	if s.kind == KindOther {
		return fmt.Sprintf("Other(%s)", nativeName(s.native))
	}
	return s.kind.String()
}

// Supported lists every signal the registry can subscribe to on this platform.
func Supported() []Signal {
	out := make([]Signal, 0, len(supportedNatives))
	for _, n := range supportedNatives {
		out = append(out, FromNative(n))
	}
	return out
}

// ParseSignal resolves a user-supplied name: "ctrlc" or "termination", a
// platform name with or without the SIG prefix ("INT", "SIGUSR1",
// "CTRL_CLOSE_EVENT"), or a decimal native value. Matching is case
// insensitive.
func ParseSignal(name string) (Signal, error) {
	switch strings.ToLower(name) {
	case "ctrlc", "interrupt":
		return Ctrlc, nil
	case "termination":
		return Termination, nil
	}
	if n, err := strconv.ParseUint(name, 10, 32); err == nil {
		return FromNative(Native(n)), nil
	}
	upper := strings.ToUpper(name)
	for _, n := range supportedNatives {
		if full := nativeName(n); full == upper || full == "SIG"+upper {
			return FromNative(n), nil
		}
	}
	return Signal{}, fmt.Errorf("%w: %q", ErrNoSuchSignal, name)
}
