// Package exampletest builds an example program and drives it with signals
// from its tests.
package exampletest

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Timeout bounds the whole run of one program.
const Timeout = 10 * time.Second

// Proc is a running example program.
type Proc struct {
	t      testing.TB
	cmd    *exec.Cmd
	lines  *bufio.Scanner
	stderr bytes.Buffer
}

// SkipIfInterruptIgnored skips t when SIGINT is ignored by this process and
// would therefore be ignored by the children it starts.
func SkipIfInterruptIgnored(t testing.TB) {
	t.Helper()
	if signal.Ignored(os.Interrupt) {
		t.Skip("os.Interrupt is ignored in this environment")
	}
}

// Start builds the package in the current directory and runs it with args.
func Start(t testing.TB, args ...string) *Proc {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "example")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	out, err := exec.Command("go", "build", "-o", bin, ".").CombinedOutput()
	require.NoError(t, err, "build failed:\n%s", out)

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	t.Cleanup(cancel)

	p := &Proc{t: t, cmd: exec.CommandContext(ctx, bin, args...)}
	p.cmd.Stderr = &p.stderr
	stdout, err := p.cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, p.cmd.Start())
	p.lines = bufio.NewScanner(stdout)
	return p
}

// Line returns the next line of output.
func (p *Proc) Line() string {
	p.t.Helper()
	require.True(p.t, p.lines.Scan(), "output ended early; stderr:\n%s", p.stderr.String())
	return p.lines.Text()
}

// Expect reads lines until one contains want.
func (p *Proc) Expect(want string) {
	p.t.Helper()
	for {
		if strings.Contains(p.Line(), want) {
			return
		}
	}
}

// Signal sends sig to the program.
func (p *Proc) Signal(sig os.Signal) {
	p.t.Helper()
	require.NoError(p.t, p.cmd.Process.Signal(sig))
}

// Wait requires the program to exit cleanly.
func (p *Proc) Wait() {
	p.t.Helper()
	for p.lines.Scan() {
	}
	require.NoError(p.t, p.cmd.Wait(), "stderr:\n%s", p.stderr.String())
}
