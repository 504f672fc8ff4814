// Command sigwait blocks until the process receives the given signals and
// reports each delivery on stdout.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	ctrlc "github.com/srozzo/go-ctrlc"
)

func main() {
	if err := rootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	signals []string
	count   int
	mode    string
	poll    time.Duration
	verbose bool
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "sigwait",
		Short: "Wait for process signals",
		Long: `Wait for process signals and print one line per delivery.

Signals are named as "ctrlc", "termination", a platform name with or
without the SIG prefix, or a native number.`,
		Example: `  # Exit after the first Ctrl-C
  sigwait

  # Print the next three SIGUSR1 or SIGUSR2 deliveries
  sigwait -s USR1 -s USR2 -n 3

  # Count SIGHUP until interrupted
  sigwait -s HUP -n 0 --mode counter`,
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			return run(c, opts)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringSliceVarP(&opts.signals, "signal", "s", []string{"ctrlc"}, "signal to wait for (repeatable)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "exit after this many deliveries, 0 waits forever")
	cmd.Flags().StringVar(&opts.mode, "mode", "channel", "delivery mode: channel, counter or handler")
	cmd.Flags().DurationVar(&opts.poll, "poll", 50*time.Millisecond, "poll interval in counter mode")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log library events to stderr")

	return cmd
}

func run(c *cobra.Command, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(c.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	ctrlc.SetLogger(log)

	sigs := make([]ctrlc.Signal, 0, len(opts.signals))
	for _, name := range opts.signals {
		s, err := ctrlc.ParseSignal(name)
		if err != nil {
			return err
		}
		sigs = append(sigs, s)
	}
	if opts.count < 0 {
		return fmt.Errorf("--count must not be negative, got %d", opts.count)
	}

	out := c.OutOrStdout()
	switch opts.mode {
	case "channel":
		return waitChannel(out, sigs, opts.count)
	case "counter":
		if opts.poll <= 0 {
			return fmt.Errorf("--poll must be positive, got %s", opts.poll)
		}
		return waitCounter(out, sigs, opts.count, opts.poll)
	case "handler":
		return waitHandler(out, log, sigs, opts.count)
	default:
		return fmt.Errorf("unknown mode %q", opts.mode)
	}
}

func waitChannel(out io.Writer, sigs []ctrlc.Signal, count int) error {
	ch, err := ctrlc.NewChannel(sigs...)
	if err != nil {
		return err
	}
	defer ch.Close()

	fmt.Fprintf(out, "waiting for %v\n", ch.Signals())
	for n := 0; count == 0 || n < count; n++ {
		s, err := ch.Recv()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "received %v\n", s)
	}
	return nil
}

func waitCounter(out io.Writer, sigs []ctrlc.Signal, count int, poll time.Duration) error {
	counters := make([]*ctrlc.Counter, 0, len(sigs))
	defer func() {
		for _, c := range counters {
			c.Close()
		}
	}()
	last := make([]uint64, 0, len(sigs))
	for _, s := range sigs {
		c, err := ctrlc.NewCounter(s)
		if err != nil {
			return err
		}
		counters = append(counters, c)
		last = append(last, c.Get())
	}

	fmt.Fprintf(out, "waiting for %v\n", sigs)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	seen := 0
	for range ticker.C {
		for i, c := range counters {
			v := c.Get()
			for ; last[i] < v; last[i]++ {
				fmt.Fprintf(out, "received %v (total %d)\n", c.Signal(), last[i]+1)
				seen++
				if count > 0 && seen >= count {
					return nil
				}
			}
		}
	}
	return nil
}

func waitHandler(out io.Writer, log *slog.Logger, sigs []ctrlc.Signal, count int) error {
	h := ctrlc.NewHandlers(ctrlc.WithSignals(sigs...), ctrlc.WithLogger(log))
	done := make(chan struct{})
	seen := 0
	err := h.SetHandler(func() {
		seen++
		fmt.Fprintf(out, "received signal %d\n", seen)
		if count > 0 && seen == count {
			close(done)
		}
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "waiting for %v\n", h.Config().Signals)
	<-done
	return h.RemoveAllHandlers()
}
