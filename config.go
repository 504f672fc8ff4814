package ctrlc

import "log/slog"

// Config is the configuration of a Handlers. The zero value handles Ctrlc
// and logs through the package logger.
type Config struct {
	// Signals is the set a handler is installed for. Empty means {Ctrlc}.
	Signals []Signal

	// Logger receives handler lifecycle events. Nil means the package logger.
	Logger *slog.Logger
}

func (c *Config) signals() []Signal {
	if len(c.Signals) == 0 {
		return []Signal{Ctrlc}
	}
	return c.Signals
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger()
}

// SetConfig replaces the configuration of h. It takes effect at the next
// install; a handler that is already running keeps its signals. Nil clears
// the configuration. Safe for concurrent use.
func (h *Handlers) SetConfig(cfg *Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cfg == nil {
		h.cfg = Config{}
		return
	}
	h.cfg = Config{
		Signals: append([]Signal(nil), cfg.Signals...),
		Logger:  cfg.Logger,
	}
}

// Config returns a copy of the current configuration of h.
func (h *Handlers) Config() Config {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Config{
		Signals: append([]Signal(nil), h.cfg.Signals...),
		Logger:  h.cfg.Logger,
	}
}
