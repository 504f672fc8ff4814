package ctrlc

import "golang.org/x/sync/errgroup"

// SetHandler installs fn on Default. See Handlers.SetHandler.
func SetHandler(fn func()) error { return Default.SetHandler(fn) }

// TrySetHandler installs fn on Default unless a handler is already set.
func TrySetHandler(fn func()) error { return Default.TrySetHandler(fn) }

// TrySetScopedHandler runs the Default handler loop inside g.
func TrySetScopedHandler(g *errgroup.Group, fn func() bool) error {
	return Default.TrySetScopedHandler(g, fn)
}

// RemoveAllHandlers removes the handler installed on Default.
func RemoveAllHandlers() error { return Default.RemoveAllHandlers() }

// SetConfig replaces the configuration of Default. Safe for concurrent use;
// it applies from the next install.
func SetConfig(cfg *Config) { Default.SetConfig(cfg) }
