// Package ctrlc observes process signals without running user code in the
// signal path.
//
// Every signal the platform exposes has one row in a process-wide registry.
// A row is owned by at most one subscriber at a time, either a Counter, which
// counts deliveries, or a Channel, which queues them for a blocking or
// non-blocking receive. Each installed row has its own forwarding goroutine,
// the only code that runs on delivery; it increments the row's counter and,
// for channels, writes the signal identifier to the row's emitter.
//
// On top of that the package offers the familiar "install one handler"
// functions: SetHandler, TrySetHandler, SetHandlerOnce and
// TrySetScopedHandler run a callback on each delivery of the configured
// signals, Ctrlc by default.
//
//	if err := ctrlc.SetHandler(func() { log.Println("interrupted") }); err != nil {
//		log.Fatal(err)
//	}
package ctrlc
