// Package realtime drives a dispatcher at a fixed tick rate.
//
// The dispatcher itself is synchronous and caller-driven. A Loop owns one
// dispatcher and calls Step once per tick on its own goroutine, which is the
// usual shape of an embedded control loop:
//   - One Step per tick, no catch-up after a slow tick
//   - Transition requests and resets from other goroutines are serialised
//     with the tick, so they land between two steps
//   - A panicking handler stops the loop instead of the process
//
// # Example Usage
//
//	d := dispatchx.MustNew(0, table, plant)
//	loop := realtime.NewLoop(d, realtime.Config{
//		TickRate: 10 * time.Millisecond, // 100 Hz
//	})
//	if err := loop.Start(ctx); err != nil {
//		return err
//	}
//	defer loop.Stop()
//	loop.RequestTransition(heating)
//
// # Stopping
//
// The loop ends when its context is cancelled, when Stop is called, after
// Config.MaxTicks ticks, or, with Config.StopWhenIdle, after the first step
// whose Do handler returned false.
//
// Handlers must use the *Dispatcher they are passed. Calling Loop methods
// from inside a handler deadlocks, since the loop holds its lock for the
// whole step.
//
// # Testing
//
// Tick performs one step synchronously and needs no running goroutine, so
// tests can drive a Loop deterministically.
package realtime
