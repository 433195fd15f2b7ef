// Package dispatchx provides a small synchronous state dispatcher for
// control loops.
//
// A Dispatcher owns a caller-supplied table of named states. Each state has
// one Handler that is invoked with a Reason: Enter when the state becomes
// current, Do on every Step while it is current, and Exit when it is left.
// The active handler nominates the next state with RequestTransition; the
// switch happens on the following Step.
//
// # Example Usage
//
//	table := []dispatchx.State[*Plant]{
//		{Name: "Idle", Handler: dispatchx.HandlerFunc[*Plant](idle)},
//		{Name: "Heating", Handler: dispatchx.HandlerFunc[*Plant](heating)},
//	}
//	d, err := dispatchx.New(0, table, plant)
//	if err != nil {
//		return err
//	}
//	for {
//		d.Step()
//	}
//
// # Step Ordering
//
// Within one Step a pending transition runs, in order:
//  1. Exit on the current state (NullState before the first transition)
//  2. Enter on the requested state
//  3. Do on the requested state, whose result Step returns
//
// Without a pending transition only Do runs. Reset calls Exit on the current
// state, even when that is NullState, and rewinds to the initial state.
//
// # Identity
//
// States are identified by table position. Two entries with the same name
// are distinct states, and requesting the current state is not a transition.
//
// # Concurrency
//
// A Dispatcher assumes a single goroutine and adds no locking of its own.
// Run independent dispatchers per goroutine, or drive a shared one through
// realtime.Loop.
package dispatchx
