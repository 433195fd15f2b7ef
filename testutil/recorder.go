// Package testutil records handler invocations for dispatcher tests.
package testutil

import (
	"sync"

	"github.com/comalice/dispatchx"
)

// Call is one recorded handler invocation.
type Call[C any] struct {
	Seq        int
	State      string
	Reason     dispatchx.Reason
	Dispatcher *dispatchx.Dispatcher[C]
	Ctx        C
}

// Recorder hands out handlers that log every call in a shared, ordered
// journal. Safe for use from the goroutine driving a realtime loop while
// the test goroutine reads.
type Recorder[C any] struct {
	mu      sync.Mutex
	calls   []Call[C]
	results map[string]bool
}

func NewRecorder[C any]() *Recorder[C] {
	return &Recorder[C]{results: make(map[string]bool)}
}

// Handler returns a recording handler for the named state. next may be nil;
// otherwise it runs after the call is recorded and supplies the result.
func (r *Recorder[C]) Handler(name string, next dispatchx.HandlerFunc[C]) dispatchx.Handler[C] {
	return dispatchx.HandlerFunc[C](func(d *dispatchx.Dispatcher[C], reason dispatchx.Reason, ctx C) bool {
		r.mu.Lock()
		r.calls = append(r.calls, Call[C]{
			Seq:        len(r.calls),
			State:      name,
			Reason:     reason,
			Dispatcher: d,
			Ctx:        ctx,
		})
		result := r.results[name]
		r.mu.Unlock()

		if next != nil {
			return next(d, reason, ctx)
		}
		return result
	})
}

// Middleware records every handler, NullState included, under the state's
// name.
func (r *Recorder[C]) Middleware() dispatchx.Middleware[C] {
	return func(name string, next dispatchx.Handler[C]) dispatchx.Handler[C] {
		return r.Handler(name, next.Handle)
	}
}

// SetResult sets what plain recording handlers of name return.
func (r *Recorder[C]) SetResult(name string, result bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[name] = result
}

// Calls returns a copy of the journal.
func (r *Recorder[C]) Calls() []Call[C] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call[C](nil), r.calls...)
}

// CallsFor returns the calls made to one state, in order.
func (r *Recorder[C]) CallsFor(name string) []Call[C] {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call[C]
	for _, c := range r.calls {
		if c.State == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how often name was called with reason.
func (r *Recorder[C]) Count(name string, reason dispatchx.Reason) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c.State == name && c.Reason == reason {
			n++
		}
	}
	return n
}

// Trace renders the journal as "State.reason" strings.
func (r *Recorder[C]) Trace() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.State + "." + c.Reason.String()
	}
	return out
}

// Clear drops the journal but keeps configured results.
func (r *Recorder[C]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
