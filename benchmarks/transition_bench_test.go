// Package benchmarks provides performance benchmarks for dispatcher steps
// and transitions.
package benchmarks

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/comalice/dispatchx"
)

func BenchmarkStepNoTransition(b *testing.B) {
	d := dispatchx.MustNew(0, GenSteady(), &Counter{})
	d.Step()
	b.ReportAllocs()
	for b.Loop() {
		d.Step()
	}
}

func BenchmarkStepTransition(b *testing.B) {
	for _, n := range []int{2, 16, 256} {
		b.Run(fmt.Sprintf("states=%d", n), func(b *testing.B) {
			c := &Counter{}
			d := dispatchx.MustNew(0, GenRing(n), c)
			b.ReportAllocs()
			for b.Loop() {
				d.Step()
			}
			b.ReportMetric(float64(c.Enters)/float64(b.N), "enters/op")
		})
	}
}

func BenchmarkRequestTransition(b *testing.B) {
	d := dispatchx.MustNew(0, GenRing(8), &Counter{})
	b.ReportAllocs()
	i := 0
	for b.Loop() {
		_ = d.RequestTransition(dispatchx.StateID(i & 7))
		i++
	}
}

func BenchmarkRequestTransitionRejected(b *testing.B) {
	d := dispatchx.MustNew(0, GenRing(8), &Counter{})
	b.ReportAllocs()
	for b.Loop() {
		_ = d.RequestTransition(99)
	}
}

func BenchmarkReset(b *testing.B) {
	d := dispatchx.MustNew(0, GenRing(4), &Counter{})
	b.ReportAllocs()
	for b.Loop() {
		d.Step()
		d.Reset()
	}
}

func BenchmarkStepWithMiddleware(b *testing.B) {
	logger := slog.New(slog.DiscardHandler)
	d := dispatchx.MustNew(0, GenRing(4), &Counter{},
		dispatchx.WithMiddleware(dispatchx.LoggingMiddleware[*Counter](logger, slog.LevelDebug)),
	)
	b.ReportAllocs()
	for b.Loop() {
		d.Step()
	}
}
