package benchmarks

import (
	"context"
	"testing"
	"time"

	"github.com/comalice/dispatchx"
	"github.com/comalice/dispatchx/realtime"
)

// BenchmarkLoopTick measures one synchronous tick including the loop lock.
func BenchmarkLoopTick(b *testing.B) {
	loop := realtime.NewLoop(dispatchx.MustNew(0, GenRing(4), &Counter{}), realtime.Config{})
	b.ReportAllocs()
	for b.Loop() {
		loop.Tick()
	}
}

// BenchmarkLoopRequestWhileRunning measures request latency against a loop
// ticking every millisecond on another goroutine.
func BenchmarkLoopRequestWhileRunning(b *testing.B) {
	loop := realtime.NewLoop(dispatchx.MustNew(0, GenSteady(), &Counter{}), realtime.Config{TickRate: time.Millisecond})
	if err := loop.Start(context.Background()); err != nil {
		b.Fatal(err)
	}
	defer loop.Stop()

	b.ReportAllocs()
	for b.Loop() {
		_ = loop.RequestTransition(0)
	}
}

// BenchmarkLoopTickRate reports how closely the loop keeps its tick rate.
func BenchmarkLoopTickRate(b *testing.B) {
	const rate = time.Millisecond
	for b.Loop() {
		loop := realtime.NewLoop(dispatchx.MustNew(0, GenSteady(), &Counter{}), realtime.Config{
			TickRate: rate,
			MaxTicks: 20,
		})
		start := time.Now()
		if err := loop.Start(context.Background()); err != nil {
			b.Fatal(err)
		}
		<-loop.Done()
		b.ReportMetric(float64(time.Since(start))/float64(20*rate), "actual/ideal")
	}
}
