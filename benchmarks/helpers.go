// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"github.com/comalice/dispatchx"
	"github.com/comalice/dispatchx/internal/production"
)

// Counter is the benchmark context; handlers bump it so work is not
// optimised away.
type Counter struct {
	Enters, Dos, Exits int
}

// GenRing creates n states where every Do requests the following state, so
// each Step after the first performs a full exit/enter transition.
func GenRing(n int) []dispatchx.State[*Counter] {
	if n < 1 {
		n = 1
	}
	table := make([]dispatchx.State[*Counter], n)
	for i := range table {
		next := dispatchx.StateID((i + 1) % n)
		table[i] = dispatchx.State[*Counter]{
			Name: fmt.Sprintf("s%d", i),
			Handler: dispatchx.HandlerFunc[*Counter](func(d *dispatchx.Dispatcher[*Counter], r dispatchx.Reason, c *Counter) bool {
				switch r {
				case dispatchx.Enter:
					c.Enters++
				case dispatchx.Do:
					c.Dos++
					_ = d.RequestTransition(next)
				case dispatchx.Exit:
					c.Exits++
				}
				return true
			}),
		}
	}
	return table
}

// GenSteady creates a single state that never requests a transition.
func GenSteady() []dispatchx.State[*Counter] {
	return []dispatchx.State[*Counter]{{
		Name: "steady",
		Handler: dispatchx.HandlerFunc[*Counter](func(_ *dispatchx.Dispatcher[*Counter], r dispatchx.Reason, c *Counter) bool {
			if r == dispatchx.Do {
				c.Dos++
			}
			return true
		}),
	}}
}

// GenChartYAML runs a ring of n states for 2n steps and exports its chart.
func GenChartYAML(n int) []byte {
	graph := production.NewGraphRecorder()
	d := dispatchx.MustNew(0, GenRing(n), &Counter{}, dispatchx.WithPublisher[*Counter](graph))
	for range 2 * n {
		d.Step()
	}
	data, err := (&production.DefaultVisualizer{}).ExportYAML(production.NewChart(d, graph))
	if err != nil {
		panic(err)
	}
	return data
}
