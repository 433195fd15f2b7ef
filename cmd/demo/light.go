package main

import "github.com/comalice/dispatchx"

// lightState is the context shared by the traffic-light handlers.
type lightState struct {
	phaseTicks int // ticks spent in the current phase
	cycles     int // completed red phases
}

type phase struct {
	name  string
	ticks int
	next  string
}

// buildTrafficLight returns red -> green -> yellow -> red, each phase held
// for its configured number of ticks.
func buildTrafficLight(cfg Config) (dispatchx.Table[*lightState], error) {
	b := dispatchx.NewTableBuilder[*lightState]()
	phases := []phase{
		{name: "red", ticks: cfg.RedTicks, next: "green"},
		{name: "green", ticks: cfg.GreenTicks, next: "yellow"},
		{name: "yellow", ticks: cfg.YellowTicks, next: "red"},
	}
	// Reserve ids in phase order so red is state 0.
	for _, p := range phases {
		b.ID(p.name)
	}
	for _, p := range phases {
		next := b.ID(p.next)
		ticks := max(p.ticks, 1)
		name := p.name

		b.State(name).
			Entry(func(_ *dispatchx.Dispatcher[*lightState], s *lightState) {
				s.phaseTicks = 0
			}).
			Do(func(d *dispatchx.Dispatcher[*lightState], s *lightState) bool {
				s.phaseTicks++
				if s.phaseTicks >= ticks {
					_ = d.RequestTransition(next)
				}
				return true
			}).
			Exit(func(_ *dispatchx.Dispatcher[*lightState], s *lightState) {
				if name == "red" {
					s.cycles++
				}
			})
	}
	return b.Build()
}
