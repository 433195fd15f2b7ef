package production

import (
	"sort"
	"sync"

	"github.com/comalice/dispatchx"
)

// Edge is an observed transition between two states.
type Edge struct {
	FromID dispatchx.StateID `json:"fromID" yaml:"fromID"`
	From   string            `json:"from" yaml:"from"`
	ToID   dispatchx.StateID `json:"toID" yaml:"toID"`
	To     string            `json:"to" yaml:"to"`
	Count  uint64            `json:"count" yaml:"count"`
}

type edgeKey struct {
	from, to dispatchx.StateID
}

// GraphRecorder is a publisher that accumulates the transitions it sees.
// Dispatchers have no static transition graph, so this is how a chart
// learns its edges.
type GraphRecorder struct {
	mu    sync.Mutex
	edges map[edgeKey]*Edge
}

func NewGraphRecorder() *GraphRecorder {
	return &GraphRecorder{edges: make(map[edgeKey]*Edge)}
}

func (g *GraphRecorder) Publish(t dispatchx.Transition) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := edgeKey{from: t.FromID, to: t.ToID}
	e, ok := g.edges[k]
	if !ok {
		e = &Edge{FromID: t.FromID, From: t.From, ToID: t.ToID, To: t.To}
		g.edges[k] = e
	}
	e.Count++
	return nil
}

// Edges returns a copy of the observed edges ordered by source then target.
func (g *GraphRecorder) Edges() []Edge {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FromID != out[j].FromID {
			return out[i].FromID < out[j].FromID
		}
		return out[i].ToID < out[j].ToID
	})
	return out
}
