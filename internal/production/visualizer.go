package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/dispatchx"
)

// Describer is the read-only view of a dispatcher a chart is built from.
// *dispatchx.Dispatcher[C] satisfies it for every C.
type Describer interface {
	ID() string
	Len() int
	NameOf(id dispatchx.StateID) string
	InitialID() dispatchx.StateID
	CurrentID() dispatchx.StateID
}

// ChartState is one node of a Chart.
type ChartState struct {
	ID      dispatchx.StateID `json:"id" yaml:"id"`
	Name    string            `json:"name" yaml:"name"`
	Initial bool              `json:"initial,omitempty" yaml:"initial,omitempty"`
	Active  bool              `json:"active,omitempty" yaml:"active,omitempty"`
}

// Chart is a serialisable picture of a dispatcher's table, cursor and
// observed transitions.
type Chart struct {
	MachineID string            `json:"machineID" yaml:"machineID"`
	Initial   dispatchx.StateID `json:"initial" yaml:"initial"`
	Current   dispatchx.StateID `json:"current" yaml:"current"`
	States    []ChartState      `json:"states" yaml:"states"`
	Edges     []Edge            `json:"edges,omitempty" yaml:"edges,omitempty"`
}

// NewChart snapshots d. graph may be nil.
func NewChart(d Describer, graph *GraphRecorder) Chart {
	c := Chart{
		MachineID: d.ID(),
		Initial:   d.InitialID(),
		Current:   d.CurrentID(),
		States:    make([]ChartState, d.Len()),
	}
	for i := range c.States {
		id := dispatchx.StateID(i)
		c.States[i] = ChartState{
			ID:      id,
			Name:    d.NameOf(id),
			Initial: id == c.Initial,
			Active:  id == c.Current,
		}
	}
	if graph != nil {
		c.Edges = graph.Edges()
	}
	return c
}

// DefaultVisualizer renders charts as Graphviz DOT, JSON or YAML.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the chart. The active state
// is highlighted; NullState is drawn as a point feeding the initial state.
func (v *DefaultVisualizer) ExportDOT(c Chart) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Dispatcher {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")
	fmt.Fprintf(&buf, "  label=\"%s\";\n", escapeDOT(c.MachineID))

	nullStyle := ""
	if c.Current == dispatchx.NullStateID {
		nullStyle = " style=filled fillcolor=lightgreen"
	}
	fmt.Fprintf(&buf, "  \"null\" [label=\"%s\" shape=point%s];\n", dispatchx.NullStateName, nullStyle)

	for _, s := range c.States {
		style := ""
		if s.Active {
			style = " style=\"rounded,filled\" fillcolor=lightgreen"
		}
		if s.Initial {
			style += " peripheries=2"
		}
		fmt.Fprintf(&buf, "  %s [label=\"%s\"%s];\n", nodeID(s.ID), escapeDOT(s.Name), style)
	}

	fmt.Fprintf(&buf, "  \"null\" -> %s [style=dashed];\n", nodeID(c.Initial))
	for _, e := range c.Edges {
		fmt.Fprintf(&buf, "  %s -> %s [label=\"%d\"];\n", nodeID(e.FromID), nodeID(e.ToID), e.Count)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the chart to indented JSON.
func (v *DefaultVisualizer) ExportJSON(c Chart) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// ExportYAML serializes the chart to YAML.
func (v *DefaultVisualizer) ExportYAML(c Chart) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// Export renders the chart in the named format: dot, json or yaml.
func (v *DefaultVisualizer) Export(c Chart, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "dot", "":
		return []byte(v.ExportDOT(c)), nil
	case "json":
		return v.ExportJSON(c)
	case "yaml", "yml":
		return v.ExportYAML(c)
	default:
		return nil, fmt.Errorf("unknown chart format %q", format)
	}
}

func nodeID(id dispatchx.StateID) string {
	if id == dispatchx.NullStateID {
		return `"null"`
	}
	return fmt.Sprintf(`"s%d"`, id)
}

func escapeDOT(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
