package capwire

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// GraphNode is one registered capability and its chosen implementation.
type GraphNode struct {
	Capability     string `json:"capability"`
	Implementation string `json:"implementation"`
}

// GraphEdge means "From depends on To".
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a diagnostic snapshot of the registry's dependency graph.
type Graph struct {
	Nodes     []GraphNode `json:"nodes"`
	Edges     []GraphEdge `json:"edges"`
	TopoOrder []string    `json:"topoOrder"`
}

// Graph builds a dependency graph snapshot of the current registrations.
// Nodes are sorted by capability name so output is stable. It fails with
// UnregisteredCapabilityError on a dangling dependency edge and with
// CircularDependencyError when the registry is cyclic; the graph here is
// walked by capability, so the cycle path names capabilities directly.
func (r *Registry) Graph() (Graph, error) {
	defs := r.snapshot()

	capabilities := lo.Keys(defs)
	sort.Slice(capabilities, func(i, j int) bool {
		return capabilities[i].String() < capabilities[j].String()
	})

	nodes := lo.Map(capabilities, func(c Capability, _ int) GraphNode {
		return GraphNode{
			Capability:     c.String(),
			Implementation: defs[c].Implementation(),
		}
	})

	edges := make([]GraphEdge, 0, len(capabilities))
	for _, c := range capabilities {
		for _, req := range defs[c].requires {
			if _, ok := defs[req]; !ok {
				return Graph{}, UnregisteredCapabilityError{Capability: req}
			}
			edges = append(edges, GraphEdge{From: c.String(), To: req.String()})
		}
	}

	topo, err := topoSort(capabilities, defs)
	if err != nil {
		return Graph{}, err
	}

	return Graph{
		Nodes: nodes,
		Edges: edges,
		TopoOrder: lo.Map(topo, func(c Capability, _ int) string {
			return c.String()
		}),
	}, nil
}

// topoSort returns capabilities in dependencies-first order.
func topoSort(order []Capability, defs map[Capability]*Descriptor) ([]Capability, error) {
	const (
		stateNew uint8 = iota
		stateVisiting
		stateDone
	)

	state := make(map[Capability]uint8, len(order))
	stack := make([]Capability, 0, len(order))
	stackPos := make(map[Capability]int, len(order))
	topo := make([]Capability, 0, len(order))

	var dfs func(c Capability) error
	dfs = func(c Capability) error {
		switch state[c] {
		case stateDone:
			return nil
		case stateVisiting:
			pos := stackPos[c]
			cycle := append([]Capability(nil), stack[pos:]...)
			cycle = append(cycle, c)
			return CircularDependencyError{Path: cycle}
		}

		state[c] = stateVisiting
		stackPos[c] = len(stack)
		stack = append(stack, c)

		for _, req := range defs[c].requires {
			if state[req] == stateVisiting {
				pos := stackPos[req]
				cycle := append([]Capability(nil), stack[pos:]...)
				cycle = append(cycle, req)
				return CircularDependencyError{Path: cycle}
			}
			if err := dfs(req); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		delete(stackPos, c)
		state[c] = stateDone
		topo = append(topo, c)
		return nil
	}

	for _, c := range order {
		if state[c] == stateDone {
			continue
		}
		if err := dfs(c); err != nil {
			return nil, err
		}
	}
	return topo, nil
}

// DOT exports Graphviz DOT text.
func (g Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph capwire {\n")
	b.WriteString("  rankdir=LR;\n")

	aliases := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		alias := fmt.Sprintf("n%d", i)
		aliases[n.Capability] = alias
		label := escapeDOT(n.Capability)
		if n.Implementation != "" {
			label = label + "\\n(" + escapeDOT(n.Implementation) + ")"
		}
		b.WriteString(fmt.Sprintf("  %s [label=\"%s\"];\n", alias, label))
	}
	for _, e := range g.Edges {
		from, okFrom := aliases[e.From]
		to, okTo := aliases[e.To]
		if !okFrom || !okTo {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s -> %s;\n", from, to))
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid exports Mermaid graph text.
func (g Graph) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	aliases := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		alias := fmt.Sprintf("n%d", i)
		aliases[n.Capability] = alias
		label := escapeMermaid(n.Capability)
		if n.Implementation != "" {
			label = label + "<br/>(" + escapeMermaid(n.Implementation) + ")"
		}
		b.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", alias, label))
	}
	for _, e := range g.Edges {
		from, okFrom := aliases[e.From]
		to, okTo := aliases[e.To]
		if !okFrom || !okTo {
			continue
		}
		b.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
	}
	return b.String()
}

func escapeDOT(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}
