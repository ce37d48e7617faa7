// Package graph resolves member dependency closures within a single class
// and exposes the member dependency graph for inspection.
package graph

import (
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/phobologic/extractclass/internal/model"
)

// TransitiveDependencies returns every member name reachable from name
// through DependencyNames, in discovery order. name itself is included
// only when a cycle leads back to it.
func TransitiveDependencies(c model.Class, name string) ([]string, error) {
	start, err := c.Member(name)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]struct{})
	var order []string
	queue := start.DependencyNames()

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, seen := visited[next]; seen {
			continue
		}
		visited[next] = struct{}{}
		order = append(order, next)

		m, err := c.Member(next)
		if err != nil {
			return nil, fmt.Errorf("resolving dependencies of %q: %w", name, err)
		}
		queue = append(queue, m.DependencyNames()...)
	}

	return order, nil
}

// Closure returns names followed by their transitive dependencies,
// deduplicated.
func Closure(c model.Class, names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	var out []string
	add := func(n string) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	for _, n := range names {
		add(n)
	}
	for _, n := range names {
		deps, err := TransitiveDependencies(c, n)
		if err != nil {
			return nil, err
		}
		for _, d := range deps {
			add(d)
		}
	}
	return out, nil
}

// Build returns the member dependency graph of c: one vertex per member and
// an edge from each member to every member it depends on.
func Build(c model.Class) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())

	members := c.Members()
	for _, m := range members {
		attrs := []func(*graph.VertexProperties){
			graph.VertexAttribute("shape", shapeFor(m.Kind())),
		}
		if m.IsPrivate() {
			attrs = append(attrs, graph.VertexAttribute("style", "dashed"))
		}
		if err := g.AddVertex(m.Name(), attrs...); err != nil {
			return nil, fmt.Errorf("adding member %s: %w", m.Name(), err)
		}
	}

	for _, m := range members {
		for _, dep := range m.DependencyNames() {
			if err := g.AddEdge(m.Name(), dep); err != nil {
				return nil, fmt.Errorf("adding edge %s -> %s: %w", m.Name(), dep, err)
			}
		}
	}

	return g, nil
}

// Cycles returns the groups of members that depend on each other,
// including members that reference themselves.
func Cycles(c model.Class) ([][]string, error) {
	g, err := Build(c)
	if err != nil {
		return nil, err
	}
	sccs, err := graph.StronglyConnectedComponents(g)
	if err != nil {
		return nil, err
	}

	var cycles [][]string
	for _, scc := range sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
			continue
		}
		if _, err := g.Edge(scc[0], scc[0]); err == nil {
			cycles = append(cycles, scc)
		}
	}
	return cycles, nil
}

// WriteDOT renders the member dependency graph of c in DOT format.
func WriteDOT(c model.Class, w io.Writer) error {
	g, err := Build(c)
	if err != nil {
		return err
	}
	return draw.DOT(g, w, draw.GraphAttribute("label", c.Name()))
}

func shapeFor(kind model.MemberKind) string {
	switch kind {
	case model.KindMethod:
		return "box"
	case model.KindConstructorParameter:
		return "diamond"
	default:
		return "ellipse"
	}
}
