package depgraph

import (
	"maps"
	"slices"
)

type set map[string]struct{}

// Pair is one dependency edge: Dependent's value depends on Dependee.
type Pair struct {
	Dependee  string
	Dependent string
}

// Graph is a set of (dependee, dependent) pairs indexed in both directions.
//
// The zero value is not usable; use New.
type Graph struct {
	dependents map[string]set // dependee -> dependents
	dependees  map[string]set // dependent -> dependees
	size       int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		dependents: make(map[string]set),
		dependees:  make(map[string]set),
	}
}

// Size returns the number of distinct pairs.
func (g *Graph) Size() int { return g.size }

// HasDependents reports whether any node depends on node.
func (g *Graph) HasDependents(node string) bool { return len(g.dependents[node]) > 0 }

// HasDependees reports whether node depends on any node.
func (g *Graph) HasDependees(node string) bool { return len(g.dependees[node]) > 0 }

// Dependents returns the nodes that depend on node, sorted.
// Unknown nodes have no dependents.
func (g *Graph) Dependents(node string) []string { return sortedKeys(g.dependents[node]) }

// Dependees returns the nodes that node depends on, sorted.
func (g *Graph) Dependees(node string) []string { return sortedKeys(g.dependees[node]) }

// AddDependency records that dependent depends on dependee.
// Adding a pair that is already present does nothing.
func (g *Graph) AddDependency(dependee, dependent string) {
	if _, ok := g.dependents[dependee][dependent]; ok {
		return
	}
	link(g.dependents, dependee, dependent)
	link(g.dependees, dependent, dependee)
	g.size++
}

// RemoveDependency removes the pair if present.
func (g *Graph) RemoveDependency(dependee, dependent string) {
	if _, ok := g.dependents[dependee][dependent]; !ok {
		return
	}
	unlink(g.dependents, dependee, dependent)
	unlink(g.dependees, dependent, dependee)
	g.size--
}

// ReplaceDependents makes newDependents the exact set of nodes depending on
// node. Pairs shared by the old and new sets are left alone.
func (g *Graph) ReplaceDependents(node string, newDependents []string) {
	want := toSet(newDependents)
	for _, old := range g.Dependents(node) {
		if _, keep := want[old]; !keep {
			g.RemoveDependency(node, old)
		}
	}
	for _, dep := range newDependents {
		g.AddDependency(node, dep)
	}
}

// ReplaceDependees makes newDependees the exact set of nodes that node
// depends on.
func (g *Graph) ReplaceDependees(node string, newDependees []string) {
	want := toSet(newDependees)
	for _, old := range g.Dependees(node) {
		if _, keep := want[old]; !keep {
			g.RemoveDependency(old, node)
		}
	}
	for _, dep := range newDependees {
		g.AddDependency(dep, node)
	}
}

// Pairs returns every pair, sorted by dependee then dependent.
func (g *Graph) Pairs() []Pair {
	pairs := make([]Pair, 0, g.size)
	for _, dependee := range sortedKeys(g.dependents) {
		for _, dependent := range sortedKeys(g.dependents[dependee]) {
			pairs = append(pairs, Pair{Dependee: dependee, Dependent: dependent})
		}
	}
	return pairs
}

// Nodes returns every node that appears in at least one pair, sorted.
func (g *Graph) Nodes() []string {
	all := make(set, len(g.dependents)+len(g.dependees))
	for n := range g.dependents {
		all[n] = struct{}{}
	}
	for n := range g.dependees {
		all[n] = struct{}{}
	}
	return sortedKeys(all)
}

func link(m map[string]set, from, to string) {
	s, ok := m[from]
	if !ok {
		s = make(set)
		m[from] = s
	}
	s[to] = struct{}{}
}

func unlink(m map[string]set, from, to string) {
	s := m[from]
	delete(s, to)
	if len(s) == 0 {
		delete(m, from)
	}
}

func toSet(items []string) set {
	s := make(set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
