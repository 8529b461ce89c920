package models

import "sort"

// GraphEntry holds both directions of a function's call edges.
type GraphEntry struct {
	Dependencies []string `json:"dependencies" toon:"dependencies"`
	Dependents   []string `json:"dependents" toon:"dependents"`
	Complexity   int      `json:"complexity" toon:"complexity"`
}

// DependencyGraph maps a function name to its edges. Only functions with at
// least one edge in either direction are present.
type DependencyGraph map[string]GraphEntry

// NewDependencyGraph builds the graph view of a function registry.
func NewDependencyGraph(functions []Function) DependencyGraph {
	g := make(DependencyGraph)
	for i := range functions {
		fn := &functions[i]
		if !fn.HasEdges() {
			continue
		}
		g[fn.Name] = GraphEntry{
			Dependencies: fn.Dependencies,
			Dependents:   fn.Dependents,
			Complexity:   fn.Complexity,
		}
	}
	return g
}

// Names returns the graph's function names in sorted order.
func (g DependencyGraph) Names() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EdgeCount returns the number of caller->callee edges.
func (g DependencyGraph) EdgeCount() int {
	total := 0
	for _, entry := range g {
		total += len(entry.Dependencies)
	}
	return total
}
