// Package depgraph builds the call-dependency graph between the functions of
// one source text and scores each function body.
package depgraph

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/modsplit/pkg/models"
	"github.com/panbanda/modsplit/pkg/parser"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Builder cross-references function bodies against the function registry.
// It holds only immutable configuration and is safe for concurrent use.
type Builder struct {
	globals  *SymbolMatcher
	platform []string
}

// Option is a functional option for configuring Builder.
type Option func(*Builder)

// WithGlobalSymbols sets the names that mark a body as touching global state.
func WithGlobalSymbols(symbols []string) Option {
	return func(b *Builder) {
		b.globals = NewSymbolMatcher(symbols)
	}
}

// WithPlatformPatterns sets the substrings that mark a body as using the
// host platform API (element lookup, events, markup, style).
func WithPlatformPatterns(patterns []string) Option {
	return func(b *Builder) {
		b.platform = patterns
	}
}

// New creates a graph builder.
func New(opts ...Option) *Builder {
	b := &Builder{globals: NewSymbolMatcher(nil)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is the output of Build.
type Result struct {
	// Functions is a copy of the registry with edges, flags and complexity filled in.
	Functions []models.Function
	Graph     models.DependencyGraph
	// Cycles lists groups of functions that call each other in a loop.
	Cycles [][]string
	// CallSites holds the call-position identifiers of every resolved body.
	CallSites map[string][]string
}

// Build computes edges, complexity and usage flags for every resolved
// function. Unresolved functions keep empty edges and zero complexity.
func (b *Builder) Build(text string, parsed *parser.ParseResult) *Result {
	n := len(parsed.Functions)
	functions := make([]models.Function, n)
	copy(functions, parsed.Functions)

	index := make(map[string]uint32, n)
	for i := range functions {
		index[functions[i].Name] = uint32(i)
	}

	out := make([]*roaring.Bitmap, n)
	in := make([]*roaring.Bitmap, n)
	for i := range functions {
		out[i] = roaring.New()
		in[i] = roaring.New()
	}

	callSites := make(map[string][]string, len(parsed.Spans))
	for i := range functions {
		fn := &functions[i]
		span, ok := parsed.Spans[fn.Name]
		if !ok {
			continue
		}
		body := span.Body(text)

		calls := parser.CallSites(body)
		callSites[fn.Name] = sortedKeys(calls)

		for j := range functions {
			if j == i {
				continue
			}
			if _, called := calls[functions[j].Name]; called {
				out[i].Add(uint32(j))
				in[j].Add(uint32(i))
			}
		}

		fn.Complexity = Complexity(body)
		fn.UsesGlobalState = b.globals.Any(body)
		fn.UsesPlatformAPI = containsAny(body, b.platform)
	}

	for i := range functions {
		functions[i].Dependencies = names(functions, out[i])
		functions[i].Dependents = names(functions, in[i])
	}

	return &Result{
		Functions: functions,
		Graph:     models.NewDependencyGraph(functions),
		Cycles:    cycles(functions, out),
		CallSites: callSites,
	}
}

// names resolves a bitmap of registry indices to sorted function names.
func names(functions []models.Function, bm *roaring.Bitmap) []string {
	result := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		result = append(result, functions[it.Next()].Name)
	}
	sort.Strings(result)
	return result
}

// cycles finds strongly connected components with more than one function.
func cycles(functions []models.Function, out []*roaring.Bitmap) [][]string {
	g := simple.NewDirectedGraph()
	for i := range functions {
		g.AddNode(simple.Node(int64(i)))
	}
	for i, bm := range out {
		it := bm.Iterator()
		for it.HasNext() {
			j := int64(it.Next())
			g.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(j)})
		}
	}

	var result [][]string
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) < 2 {
			continue
		}
		group := make([]string, 0, len(scc))
		for _, node := range scc {
			group = append(group, functions[node.ID()].Name)
		}
		sort.Strings(group)
		result = append(result, group)
	}

	sort.Slice(result, func(a, b int) bool { return result[a][0] < result[b][0] })
	return result
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
