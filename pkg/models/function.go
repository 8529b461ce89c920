package models

// Kind describes which declaration form introduced a function.
type Kind string

const (
	KindDeclaration Kind = "declaration" // function name(...) { ... }
	KindExpression  Kind = "expression"  // const name = function(...) { ... }
	KindArrow       Kind = "arrow"       // const name = (...) => ...
	KindMethod      Kind = "method"      // class X { name(...) { ... } }
	KindUnknown     Kind = "unknown"
)

// Function is a tracked callable entity, identified by its name.
// Dependencies and Dependents are sorted and never contain Name itself.
type Function struct {
	Name            string   `json:"name" toon:"name"`
	Kind            Kind     `json:"kind" toon:"kind"`
	SourceOffset    int      `json:"sourceOffset" toon:"sourceOffset"`
	Line            int      `json:"line" toon:"line"`
	Dependencies    []string `json:"dependencies" toon:"dependencies"`
	Dependents      []string `json:"dependents" toon:"dependents"`
	UsesGlobalState bool     `json:"usesGlobalState" toon:"usesGlobalState"`
	UsesPlatformAPI bool     `json:"usesPlatformAPI" toon:"usesPlatformAPI"`
	Complexity      int      `json:"complexity" toon:"complexity"`
	Resolved        bool     `json:"resolved" toon:"resolved"`
}

// HasEdges reports whether the function calls or is called by another function.
func (f *Function) HasEdges() bool {
	return len(f.Dependencies) > 0 || len(f.Dependents) > 0
}
