// Package parser discovers function-like declarations in procedural source
// text without building a syntax tree. It finds declarations with an ordered
// set of structural patterns, recovers body boundaries with a string-aware
// brace scanner, and reports the identifiers used in call position.
package parser

import (
	"github.com/panbanda/modsplit/pkg/models"
)

// Parser yields the functions of a source text and the spans of their bodies.
// Graph building and classification depend only on this interface, so the
// heuristics can be replaced by a real tokenizer without touching them.
type Parser interface {
	Parse(text string) *ParseResult
}

// ParseResult holds the function registry of one text.
type ParseResult struct {
	// Functions in registry order: pattern order, then position.
	Functions []models.Function
	// Spans holds the bodies that could be resolved, keyed by function name.
	Spans map[string]Span
	// Unresolved lists functions kept without a body, with the reason.
	Unresolved []models.Unresolved
}

// Heuristic is the pattern-based Parser.
type Heuristic struct{}

// New creates a heuristic parser.
func New() *Heuristic {
	return &Heuristic{}
}

var _ Parser = (*Heuristic)(nil)

// Parse extracts the function registry and resolves each body. A function
// whose header cannot be found or whose body never closes stays in the
// registry and is listed in Unresolved.
func (h *Heuristic) Parse(text string) *ParseResult {
	result := &ParseResult{
		Functions: Extract(text),
		Spans:     make(map[string]Span),
	}

	for i := range result.Functions {
		fn := &result.Functions[i]
		span, err := Resolve(text, *fn)
		if err != nil {
			result.Unresolved = append(result.Unresolved, models.Unresolved{
				Name:   fn.Name,
				Reason: err.Error(),
			})
			continue
		}
		fn.Resolved = true
		result.Spans[fn.Name] = span
	}

	return result
}

// Outside returns text with every resolved body blanked out, preserving
// offsets and line breaks.
func (r *ParseResult) Outside(text string) string {
	if len(r.Spans) == 0 {
		return text
	}
	buf := []byte(text)
	for _, span := range r.Spans {
		for i := span.Start; i <= span.End && i < len(buf); i++ {
			if buf[i] != '\n' {
				buf[i] = ' '
			}
		}
	}
	return string(buf)
}
