package parser

import (
	"regexp"

	"github.com/panbanda/modsplit/pkg/models"
)

// declarationPattern recognizes one declaration form. Group 1 is the name.
type declarationPattern struct {
	re   *regexp.Regexp
	kind models.Kind
}

// Order matters: the first pattern to report a name owns it.
var declarationPatterns = []declarationPattern{
	{regexp.MustCompile(`function\s+(\w+)\s*\([^)]*\)\s*\{`), models.KindDeclaration},
	{regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?function\s*\(`), models.KindExpression},
	{regexp.MustCompile(`(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>`), models.KindArrow},
	{regexp.MustCompile(`class\s+\w+\s*\{[^}]*?(\w+)\s*\([^)]*\)\s*\{`), models.KindMethod},
}

// Control-flow keywords look like method headers to the class pattern.
var reservedNames = map[string]bool{
	"if":       true,
	"for":      true,
	"while":    true,
	"switch":   true,
	"catch":    true,
	"function": true,
	"return":   true,
}

// Extract finds function-like declarations in text. Each name is recorded
// once: a later match for a name that is already known is dropped, so the
// result is deterministic for a fixed pattern order. The returned records
// have no edges yet.
func Extract(text string) []models.Function {
	lines := newLineIndex(text)
	seen := make(map[string]bool)
	var functions []models.Function

	for _, p := range declarationPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			name := text[m[2]:m[3]]
			if seen[name] || reservedNames[name] {
				continue
			}
			seen[name] = true

			// Method matches start at the enclosing class; anchor on the name instead.
			offset := m[0]
			if p.kind == models.KindMethod {
				offset = m[2]
			}

			functions = append(functions, models.Function{
				Name:         name,
				Kind:         p.kind,
				SourceOffset: offset,
				Line:         lines.Line(offset),
				Dependencies: []string{},
				Dependents:   []string{},
			})
		}
	}

	return functions
}
