package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/panbanda/modsplit/pkg/models"
)

// ErrHeaderNotFound is returned when none of the declaration headers for a
// function name occur in the text. Methods usually end up here.
var ErrHeaderNotFound = errors.New("declaration header not found")

// Span locates a function body in the source text.
type Span struct {
	Header     int  `json:"header"`
	Start      int  `json:"start"`
	End        int  `json:"end"` // inclusive
	Expression bool `json:"expression,omitempty"`
}

// Body returns the body text covered by the span.
func (s Span) Body(text string) string {
	return text[s.Start : s.End+1]
}

// Resolve locates the body of fn. Header forms are tried in order: direct
// declaration, function expression binding, lambda binding. The first
// textual occurrence of the first form that matches wins.
func Resolve(text string, fn models.Function) (Span, error) {
	name := regexp.QuoteMeta(fn.Name)

	declaration := regexp.MustCompile(`\bfunction\s+` + name + `\s*\(`)
	if loc := declaration.FindStringIndex(text); loc != nil {
		return braceSpan(text, loc[0], loc[0])
	}

	expression := regexp.MustCompile(`\b` + name + `\s*=\s*(?:async\s*)?function\b`)
	if loc := expression.FindStringIndex(text); loc != nil {
		return braceSpan(text, loc[0], loc[0])
	}

	lambda := regexp.MustCompile(`\b` + name + `\s*=\s*(?:async\s*)?\(`)
	if loc := lambda.FindStringIndex(text); loc != nil {
		return lambdaSpan(text, loc[0])
	}

	return Span{}, fmt.Errorf("%s: %w", fn.Name, ErrHeaderNotFound)
}

// braceSpan scans the region opened by the first unquoted brace at or
// after from.
func braceSpan(text string, header, from int) (Span, error) {
	open, end, err := balancedRegion(text, from)
	if err != nil {
		return Span{}, err
	}
	return Span{Header: header, Start: open, End: end}, nil
}

var arrowHead = regexp.MustCompile(`^\w+\s*=\s*(?:async\s*)?\([^)]*\)\s*=>\s*`)

// lambdaSpan handles `name = (...) => body`. A braced body is scanned like
// any other; an expression body runs to the end of its statement or line.
func lambdaSpan(text string, header int) (Span, error) {
	loc := arrowHead.FindStringIndex(text[header:])
	if loc == nil {
		return braceSpan(text, header, header)
	}

	start := header + loc[1]
	if start < len(text) && text[start] == '{' {
		return braceSpan(text, header, start)
	}

	end := len(text) - 1
	if rel := strings.IndexAny(text[start:], ";\n"); rel >= 0 {
		end = start + rel - 1
	}
	if end < start {
		return Span{}, fmt.Errorf("empty arrow body: %w", ErrNoRegion)
	}

	return Span{Header: header, Start: start, End: end, Expression: true}, nil
}
