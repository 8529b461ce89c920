package depgraph

import (
	"regexp"
	"strings"
)

// SymbolMatcher tests for whole-word occurrences of configured global symbols.
type SymbolMatcher struct {
	symbols []string
	res     []*regexp.Regexp
}

// NewSymbolMatcher compiles a matcher for symbols.
func NewSymbolMatcher(symbols []string) *SymbolMatcher {
	m := &SymbolMatcher{symbols: symbols}
	for _, sym := range symbols {
		m.res = append(m.res, wholeWord(sym))
	}
	return m
}

// Any reports whether text contains any symbol.
func (m *SymbolMatcher) Any(text string) bool {
	for _, re := range m.res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Found returns the symbols that occur in text, in configured order.
func (m *SymbolMatcher) Found(text string) []string {
	var found []string
	for i, re := range m.res {
		if re.MatchString(text) {
			found = append(found, m.symbols[i])
		}
	}
	return found
}

// wholeWord compiles a matcher for sym that refuses to match inside a
// longer identifier.
func wholeWord(sym string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(sym)
	if sym != "" && isWordByte(sym[0]) {
		pattern = `\b` + pattern
	}
	if sym != "" && isWordByte(sym[len(sym)-1]) {
		pattern += `\b`
	}
	return regexp.MustCompile(pattern)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// containsAny reports whether text contains any of the substrings.
func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
