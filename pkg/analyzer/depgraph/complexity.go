package depgraph

import (
	"regexp"
	"strings"
)

// Branching, looping and exception-flow tokens. Each occurrence adds one.
var complexityTokens = []*regexp.Regexp{
	regexp.MustCompile(`\bif\s*\(`),
	regexp.MustCompile(`\belse\b`),
	regexp.MustCompile(`\bfor\s*\(`),
	regexp.MustCompile(`\bwhile\s*\(`),
	regexp.MustCompile(`\bswitch\s*\(`),
	regexp.MustCompile(`\bcase\s+`),
	regexp.MustCompile(`\btry\s*\{`),
	regexp.MustCompile(`\bcatch\s*\(`),
	regexp.MustCompile(`\bthrow\b`),
}

// Complexity scores a function body: 1 plus one per branching token and
// per ternary operator.
func Complexity(body string) int {
	score := 1
	for _, re := range complexityTokens {
		score += len(re.FindAllStringIndex(body, -1))
	}
	return score + countTernaries(body)
}

// countTernaries counts '?' operators followed by a ':' on the same line.
// Optional chaining (?.) and nullish coalescing (??) are not ternaries.
func countTernaries(body string) int {
	count := 0
	for i := 0; i < len(body); i++ {
		if body[i] != '?' {
			continue
		}
		if i+1 < len(body) && (body[i+1] == '.' || body[i+1] == '?') {
			continue
		}
		if i > 0 && body[i-1] == '?' {
			continue
		}
		rest := body[i+1:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[:nl]
		}
		if strings.IndexByte(rest, ':') >= 0 {
			count++
		}
	}
	return count
}
