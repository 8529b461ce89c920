package parser

import "regexp"

// callSite matches an identifier followed, after optional whitespace, by an
// opening parenthesis. Matches always begin at the start of an identifier
// run, so a name never matches inside a longer identifier.
var callSite = regexp.MustCompile(`(\w+)\s*\(`)

// CallSites returns the set of identifiers used in call position in body.
func CallSites(body string) map[string]struct{} {
	sites := make(map[string]struct{})
	for _, m := range callSite.FindAllStringSubmatchIndex(body, -1) {
		sites[body[m[2]:m[3]]] = struct{}{}
	}
	return sites
}
