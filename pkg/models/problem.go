package models

// IssueKind identifies the rule that flagged a function.
type IssueKind string

const (
	IssueHighDependencyCount IssueKind = "HighDependencyCount"
	IssueCriticalDependency  IssueKind = "CriticalDependency"
	IssueMixedResponsibility IssueKind = "MixedResponsibility"
	IssueHighComplexity      IssueKind = "HighComplexity"
)

// Suggestion returns the refactoring hint attached to an issue kind.
func (k IssueKind) Suggestion() string {
	switch k {
	case IssueHighDependencyCount:
		return "Split into smaller functions with fewer collaborators"
	case IssueCriticalDependency:
		return "Move into a core module behind a stable interface or facade"
	case IssueMixedResponsibility:
		return "Separate state handling from presentation"
	case IssueHighComplexity:
		return "Break up branching logic into helper functions"
	default:
		return ""
	}
}

// Problem is a structural risk attached to one function. A function can
// carry several problems of different kinds.
type Problem struct {
	FunctionName string    `json:"functionName" toon:"functionName"`
	IssueKind    IssueKind `json:"issueKind" toon:"issueKind"`
	Metric       int       `json:"metric" toon:"metric"`
	Suggestion   string    `json:"suggestion" toon:"suggestion"`
}
