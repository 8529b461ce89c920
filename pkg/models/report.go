package models

// Summary holds the per-file counters.
type Summary struct {
	TotalFunctions            int    `json:"totalFunctions" toon:"totalFunctions"`
	ResolvedFunctions         int    `json:"resolvedFunctions" toon:"resolvedFunctions"`
	FunctionsWithDependencies int    `json:"functionsWithDependencies" toon:"functionsWithDependencies"`
	IndependentFunctions      int    `json:"independentFunctions" toon:"independentFunctions"`
	TotalEdges                int    `json:"totalEdges" toon:"totalEdges"`
	MostComplexFunction       string `json:"mostComplexFunction,omitempty" toon:"mostComplexFunction,omitempty"`
	MaxComplexity             int    `json:"maxComplexity" toon:"maxComplexity"`
	MostDependentFunction     string `json:"mostDependentFunction,omitempty" toon:"mostDependentFunction,omitempty"`
	MaxDependencies           int    `json:"maxDependencies" toon:"maxDependencies"`
	ProblemCount              int    `json:"problemCount" toon:"problemCount"`
}

// Unresolved records a function whose body could not be located.
// The function stays in the registry with empty edges.
type Unresolved struct {
	Name   string `json:"name" toon:"name"`
	Reason string `json:"reason" toon:"reason"`
}

// AnalysisReport is the result of analyzing one source file.
type AnalysisReport struct {
	Path          string              `json:"path" toon:"path"`
	Summary       Summary             `json:"summary" toon:"summary"`
	Functions     []Function          `json:"functions" toon:"functions"`
	Modules       map[string][]string `json:"modules" toon:"modules"`
	Dependencies  DependencyGraph     `json:"dependencies" toon:"dependencies"`
	Problems      []Problem           `json:"problems" toon:"problems"`
	GlobalUsage   []string            `json:"globalUsage" toon:"globalUsage"`
	PlatformUsage []string            `json:"platformUsage" toon:"platformUsage"`
	ElementIDs    []string            `json:"elementIds" toon:"elementIds"`
	Cycles        [][]string          `json:"cycles,omitempty" toon:"cycles,omitempty"`
	Unresolved    []Unresolved        `json:"unresolved,omitempty" toon:"unresolved,omitempty"`
}

// Function returns the registry entry for name, or nil.
func (r *AnalysisReport) Function(name string) *Function {
	for i := range r.Functions {
		if r.Functions[i].Name == name {
			return &r.Functions[i]
		}
	}
	return nil
}

// ModuleOf returns the module tag a function was assigned to.
func (r *AnalysisReport) ModuleOf(name string) (string, bool) {
	for tag, names := range r.Modules {
		for _, n := range names {
			if n == name {
				return tag, true
			}
		}
	}
	return "", false
}

// WarningKind classifies a per-file warning.
type WarningKind string

const (
	WarningRead     WarningKind = "read"
	WarningEncoding WarningKind = "encoding"
	WarningTooLarge WarningKind = "too_large"
	WarningAnalysis WarningKind = "analysis"
	WarningSkipped  WarningKind = "skipped"
)

// Warning is a recovered per-file failure.
type Warning struct {
	Path    string      `json:"path" toon:"path"`
	Kind    WarningKind `json:"kind" toon:"kind"`
	Message string      `json:"message" toon:"message"`
}

// CrossFileDependency is a call from a function in one file to a function
// defined in another.
type CrossFileDependency struct {
	Caller     string `json:"caller" toon:"caller"`
	CallerFile string `json:"callerFile" toon:"callerFile"`
	Callee     string `json:"callee" toon:"callee"`
	CalleeFile string `json:"calleeFile" toon:"calleeFile"`
}

// ProjectSummary aggregates counters across all analyzed files.
type ProjectSummary struct {
	TotalFiles            int                   `json:"totalFiles" toon:"totalFiles"`
	AnalyzedFiles         int                   `json:"analyzedFiles" toon:"analyzedFiles"`
	FailedFiles           int                   `json:"failedFiles" toon:"failedFiles"`
	TotalFunctions        int                   `json:"totalFunctions" toon:"totalFunctions"`
	TotalProblems         int                   `json:"totalProblems" toon:"totalProblems"`
	CrossFileDependencies []CrossFileDependency `json:"crossFileDependencies" toon:"crossFileDependencies"`
	Incomplete            bool                  `json:"incomplete" toon:"incomplete"`
}

// ProjectReport is the result of one aggregation run. Files are ordered by
// path so that output is stable across runs on an unchanged tree.
type ProjectReport struct {
	Root     string           `json:"root" toon:"root"`
	Files    []AnalysisReport `json:"files" toon:"files"`
	Summary  ProjectSummary   `json:"summary" toon:"summary"`
	Warnings []Warning        `json:"warnings" toon:"warnings"`
}
