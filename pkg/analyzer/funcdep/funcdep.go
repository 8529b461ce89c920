// Package funcdep runs the per-file pipeline: it extracts functions,
// resolves their bodies, builds the call graph, classifies the result and
// collects file-level references.
package funcdep

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/panbanda/modsplit/pkg/analyzer/classify"
	"github.com/panbanda/modsplit/pkg/analyzer/depgraph"
	"github.com/panbanda/modsplit/pkg/config"
	"github.com/panbanda/modsplit/pkg/models"
	"github.com/panbanda/modsplit/pkg/parser"
)

// ErrInvalidEncoding is returned for content that is not valid UTF-8.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

var (
	windowProperty = regexp.MustCompile(`\bwindow\.(\w+)`)
	declaration    = regexp.MustCompile(`\b(?:let|const|var)\s+(\w+)`)
	elementID      = regexp.MustCompile(`getElementById\(\s*["']([\w-]+)["']\s*\)`)
)

// Analyzer turns source text into an AnalysisReport. It holds only
// immutable configuration and is safe for concurrent use.
type Analyzer struct {
	parser     parser.Parser
	builder    *depgraph.Builder
	classifier *classify.Classifier
	globals    *depgraph.SymbolMatcher
	platform   []string
	logger     *slog.Logger
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithParser replaces the heuristic parser.
func WithParser(p parser.Parser) Option {
	return func(a *Analyzer) {
		a.parser = p
	}
}

// New creates an analyzer from a validated configuration. A nil cfg uses
// the defaults.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	a := &Analyzer{
		parser: parser.New(),
		builder: depgraph.New(
			depgraph.WithGlobalSymbols(cfg.Symbols.Globals),
			depgraph.WithPlatformPatterns(cfg.Symbols.PlatformAPI),
		),
		classifier: classify.New(classify.WithConfig(cfg)),
		globals:    depgraph.NewSymbolMatcher(cfg.Symbols.Globals),
		platform:   cfg.Symbols.PlatformAPI,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeSource analyzes one file's content.
func (a *Analyzer) AnalyzeSource(path string, content []byte) (*models.AnalysisReport, error) {
	result, err := a.Analyze(path, content)
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

// Analyze analyzes one file's content and also returns the call sites of
// every resolved body.
func (a *Analyzer) Analyze(path string, content []byte) (*FileResult, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidEncoding)
	}
	text := string(content)

	parsed := a.parser.Parse(text)
	for _, u := range parsed.Unresolved {
		a.logger.Debug("function body not resolved",
			slog.String("path", path),
			slog.String("function", u.Name),
			slog.String("reason", u.Reason),
		)
	}

	graph := a.builder.Build(text, parsed)
	outside := parsed.Outside(text)

	report := &models.AnalysisReport{
		Path:          path,
		Functions:     graph.Functions,
		Modules:       a.classifier.Modules(graph.Functions),
		Dependencies:  graph.Graph,
		Problems:      a.classifier.Problems(graph.Functions),
		GlobalUsage:   a.globalUsage(outside, graph.Functions),
		PlatformUsage: a.platformUsage(outside),
		ElementIDs:    elementIDs(text),
		Cycles:        graph.Cycles,
		Unresolved:    parsed.Unresolved,
	}
	report.Summary = summarize(report)

	a.logger.Debug("file analyzed",
		slog.String("path", path),
		slog.Int("functions", report.Summary.TotalFunctions),
		slog.Int("edges", report.Summary.TotalEdges),
		slog.Int("problems", report.Summary.ProblemCount),
	)

	return &FileResult{Report: report, CallSites: graph.CallSites}, nil
}

// globalUsage lists the configured globals, window properties and
// variables declared outside every function body, sorted. Declarations that
// bind a known function are not variables.
func (a *Analyzer) globalUsage(outside string, functions []models.Function) []string {
	known := make(map[string]struct{}, len(functions))
	for i := range functions {
		known[functions[i].Name] = struct{}{}
	}

	found := make(map[string]struct{})
	for _, m := range declaration.FindAllStringSubmatch(outside, -1) {
		if _, ok := known[m[1]]; !ok {
			found[m[1]] = struct{}{}
		}
	}
	for _, sym := range a.globals.Found(outside) {
		found[sym] = struct{}{}
	}
	for _, m := range windowProperty.FindAllStringSubmatch(outside, -1) {
		found["window."+m[1]] = struct{}{}
	}
	return sortedSet(found)
}

// platformUsage lists the platform-API patterns that occur outside every
// function body, in configured order.
func (a *Analyzer) platformUsage(outside string) []string {
	used := make([]string, 0)
	for _, p := range a.platform {
		if strings.Contains(outside, p) {
			used = append(used, p)
		}
	}
	return used
}

// elementIDs lists the literal ids passed to getElementById anywhere in the
// text, sorted.
func elementIDs(text string) []string {
	found := make(map[string]struct{})
	for _, m := range elementID.FindAllStringSubmatch(text, -1) {
		found[m[1]] = struct{}{}
	}
	return sortedSet(found)
}

func summarize(r *models.AnalysisReport) models.Summary {
	s := models.Summary{
		TotalFunctions: len(r.Functions),
		TotalEdges:     r.Dependencies.EdgeCount(),
		ProblemCount:   len(r.Problems),
	}
	for i := range r.Functions {
		fn := &r.Functions[i]
		if fn.Resolved {
			s.ResolvedFunctions++
		}
		if len(fn.Dependencies) > 0 {
			s.FunctionsWithDependencies++
		} else {
			s.IndependentFunctions++
		}
		if fn.Complexity > s.MaxComplexity {
			s.MaxComplexity = fn.Complexity
			s.MostComplexFunction = fn.Name
		}
		if len(fn.Dependencies) > s.MaxDependencies {
			s.MaxDependencies = len(fn.Dependencies)
			s.MostDependentFunction = fn.Name
		}
	}
	return s
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
