package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/panbanda/modsplit/pkg/models"
)

// FileView renders a single-file analysis report.
type FileView struct {
	Report *models.AnalysisReport
}

// NewFileView wraps a file report for rendering.
func NewFileView(r *models.AnalysisReport) *FileView {
	return &FileView{Report: r}
}

func (v *FileView) RenderData() any {
	return v.Report
}

func (v *FileView) RenderText(w io.Writer, colored bool) error {
	return v.compose(colored).RenderText(w, colored)
}

func (v *FileView) RenderMarkdown(w io.Writer) error {
	return v.compose(false).RenderMarkdown(w)
}

// compose builds the report; colored marks issue kinds by urgency.
func (v *FileView) compose(colored bool) *Report {
	return &Report{
		Title:    "Function Dependencies: " + v.Report.Path,
		Sections: fileSections(v.Report, colored),
	}
}

func fileSections(r *models.AnalysisReport, colored bool) []Renderable {
	s := r.Summary
	summary := &Section{
		Title: "Summary",
		Content: strings.Join([]string{
			fmt.Sprintf("Functions:          %d (%d resolved)", s.TotalFunctions, s.ResolvedFunctions),
			fmt.Sprintf("With dependencies:  %d", s.FunctionsWithDependencies),
			fmt.Sprintf("Independent:        %d", s.IndependentFunctions),
			fmt.Sprintf("Edges:              %d", s.TotalEdges),
			fmt.Sprintf("Most complex:       %s", orDash(s.MostComplexFunction, s.MaxComplexity)),
			fmt.Sprintf("Most dependencies:  %s", orDash(s.MostDependentFunction, s.MaxDependencies)),
			fmt.Sprintf("Problems:           %d", s.ProblemCount),
		}, "\n"),
	}

	sections := []Renderable{summary, functionTable(r)}

	if len(r.Problems) > 0 {
		rows := make([][]string, 0, len(r.Problems))
		for _, p := range r.Problems {
			kind := string(p.IssueKind)
			if colored {
				kind = IssueColor(p.IssueKind, kind)
			}
			rows = append(rows, []string{p.FunctionName, kind, strconv.Itoa(p.Metric), p.Suggestion})
		}
		sections = append(sections, NewTable("Problems", []string{"Function", "Issue", "Metric", "Suggestion"}, rows, nil, r.Problems))
	}

	sections = append(sections, moduleTable(r.Modules))

	if len(r.Cycles) > 0 {
		lines := make([]string, len(r.Cycles))
		for i, c := range r.Cycles {
			lines[i] = "- " + strings.Join(c, " -> ")
		}
		sections = append(sections, &Section{Title: "Cycles", Content: strings.Join(lines, "\n")})
	}

	if len(r.Unresolved) > 0 {
		rows := make([][]string, 0, len(r.Unresolved))
		for _, u := range r.Unresolved {
			rows = append(rows, []string{u.Name, u.Reason})
		}
		sections = append(sections, NewTable("Unresolved", []string{"Function", "Reason"}, rows, nil, r.Unresolved))
	}

	sections = append(sections, &Section{
		Title: "File References",
		Content: strings.Join([]string{
			"Globals:      " + joinOrDash(r.GlobalUsage),
			"Platform API: " + joinOrDash(r.PlatformUsage),
			"Element IDs:  " + joinOrDash(r.ElementIDs),
		}, "\n"),
	})
	return sections
}

func functionTable(r *models.AnalysisReport) *Table {
	rows := make([][]string, 0, len(r.Functions))
	for _, fn := range r.Functions {
		module, _ := r.ModuleOf(fn.Name)
		rows = append(rows, []string{
			fn.Name,
			string(fn.Kind),
			strconv.Itoa(fn.Line),
			strconv.Itoa(len(fn.Dependencies)),
			strconv.Itoa(len(fn.Dependents)),
			strconv.Itoa(fn.Complexity),
			module,
			flags(fn),
		})
	}
	return NewTable("Functions",
		[]string{"Name", "Kind", "Line", "Calls", "Callers", "Complexity", "Module", "Flags"},
		rows, nil, r.Functions)
}

func flags(fn models.Function) string {
	var f []string
	if fn.UsesGlobalState {
		f = append(f, "global")
	}
	if fn.UsesPlatformAPI {
		f = append(f, "platform")
	}
	if !fn.Resolved {
		f = append(f, "unresolved")
	}
	return strings.Join(f, ",")
}

func moduleTable(modules map[string][]string) *Table {
	tags := make([]string, 0, len(modules))
	for tag := range modules {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		names := modules[tag]
		if len(names) == 0 {
			continue
		}
		rows = append(rows, []string{tag, strconv.Itoa(len(names)), strings.Join(names, ", ")})
	}
	return NewTable("Suggested Modules", []string{"Module", "Count", "Functions"}, rows, nil, modules)
}

// ProjectView renders a project report. With Detailed set, every file's
// sections follow the project summary.
type ProjectView struct {
	Report   *models.ProjectReport
	Detailed bool
}

// NewProjectView wraps a project report for rendering.
func NewProjectView(r *models.ProjectReport, detailed bool) *ProjectView {
	return &ProjectView{Report: r, Detailed: detailed}
}

func (v *ProjectView) RenderData() any {
	return v.Report
}

func (v *ProjectView) RenderText(w io.Writer, colored bool) error {
	return v.compose(colored).RenderText(w, colored)
}

func (v *ProjectView) RenderMarkdown(w io.Writer) error {
	return v.compose(false).RenderMarkdown(w)
}

func (v *ProjectView) compose(colored bool) *Report {
	r := v.Report
	s := r.Summary

	status := "complete"
	if s.Incomplete {
		status = "incomplete (cancelled)"
	}
	sections := []Renderable{&Section{
		Title: "Summary",
		Content: strings.Join([]string{
			fmt.Sprintf("Files:      %d (%d analyzed, %d failed)", s.TotalFiles, s.AnalyzedFiles, s.FailedFiles),
			fmt.Sprintf("Functions:  %d", s.TotalFunctions),
			fmt.Sprintf("Problems:   %d", s.TotalProblems),
			fmt.Sprintf("Cross-file: %d", len(s.CrossFileDependencies)),
			fmt.Sprintf("Status:     %s", status),
		}, "\n"),
	}}

	rows := make([][]string, 0, len(r.Files))
	for _, f := range r.Files {
		rows = append(rows, []string{
			f.Path,
			strconv.Itoa(f.Summary.TotalFunctions),
			strconv.Itoa(f.Summary.TotalEdges),
			strconv.Itoa(f.Summary.ProblemCount),
			strconv.Itoa(f.Summary.MaxComplexity),
		})
	}
	sections = append(sections, NewTable("Files",
		[]string{"Path", "Functions", "Edges", "Problems", "Max Complexity"},
		rows, nil, r.Files))

	if len(s.CrossFileDependencies) > 0 {
		rows := make([][]string, 0, len(s.CrossFileDependencies))
		for _, d := range s.CrossFileDependencies {
			rows = append(rows, []string{d.CallerFile, d.Caller, d.Callee, d.CalleeFile})
		}
		sections = append(sections, NewTable("Cross-File Dependencies",
			[]string{"File", "Caller", "Callee", "Defined In"},
			rows, nil, s.CrossFileDependencies))
	}

	if len(r.Warnings) > 0 {
		rows := make([][]string, 0, len(r.Warnings))
		for _, w := range r.Warnings {
			rows = append(rows, []string{w.Path, string(w.Kind), w.Message})
		}
		sections = append(sections, NewTable("Warnings", []string{"Path", "Kind", "Message"}, rows, nil, r.Warnings))
	}

	if v.Detailed {
		for i := range r.Files {
			sections = append(sections, NewFileView(&r.Files[i]).compose(colored))
		}
	}

	title := "Project Dependencies"
	if r.Root != "" {
		title += ": " + r.Root
	}
	return &Report{Title: title, Sections: sections, Data: r}
}

func orDash(name string, metric int) string {
	if name == "" {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", name, metric)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
