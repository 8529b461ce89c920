package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/panbanda/modsplit/pkg/models"
)

func sampleReport() *models.AnalysisReport {
	functions := []models.Function{
		{Name: "init", Kind: models.KindDeclaration, Line: 1, Dependencies: []string{"render", "save"}, Complexity: 1, Resolved: true},
		{Name: "render", Kind: models.KindArrow, Line: 4, Dependents: []string{"init"}, Complexity: 3, UsesPlatformAPI: true, Resolved: true},
		{Name: "save", Kind: models.KindMethod, Line: 9, Dependents: []string{"init"}},
	}
	return &models.AnalysisReport{
		Path: "app.js",
		Summary: models.Summary{
			TotalFunctions:            3,
			ResolvedFunctions:         2,
			FunctionsWithDependencies: 1,
			IndependentFunctions:      0,
			TotalEdges:                2,
			MostComplexFunction:       "render",
			MaxComplexity:             3,
			MostDependentFunction:     "init",
			MaxDependencies:           2,
			ProblemCount:              1,
		},
		Functions: functions,
		Modules: map[string][]string{
			"core": {"init"},
			"ui":   {"render"},
			"data": {"save"},
			"auth": {},
		},
		Dependencies: models.NewDependencyGraph(functions),
		Problems: []models.Problem{{
			FunctionName: "render",
			IssueKind:    models.IssueMixedResponsibility,
			Metric:       1,
			Suggestion:   models.IssueMixedResponsibility.Suggestion(),
		}},
		GlobalUsage:   []string{"appData"},
		PlatformUsage: []string{"document."},
		ElementIDs:    []string{"app"},
		Cycles:        [][]string{{"a", "b"}},
		Unresolved:    []models.Unresolved{{Name: "save", Reason: "function header not found"}},
	}
}

func TestFileViewText(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriterFormatter(FormatText, &buf, false).Output(NewFileView(sampleReport())); err != nil {
		t.Fatalf("Output() error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Function Dependencies: app.js",
		"Functions:          3 (2 resolved)",
		"Most complex:       render (3)",
		"MixedResponsibility",
		"Suggested Modules",
		"a -> b",
		"function header not found",
		"Element IDs:  app",
		"unresolved",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if strings.Contains(output, "auth") {
		t.Error("empty modules should not be listed in the module table")
	}
}

func TestFileViewTextColorsIssues(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	var colored bytes.Buffer
	if err := NewFileView(sampleReport()).RenderText(&colored, true); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	red := IssueColor(models.IssueMixedResponsibility, "MixedResponsibility")
	if !strings.Contains(colored.String(), red) {
		t.Errorf("colored output does not mark MixedResponsibility in red:\n%q", colored.String())
	}

	var plain bytes.Buffer
	if err := NewFileView(sampleReport()).RenderText(&plain, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}
	if strings.Contains(plain.String(), red) {
		t.Error("plain output should not contain color codes for issues")
	}

	var md bytes.Buffer
	if err := NewFileView(sampleReport()).RenderMarkdown(&md); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}
	if strings.Contains(md.String(), "\x1b[") {
		t.Error("markdown should never contain color codes")
	}
}

func TestFileViewMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriterFormatter(FormatMarkdown, &buf, false).Output(NewFileView(sampleReport())); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	output := buf.String()
	if !strings.HasPrefix(output, "# Function Dependencies: app.js") {
		t.Errorf("unexpected heading: %q", output[:40])
	}
	if !strings.Contains(output, "| render | arrow | 4 | 0 | 1 | 3 | ui | platform |") {
		t.Errorf("function row missing:\n%s", output)
	}
	if !strings.Contains(output, "| ui | 1 | render |") {
		t.Errorf("module row missing:\n%s", output)
	}
}

func TestFileViewJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriterFormatter(FormatJSON, &buf, false).Output(NewFileView(sampleReport())); err != nil {
		t.Fatalf("Output() error: %v", err)
	}

	var got models.AnalysisReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if got.Path != "app.js" || len(got.Functions) != 3 {
		t.Errorf("decoded = %+v", got)
	}
	if !strings.Contains(buf.String(), `"usesPlatformAPI": true`) {
		t.Error("JSON should use camelCase field names")
	}
}

func TestProjectView(t *testing.T) {
	file := sampleReport()
	report := &models.ProjectReport{
		Root:  "site",
		Files: []models.AnalysisReport{*file},
		Summary: models.ProjectSummary{
			TotalFiles:     3,
			AnalyzedFiles:  1,
			FailedFiles:    1,
			TotalFunctions: 3,
			TotalProblems:  1,
			CrossFileDependencies: []models.CrossFileDependency{
				{Caller: "boot", CallerFile: "index.html", Callee: "init", CalleeFile: "app.js"},
			},
			Incomplete: true,
		},
		Warnings: []models.Warning{
			{Path: "bad.js", Kind: models.WarningEncoding, Message: "invalid UTF-8"},
			{Path: "late.js", Kind: models.WarningSkipped, Message: "cancelled"},
		},
	}

	t.Run("summary", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewProjectView(report, false).RenderText(&buf, false); err != nil {
			t.Fatalf("RenderText() error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"Project Dependencies: site",
			"Files:      3 (1 analyzed, 1 failed)",
			"incomplete",
			"Cross-File Dependencies",
			"index.html",
			"bad.js",
			"invalid UTF-8",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Function Dependencies: app.js") {
			t.Error("per-file sections should only appear in detailed mode")
		}
	})

	t.Run("detailed", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewProjectView(report, true).RenderMarkdown(&buf); err != nil {
			t.Fatalf("RenderMarkdown() error: %v", err)
		}
		if !strings.Contains(buf.String(), "# Function Dependencies: app.js") {
			t.Errorf("detailed output missing file section:\n%s", buf.String())
		}
	})

	t.Run("data", func(t *testing.T) {
		if NewProjectView(report, false).RenderData() != report {
			t.Error("RenderData() should return the report")
		}
	})
}
