package mcpserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/modsplit/internal/output"
	"github.com/panbanda/modsplit/pkg/analyzer/project"
	"github.com/panbanda/modsplit/pkg/config"
	"github.com/panbanda/modsplit/pkg/models"
	"github.com/panbanda/modsplit/pkg/source"
)

// FileInput selects one source file, on disk or inline.
type FileInput struct {
	Path    string `json:"path,omitempty" jsonschema:"Path of the file to analyze."`
	Content string `json:"content,omitempty" jsonschema:"Inline source to analyze instead of reading path."`
	Name    string `json:"name,omitempty" jsonschema:"Display name for inline content. Defaults to path or inline.js."`
}

// AnalyzeFileInput is the input of analyze_file.
type AnalyzeFileInput struct {
	FileInput
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, or markdown."`
}

// AnalyzeProjectInput is the input of analyze_project.
type AnalyzeProjectInput struct {
	Path        string `json:"path,omitempty" jsonschema:"Project root. Defaults to current directory if empty."`
	Format      string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, yaml, or markdown."`
	SummaryOnly bool   `json:"summary_only,omitempty" jsonschema:"Omit the per-file reports and return only the summary and warnings."`
}

// GraphInput is the input of dependency_graph.
type GraphInput struct {
	FileInput
}

// Helper functions

func getRoot(path string) string {
	if path == "" {
		return "."
	}
	return path
}

func getFormat(format string) output.Format {
	switch strings.ToLower(format) {
	case "json":
		return output.FormatJSON
	case "yaml", "yml":
		return output.FormatYAML
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(view output.Renderable, format output.Format) (string, error) {
	if format == output.FormatMarkdown {
		var buf bytes.Buffer
		if err := view.RenderMarkdown(&buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	out, err := output.Marshal(format, view.RenderData())
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toolResult(view output.Renderable, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(view, format)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// analyzeFile runs the project pipeline over a single file so that size,
// encoding and read failures are reported the same way as in a project run.
func (s *Server) analyzeFile(ctx context.Context, in FileInput) (*models.AnalysisReport, error) {
	opts := []project.Option{project.WithLogger(s.logger)}

	path := in.Path
	if in.Content != "" {
		if in.Name != "" {
			path = in.Name
		} else if path == "" {
			path = "inline.js"
		}
		opts = append(opts, project.WithSource(source.NewMemory(map[string]string{path: in.Content})))
	}
	if path == "" {
		return nil, errors.New("either path or content is required")
	}

	rep := project.New(s.cfg, opts...).AnalyzeFiles(ctx, "", []string{path})
	if len(rep.Files) == 0 {
		if len(rep.Warnings) > 0 {
			w := rep.Warnings[0]
			return nil, fmt.Errorf("%s: %s", w.Path, w.Message)
		}
		return nil, fmt.Errorf("%s: not analyzed", path)
	}
	return &rep.Files[0], nil
}

// projectConfig returns the config for analyzing root: the server's own
// when one was given, otherwise the file found in root.
func (s *Server) projectConfig(root string) (*config.Config, error) {
	if s.pinned {
		return s.cfg, nil
	}
	loaded, err := config.LoadConfig(config.WithBaseDir(root))
	if err != nil {
		return nil, err
	}
	if loaded.Source != "" {
		s.logger.Debug("project config loaded", slog.String("path", loaded.Source))
	}
	return loaded.Config, nil
}

// Tool handlers

func (s *Server) handleAnalyzeFile(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeFileInput) (*mcp.CallToolResult, any, error) {
	report, err := s.analyzeFile(ctx, input.FileInput)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.NewFileView(report), getFormat(input.Format))
}

func (s *Server) handleAnalyzeProject(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeProjectInput) (*mcp.CallToolResult, any, error) {
	root := getRoot(input.Path)
	cfg, err := s.projectConfig(root)
	if err != nil {
		return toolError(err.Error())
	}
	report, err := project.New(cfg, project.WithLogger(s.logger)).Analyze(ctx, root)
	if err != nil {
		return toolError(err.Error())
	}
	if report.Summary.TotalFiles == 0 {
		return toolError("no source files found")
	}
	if input.SummaryOnly {
		report.Files = []models.AnalysisReport{}
	}
	return toolResult(output.NewProjectView(report, false), getFormat(input.Format))
}

func (s *Server) handleDependencyGraph(ctx context.Context, req *mcp.CallToolRequest, input GraphInput) (*mcp.CallToolResult, any, error) {
	report, err := s.analyzeFile(ctx, input.FileInput)
	if err != nil {
		return toolError(err.Error())
	}
	return textResult(output.Mermaid(report)), nil, nil
}
