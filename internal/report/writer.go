// Package report writes a project analysis as a directory of JSON files:
// metadata.json, summary.json and one report per source file under files/.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/panbanda/modsplit/pkg/models"
)

const (
	MetadataFile = "metadata.json"
	SummaryFile  = "summary.json"
	FilesDir     = "files"
)

// Write stores rep under dir, creating it if needed. meta.FilesAnalyzed and
// meta.FilesWithIssue are filled in from rep.
func Write(dir string, rep *models.ProjectReport, meta Metadata) error {
	if err := os.MkdirAll(filepath.Join(dir, FilesDir), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	summary := Summary{
		Summary:  rep.Summary,
		Warnings: rep.Warnings,
		Files:    make([]IndexEntry, 0, len(rep.Files)),
	}
	if summary.Warnings == nil {
		summary.Warnings = []models.Warning{}
	}

	used := make(map[string]bool, len(rep.Files))
	for i := range rep.Files {
		f := &rep.Files[i]
		name := uniqueName(ReportName(f.Path), used)
		target := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := writeJSON(target, f); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", f.Path, err)
		}
		summary.Files = append(summary.Files, IndexEntry{
			Path:     f.Path,
			Report:   name,
			Problems: len(f.Problems),
		})
		if len(f.Problems) > 0 {
			meta.FilesWithIssue++
		}
	}
	meta.FilesAnalyzed = len(rep.Files)

	if err := writeJSON(filepath.Join(dir, MetadataFile), meta); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, SummaryFile), summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// ReportName maps a source path to its report path relative to the output
// directory. The result always stays inside files/.
func ReportName(p string) string {
	parts := strings.Split(filepath.ToSlash(p), "/")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			kept = append(kept, "_up")
		default:
			kept = append(kept, strings.ReplaceAll(part, ":", "_"))
		}
	}
	if len(kept) == 0 {
		kept = append(kept, "_")
	}
	return path.Join(FilesDir, path.Join(kept...)+".json")
}

// uniqueName returns name, or name with a ~N suffix when another report
// already took it, and records the result in used.
func uniqueName(name string, used map[string]bool) string {
	base := strings.TrimSuffix(name, ".json")
	for i := 1; used[name]; i++ {
		name = fmt.Sprintf("%s~%d.json", base, i)
	}
	used[name] = true
	return name
}

// Load reads metadata.json and summary.json from dir.
func Load(dir string) (*Metadata, *Summary, error) {
	var meta Metadata
	if err := loadJSON(filepath.Join(dir, MetadataFile), &meta); err != nil {
		return nil, nil, err
	}
	var summary Summary
	if err := loadJSON(filepath.Join(dir, SummaryFile), &summary); err != nil {
		return nil, nil, err
	}
	return &meta, &summary, nil
}

// LoadFile reads the report an index entry points to.
func LoadFile(dir string, entry IndexEntry) (*models.AnalysisReport, error) {
	var r models.AnalysisReport
	if err := loadJSON(filepath.Join(dir, filepath.FromSlash(entry.Report)), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that dir holds a complete report and returns one message
// per problem found.
func Validate(dir string) []string {
	var problems []string

	for _, file := range []string{MetadataFile, SummaryFile} {
		data, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			if os.IsNotExist(err) {
				problems = append(problems, fmt.Sprintf("%s: file not found", file))
			} else {
				problems = append(problems, fmt.Sprintf("%s: %v", file, err))
			}
			continue
		}
		var js json.RawMessage
		if err := json.Unmarshal(data, &js); err != nil {
			problems = append(problems, fmt.Sprintf("%s: invalid JSON: %v", file, err))
		}
	}
	if len(problems) > 0 {
		return problems
	}

	_, summary, err := Load(dir)
	if err != nil {
		return append(problems, fmt.Sprintf("%s: %v", SummaryFile, err))
	}
	for _, entry := range summary.Files {
		r, err := LoadFile(dir, entry)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", entry.Report, err))
			continue
		}
		if r.Path != entry.Path {
			problems = append(problems, fmt.Sprintf("%s: path %q does not match index entry %q", entry.Report, r.Path, entry.Path))
		}
	}
	return problems
}

func writeJSON(path string, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewDecoder(f).Decode(v)
}
