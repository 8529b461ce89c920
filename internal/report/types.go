package report

import (
	"time"

	"github.com/panbanda/modsplit/pkg/models"
)

// Metadata contains report generation metadata.
type Metadata struct {
	Root           string    `json:"root"`
	GeneratedAt    time.Time `json:"generated_at"`
	Version        string    `json:"version"`
	ConfigSource   string    `json:"config_source,omitempty"`
	Fingerprint    string    `json:"fingerprint"`
	FilesAnalyzed  int       `json:"files_analyzed"`
	FilesWithIssue int       `json:"files_with_problems"`
}

// Summary is the content of summary.json: the project counters, the
// warnings and an index from source path to report file.
type Summary struct {
	Summary  models.ProjectSummary `json:"summary"`
	Warnings []models.Warning      `json:"warnings"`
	Files    []IndexEntry          `json:"files"`
}

// IndexEntry points from an analyzed source file to its report.
type IndexEntry struct {
	Path     string `json:"path"`
	Report   string `json:"report"`
	Problems int    `json:"problems"`
}
