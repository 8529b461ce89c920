// Package project analyzes every candidate file under a root in isolation
// and merges the per-file reports into one project report.
package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/panbanda/modsplit/internal/cache"
	"github.com/panbanda/modsplit/internal/fileproc"
	"github.com/panbanda/modsplit/internal/scanner"
	"github.com/panbanda/modsplit/pkg/analyzer/funcdep"
	"github.com/panbanda/modsplit/pkg/config"
	"github.com/panbanda/modsplit/pkg/models"
	"github.com/panbanda/modsplit/pkg/source"
)

var (
	// ErrInvalidEncoding marks a file that is not valid UTF-8.
	ErrInvalidEncoding = funcdep.ErrInvalidEncoding
	// ErrFileTooLarge marks a file above scan.max_file_size.
	ErrFileTooLarge = errors.New("file exceeds size limit")
	// ErrRead marks a file whose content could not be read.
	ErrRead = errors.New("read failed")
)

// Analyzer aggregates per-file analysis over a file tree.
type Analyzer struct {
	cfg         *config.Config
	file        *funcdep.Analyzer
	src         source.ContentSource
	cache       *cache.Cache
	logger      *slog.Logger
	onProgress  fileproc.ProgressFunc
	fingerprint string
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithSource reads file content from src instead of the filesystem.
func WithSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.src = src
	}
}

// WithCache reuses per-file reports whose content has not changed.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithProgress sets a callback invoked after each file completes.
func WithProgress(fn func(path string)) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a project analyzer. A nil cfg uses the defaults.
func New(cfg *config.Config, opts ...Option) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &Analyzer{
		cfg:    cfg,
		src:    source.NewFilesystem(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.file = funcdep.New(cfg, funcdep.WithLogger(a.logger))
	a.fingerprint = Fingerprint(cfg)
	return a
}

// reportRevision changes whenever the per-file analysis produces different
// output for the same input.
const reportRevision = 2

// Fingerprint hashes the settings that affect a per-file report, so cached
// reports are never reused across incompatible configurations.
func Fingerprint(cfg *config.Config) string {
	data, _ := json.Marshal(struct {
		Revision       int
		Thresholds     config.ThresholdConfig
		Symbols        config.SymbolConfig
		Modules        []config.ModuleConfig
		Classification config.ClassificationConfig
	}{reportRevision, cfg.Thresholds, cfg.Symbols, cfg.Modules, cfg.Classification})
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Analyze scans root for candidate files and analyzes them.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*models.ProjectReport, error) {
	files, err := scanner.NewScanner(a.cfg).ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	a.logger.Debug("scan complete", slog.String("root", root), slog.Int("files", len(files)))
	return a.AnalyzeFiles(ctx, root, files), nil
}

// AnalyzeFiles analyzes the given files. Report paths are made relative to
// root when possible. A file that fails becomes a warning and never aborts
// the run; files not started before ctx is cancelled are reported as
// skipped and the report is marked incomplete.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, root string, files []string) *models.ProjectReport {
	ordered := make([]string, len(files))
	copy(ordered, files)
	sort.Strings(ordered)

	outcomes := fileproc.MapOrdered(ctx, ordered, fileproc.Options{
		Workers:    a.cfg.Scan.Workers,
		OnProgress: a.onProgress,
	}, func(_ context.Context, path string) (*funcdep.FileResult, error) {
		return a.analyzeFile(displayPath(root, path), path)
	})

	report := &models.ProjectReport{
		Root:     root,
		Files:    make([]models.AnalysisReport, 0, len(outcomes)),
		Warnings: make([]models.Warning, 0),
	}
	results := make([]*funcdep.FileResult, 0, len(outcomes))

	for _, o := range outcomes {
		path := displayPath(root, o.Path)
		switch {
		case o.Skipped:
			report.Summary.Incomplete = true
			report.Warnings = append(report.Warnings, models.Warning{
				Path:    path,
				Kind:    models.WarningSkipped,
				Message: "analysis cancelled before this file was processed",
			})
		case o.Err != nil:
			report.Summary.FailedFiles++
			w := warningFor(path, o.Err)
			a.logger.Debug("file skipped", slog.String("path", path), slog.String("kind", string(w.Kind)), slog.String("error", w.Message))
			report.Warnings = append(report.Warnings, w)
		default:
			results = append(results, o.Value)
			report.Files = append(report.Files, *o.Value.Report)
			report.Summary.AnalyzedFiles++
			report.Summary.TotalFunctions += o.Value.Report.Summary.TotalFunctions
			report.Summary.TotalProblems += len(o.Value.Report.Problems)
		}
	}

	if errs := fileproc.Collect(outcomes); errs != nil {
		a.logger.Warn("files not analyzed",
			slog.Int("failed", len(errs.Errors)),
			slog.String("error", errs.Error()),
		)
	}

	report.Summary.TotalFiles = len(ordered)
	report.Summary.CrossFileDependencies = CrossFileDependencies(results)
	return report
}

// analyzeFile reads, checks and analyzes one file, consulting the cache.
func (a *Analyzer) analyzeFile(display, path string) (*funcdep.FileResult, error) {
	limit := a.cfg.Scan.MaxFileSize
	if limit > 0 {
		if sizer, ok := a.src.(source.Sizer); ok {
			if size, err := sizer.Size(path); err == nil && size > limit {
				return nil, fmt.Errorf("%w: %d bytes > %d", ErrFileTooLarge, size, limit)
			}
		}
	}

	content, err := a.src.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if limit > 0 && int64(len(content)) > limit {
		return nil, fmt.Errorf("%w: %d bytes > %d", ErrFileTooLarge, len(content), limit)
	}

	key := display + "@" + a.fingerprint
	if data, ok := a.cache.Lookup(key, content); ok {
		var cached funcdep.FileResult
		if err := json.Unmarshal(data, &cached); err == nil && cached.Report != nil {
			a.logger.Debug("cache hit", slog.String("path", display))
			return &cached, nil
		}
		if err := a.cache.Invalidate(key); err != nil {
			a.logger.Debug("cache invalidate failed", slog.String("path", display), slog.String("error", err.Error()))
		}
	}

	result, err := a.file.Analyze(display, content)
	if err != nil {
		return nil, err
	}

	if a.cache.Enabled() {
		if data, err := json.Marshal(result); err == nil {
			if err := a.cache.Store(key, content, data); err != nil {
				a.logger.Debug("cache store failed", slog.String("path", display), slog.String("error", err.Error()))
			}
		}
	}
	return result, nil
}

// warningFor classifies a per-file failure.
func warningFor(path string, err error) models.Warning {
	kind := models.WarningAnalysis
	switch {
	case errors.Is(err, ErrRead):
		kind = models.WarningRead
	case errors.Is(err, ErrInvalidEncoding):
		kind = models.WarningEncoding
	case errors.Is(err, ErrFileTooLarge):
		kind = models.WarningTooLarge
	}

	msg := err.Error()
	var pe *fileproc.ProcessingError
	if errors.As(err, &pe) {
		msg = pe.Err.Error()
	}
	return models.Warning{Path: path, Kind: kind, Message: msg}
}

// displayPath returns path relative to root with forward slashes, or path
// unchanged when it is not under root.
func displayPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	if rel == "." {
		return filepath.ToSlash(filepath.Base(path))
	}
	return filepath.ToSlash(rel)
}
