package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/panbanda/modsplit/internal/cache"
	"github.com/panbanda/modsplit/pkg/config"
	"github.com/panbanda/modsplit/pkg/models"
	"github.com/panbanda/modsplit/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySource fails or panics on selected paths.
type flakySource struct {
	inner  source.ContentSource
	fail   map[string]bool
	panics map[string]bool
}

func (f *flakySource) Read(path string) ([]byte, error) {
	if f.panics[path] {
		panic("disk on fire")
	}
	if f.fail[path] {
		return nil, errors.New("permission denied")
	}
	return f.inner.Read(path)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func filePaths(report *models.ProjectReport) []string {
	paths := make([]string, 0, len(report.Files))
	for _, f := range report.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

func TestAnalyzeDirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.js":                  "function main() { helper(); render(); }\nfunction helper() {}\n",
		"ui/view.js":              "function render() { document.getElementById('app').innerHTML = ''; }\n",
		"index.html":              "<script>function boot() { main(); }</script>\n",
		"node_modules/dep/dep.js": "function dep() {}\n",
		"notes.txt":               "function ignored() {}\n",
	})

	report, err := New(nil).Analyze(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"app.js", "index.html", "ui/view.js"}, filePaths(report))
	assert.Equal(t, 3, report.Summary.TotalFiles)
	assert.Equal(t, 3, report.Summary.AnalyzedFiles)
	assert.Zero(t, report.Summary.FailedFiles)
	assert.Equal(t, 4, report.Summary.TotalFunctions)
	assert.False(t, report.Summary.Incomplete)
	assert.Empty(t, report.Warnings)

	assert.Equal(t, []models.CrossFileDependency{
		{Caller: "main", CallerFile: "app.js", Callee: "render", CalleeFile: "ui/view.js"},
		{Caller: "boot", CallerFile: "index.html", Callee: "main", CalleeFile: "app.js"},
	}, report.Summary.CrossFileDependencies)
}

func TestAnalyzeMissingRoot(t *testing.T) {
	_, err := New(nil).Analyze(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestAnalyzeFilesFaultIsolation(t *testing.T) {
	mem := source.NewMemory(map[string]string{
		"a.js":      "function a() { b(); }\nfunction b() {}\n",
		"broken.js": "function never() {}",
		"c.js":      "function c() { a(); }",
		"boom.js":   "function boom() {}",
		"latin1.js": string([]byte{'f', 'n', 0xe9, 0xff}),
	})

	src := &flakySource{
		inner:  mem,
		fail:   map[string]bool{"broken.js": true},
		panics: map[string]bool{"boom.js": true},
	}
	files := []string{"c.js", "latin1.js", "broken.js", "a.js", "boom.js", "missing.js"}

	report := New(nil, WithSource(src)).AnalyzeFiles(context.Background(), "", files)

	assert.Equal(t, []string{"a.js", "c.js"}, filePaths(report))
	assert.Equal(t, 6, report.Summary.TotalFiles)
	assert.Equal(t, 2, report.Summary.AnalyzedFiles)
	assert.Equal(t, 4, report.Summary.FailedFiles)
	assert.False(t, report.Summary.Incomplete)

	a := report.Files[0]
	require.NotNil(t, a.Function("a"))
	assert.Equal(t, []string{"b"}, a.Function("a").Dependencies)

	kinds := make(map[string]models.WarningKind)
	for _, w := range report.Warnings {
		kinds[w.Path] = w.Kind
		assert.NotEmpty(t, w.Message)
	}
	assert.Equal(t, map[string]models.WarningKind{
		"broken.js":  models.WarningRead,
		"boom.js":    models.WarningAnalysis,
		"latin1.js":  models.WarningEncoding,
		"missing.js": models.WarningRead,
	}, kinds)

	warned := make([]string, 0, len(report.Warnings))
	for _, w := range report.Warnings {
		warned = append(warned, w.Path)
	}
	assert.Equal(t, []string{"boom.js", "broken.js", "latin1.js", "missing.js"}, warned)

	assert.Equal(t, []models.CrossFileDependency{
		{Caller: "c", CallerFile: "c.js", Callee: "a", CalleeFile: "a.js"},
	}, report.Summary.CrossFileDependencies)
}

func TestAnalyzeFilesLogsFailures(t *testing.T) {
	mem := source.NewMemory(map[string]string{
		"a.js":      "function a() {}",
		"latin1.js": string([]byte{0xe9}),
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	New(nil, WithSource(mem), WithLogger(logger)).
		AnalyzeFiles(context.Background(), "", []string{"a.js", "latin1.js", "missing.js"})

	out := buf.String()
	assert.Contains(t, out, "files not analyzed")
	assert.Contains(t, out, "failed=2")
	assert.Contains(t, out, "2 files failed to process")
	assert.NotContains(t, out, "file skipped", "per-file details are debug output")

	buf.Reset()
	New(nil, WithSource(mem), WithLogger(logger)).
		AnalyzeFiles(context.Background(), "", []string{"a.js"})
	assert.Empty(t, buf.String())
}

func TestAnalyzeFilesTooLarge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scan.MaxFileSize = 20

	src := source.NewMemory(map[string]string{
		"small.js": "function s() {}",
		"big.js":   "function big() { return '" + strings.Repeat("x", 64) + "'; }",
	})

	report := New(cfg, WithSource(src)).AnalyzeFiles(context.Background(), "", []string{"small.js", "big.js"})

	assert.Equal(t, []string{"small.js"}, filePaths(report))
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, models.WarningTooLarge, report.Warnings[0].Kind)
	assert.Equal(t, "big.js", report.Warnings[0].Path)
}

func TestAnalyzeFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := source.NewMemory(map[string]string{"a.js": "function a() {}", "b.js": "function b() {}"})
	report := New(nil, WithSource(src)).AnalyzeFiles(ctx, "", []string{"a.js", "b.js"})

	assert.True(t, report.Summary.Incomplete)
	assert.Empty(t, report.Files)
	require.Len(t, report.Warnings, 2)
	for _, w := range report.Warnings {
		assert.Equal(t, models.WarningSkipped, w.Kind)
	}
}

func TestAnalyzeFilesDeterministic(t *testing.T) {
	files := map[string]string{}
	var names []string
	for _, n := range []string{"e", "b", "d", "a", "c", "f", "h", "g"} {
		path := n + ".js"
		files[path] = "function " + n + "1() { shared(); }\nfunction shared() {}\n"
		names = append(names, path)
	}
	src := source.NewMemory(files)

	first, err := json.Marshal(New(nil, WithSource(src)).AnalyzeFiles(context.Background(), "", names))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(New(nil, WithSource(src)).AnalyzeFiles(context.Background(), "", names))
		require.NoError(t, err)
		assert.JSONEq(t, string(first), string(again))
	}
}

func TestCrossFileFirstPathWins(t *testing.T) {
	src := source.NewMemory(map[string]string{
		"a.js": "function util() {}",
		"b.js": "function util() {}",
		"c.js": "function run() { util(); }",
	})
	report := New(nil, WithSource(src)).AnalyzeFiles(context.Background(), "", []string{"c.js", "b.js", "a.js"})

	assert.Equal(t, []models.CrossFileDependency{
		{Caller: "run", CallerFile: "c.js", Callee: "util", CalleeFile: "a.js"},
	}, report.Summary.CrossFileDependencies)
}

func TestCrossFileLocalNamesShadow(t *testing.T) {
	src := source.NewMemory(map[string]string{
		"a.js": "function util() {}",
		"b.js": "function util() {}\nfunction run() { util(); }",
	})
	report := New(nil, WithSource(src)).AnalyzeFiles(context.Background(), "", []string{"a.js", "b.js"})
	assert.Empty(t, report.Summary.CrossFileDependencies)
}

func TestAnalyzeProgress(t *testing.T) {
	var ticks atomic.Int32
	src := source.NewMemory(map[string]string{"a.js": "", "b.js": "", "c.js": ""})
	New(nil, WithSource(src), WithProgress(func(string) { ticks.Add(1) })).
		AnalyzeFiles(context.Background(), "", []string{"a.js", "b.js", "c.js"})
	assert.Equal(t, int32(3), ticks.Load())
}

func TestAnalyzeWithCache(t *testing.T) {
	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)

	mem := source.NewMemory(map[string]string{"a.js": "function a() { b(); }\nfunction b() {}"})
	first := New(nil, WithSource(mem), WithCache(c)).AnalyzeFiles(context.Background(), "", []string{"a.js"})

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)

	second := New(nil, WithSource(mem), WithCache(c)).AnalyzeFiles(context.Background(), "", []string{"a.js"})
	assert.Equal(t, first.Files[0].Functions, second.Files[0].Functions)
	assert.Equal(t, first.Files[0].Dependencies, second.Files[0].Dependencies)

	changed := source.NewMemory(map[string]string{"a.js": "function a() {}\nfunction b() { a(); }"})
	third := New(nil, WithSource(changed), WithCache(c)).AnalyzeFiles(context.Background(), "", []string{"a.js"})
	assert.Equal(t, []string{"a"}, third.Files[0].Function("b").Dependencies)
}

func TestAnalyzeReplacesCorruptCacheEntry(t *testing.T) {
	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)

	content := "function a() { b(); }\nfunction b() {}"
	key := "a.js@" + Fingerprint(config.DefaultConfig())
	require.NoError(t, c.Store(key, []byte(content), []byte(`"not a report"`)))

	mem := source.NewMemory(map[string]string{"a.js": content})
	report := New(nil, WithSource(mem), WithCache(c)).AnalyzeFiles(context.Background(), "", []string{"a.js"})
	require.Len(t, report.Files, 1)
	assert.Equal(t, []string{"b"}, report.Files[0].Function("a").Dependencies)

	data, ok := c.Lookup(key, []byte(content))
	require.True(t, ok)
	var cached struct {
		Report *models.AnalysisReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(data, &cached))
	require.NotNil(t, cached.Report)
	assert.Equal(t, "a.js", cached.Report.Path)
}

func TestFingerprint(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	b.Thresholds.DependencyCount = 3
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))

	c := config.DefaultConfig()
	c.Output.Format = "json"
	assert.Equal(t, Fingerprint(a), Fingerprint(c))
}

func TestDisplayPath(t *testing.T) {
	root := filepath.Join("tmp", "proj")
	assert.Equal(t, "src/app.js", displayPath(root, filepath.Join(root, "src", "app.js")))
	assert.Equal(t, "app.js", displayPath("", "app.js"))
	assert.Equal(t, "other/x.js", displayPath(root, filepath.Join("other", "x.js")))
}
