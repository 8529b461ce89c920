package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/modsplit/pkg/config"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}
}

func relSet(t *testing.T, root string, files []string) map[string]bool {
	t.Helper()
	found := make(map[string]bool)
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel(%s): %v", f, err)
		}
		found[filepath.ToSlash(rel)] = true
	}
	return found
}

func TestNewScanner(t *testing.T) {
	s := NewScanner(nil)
	if s == nil {
		t.Fatal("NewScanner(nil) returned nil")
	}
	if s.config == nil {
		t.Error("scanner.config should not be nil when passing nil")
	}

	cfg := config.DefaultConfig()
	s = NewScanner(cfg)
	if s.config != cfg {
		t.Error("scanner.config should be the provided config")
	}
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.js":               "function a() {}\n",
		"index.html":           "<script>function b() {}</script>\n",
		"lib/util.mjs":         "export const c = () => 1;\n",
		"lib/legacy.cjs":       "var d = function() {};\n",
		"ui/view.jsx":          "function View() {}\n",
		"README.md":            "# readme\n",
		"server/main.go":       "package main\n",
		"styles/site.css":      "body {}\n",
		"pages/about.htm":      "<p>about</p>\n",
		"vendor/jquery.min.js": "!function(){}\n",
	})

	s := NewScanner(nil)
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	found := relSet(t, tmpDir, result)
	want := []string{"app.js", "index.html", "lib/util.mjs", "lib/legacy.cjs", "ui/view.jsx", "pages/about.htm"}
	if len(result) != len(want) {
		t.Errorf("ScanDir() found %d files, want %d: %v", len(result), len(want), result)
	}
	for _, name := range want {
		if !found[name] {
			t.Errorf("File %s was not found", name)
		}
	}
	if found["vendor/jquery.min.js"] {
		t.Error("minified file should be excluded by the default patterns")
	}
}

func TestScanDirSorted(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"z.js":     "",
		"a/b.js":   "",
		"a.js":     "",
		"m/n/o.js": "",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	for i := 1; i < len(result); i++ {
		if result[i-1] >= result[i] {
			t.Errorf("ScanDir() not sorted: %q before %q", result[i-1], result[i])
		}
	}
}

func TestScanDirExcludesDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.js":                     "",
		"node_modules/lib/index.js":  "",
		".vscode/settings.js":        "",
		".modsplit/cache/report.js":  "",
		"src/node_modules/nested.js": "",
		"src/main.js":                "",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	found := relSet(t, tmpDir, result)
	if len(found) != 2 || !found["app.js"] || !found["src/main.js"] {
		t.Errorf("ScanDir() = %v, want only app.js and src/main.js", found)
	}
}

func TestScanDirCustomExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"a.js":   "",
		"b.html": "",
		"c.ts":   "",
	})

	cfg := config.DefaultConfig()
	cfg.Scan.Extensions = []string{".ts"}

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	found := relSet(t, tmpDir, result)
	if len(found) != 1 || !found["c.ts"] {
		t.Errorf("ScanDir() = %v, want only c.ts", found)
	}
}

func TestScanDirIncludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.js":             "",
		"src/main.js":        "",
		"src/deep/helper.js": "",
		"test/spec.js":       "",
	})

	cfg := config.DefaultConfig()
	cfg.Scan.Include = []string{"src/**"}

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	found := relSet(t, tmpDir, result)
	if len(found) != 2 || !found["src/main.js"] || !found["src/deep/helper.js"] {
		t.Errorf("ScanDir() = %v, want the two files under src", found)
	}

	cfg.Scan.Include = []string{"*.js"}
	result, err = NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	found = relSet(t, tmpDir, result)
	if len(found) != 1 || !found["app.js"] {
		t.Errorf("single star should not cross directories, got %v", found)
	}
}

func TestScanDirInvalidIncludeGlob(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scan.Include = []string{"src/[a-"}

	if _, err := NewScanner(cfg).ScanDir(t.TempDir()); err == nil {
		t.Error("ScanDir() should fail on an invalid include glob")
	}
}

func TestScanDirExcludesPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.js":         "",
		"app.test.js":    "",
		"lib/x.test.js":  "",
		"generated/a.js": "",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Patterns = []string{"*.test.js", "generated/"}

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	found := relSet(t, tmpDir, result)
	if len(found) != 1 || !found["app.js"] {
		t.Errorf("ScanDir() = %v, want only app.js", found)
	}
}

func TestScanDirWithGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".gitignore":     "skipme/\nbundle.js\n",
		"main.js":        "",
		"bundle.js":      "",
		"skipme/skip.js": "",
		"src/app.js":     "",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = true

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	found := relSet(t, tmpDir, result)
	if !found["main.js"] || !found["src/app.js"] {
		t.Errorf("Should find main.js and src/app.js, got %v", found)
	}
	if found["skipme/skip.js"] || found["bundle.js"] {
		t.Errorf("gitignored files should be skipped, got %v", found)
	}
}

func TestScanDirDisabledGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".gitignore":      "ignored/\n",
		"ignored/file.js": "",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if !relSet(t, tmpDir, result)["ignored/file.js"] {
		t.Error("With gitignore disabled, should find files in 'ignored' directory")
	}
}

func TestScanDirEmptyDirectory(t *testing.T) {
	result, err := NewScanner(nil).ScanDir(t.TempDir())
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("ScanDir() on empty dir = %v, want none", result)
	}
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"app.js":     "",
		"main.go":    "",
		"lib.min.js": "",
	})

	tests := []struct {
		name string
		want bool
	}{
		{"app.js", true},
		{"main.go", false},
		{"lib.min.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewScanner(nil).ScanFile(filepath.Join(tmpDir, tt.name))
			if err != nil {
				t.Fatalf("ScanFile() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ScanFile(%s) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}

	if ok, _ := NewScanner(nil).ScanFile(tmpDir); ok {
		t.Error("ScanFile() on a directory should be false")
	}
}

func TestScanFileNonExistent(t *testing.T) {
	if _, err := NewScanner(nil).ScanFile("/nonexistent/file.js"); err == nil {
		t.Error("ScanFile() should error on a missing file")
	}
}

func TestIsWithinRoot(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		path string
		root string
		want bool
	}{
		{"same path", tmpDir, tmpDir, true},
		{"child path", filepath.Join(tmpDir, "subdir", "file.js"), tmpDir, true},
		{"path outside root", "/some/other/path", tmpDir, false},
		{"parent path", filepath.Dir(tmpDir), tmpDir, false},
		{"similar prefix but different dir", tmpDir + "2/file.js", tmpDir, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isWithinRoot(tt.path, tt.root)
			if got != tt.want {
				t.Errorf("isWithinRoot(%q, %q) = %v, want %v", tt.path, tt.root, got, tt.want)
			}
		})
	}
}

func TestFindGitRoot(t *testing.T) {
	tmpDir := t.TempDir()
	if result := findGitRoot(tmpDir); result != "" {
		t.Errorf("findGitRoot() on non-git dir should return empty string, got %q", result)
	}

	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create .git dir: %v", err)
	}
	if result := findGitRoot(tmpDir); result != tmpDir {
		t.Errorf("findGitRoot() should return %q, got %q", tmpDir, result)
	}

	subDir := filepath.Join(tmpDir, "src", "pkg")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if result := findGitRoot(subDir); result != tmpDir {
		t.Errorf("findGitRoot() from subdir should return %q, got %q", tmpDir, result)
	}
}

func TestScanDirWithUnresolvableSymlink(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.Symlink("/nonexistent/path/file.js", filepath.Join(tmpDir, "dangling.js")); err != nil {
		t.Skip("Symlinks not supported on this system")
	}
	writeTree(t, tmpDir, map[string]string{"real.js": ""})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("ScanDir() should find 1 file (skipping dangling symlink), got %d", len(result))
	}
}

func TestScanDirWithSymlinkOutsideRoot(t *testing.T) {
	tmpDir := t.TempDir()
	outsideDir := t.TempDir()
	writeTree(t, outsideDir, map[string]string{"outside.js": ""})
	writeTree(t, tmpDir, map[string]string{"inside.js": ""})

	if err := os.Symlink(filepath.Join(outsideDir, "outside.js"), filepath.Join(tmpDir, "linked.js")); err != nil {
		t.Skip("Symlinks not supported on this system")
	}

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if relSet(t, tmpDir, result)["linked.js"] {
		t.Error("ScanDir() should not follow symlinks outside the root directory")
	}
}
