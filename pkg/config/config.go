// Package config loads and validates modsplit configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig is wrapped by every loading and validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Fallback policies understood by the classifier.
const (
	FallbackDefaultBucket         = "default-bucket"
	FallbackInheritFromDependency = "inherit-from-dependency"
)

// Config holds all configuration options for modsplit.
type Config struct {
	// Problem-rule thresholds
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds"`

	// Global-state and platform-API markers
	Symbols SymbolConfig `koanf:"symbols" toml:"symbols"`

	// Ordered module table; the first matching rule wins
	Modules []ModuleConfig `koanf:"modules" toml:"modules"`

	Classification ClassificationConfig `koanf:"classification" toml:"classification"`

	// Candidate file discovery
	Scan ScanConfig `koanf:"scan" toml:"scan"`

	// File exclusion rules
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Per-file report cache
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// ThresholdConfig defines problem-rule thresholds. A function is flagged
// when its metric exceeds the threshold.
type ThresholdConfig struct {
	DependencyCount int `koanf:"dependency_count" toml:"dependency_count"`
	DependentCount  int `koanf:"dependent_count" toml:"dependent_count"`
	Complexity      int `koanf:"complexity" toml:"complexity" comment:"0 disables the complexity rule"`
}

// SymbolConfig lists the markers used for the per-function flags.
type SymbolConfig struct {
	Globals     []string `koanf:"globals" toml:"globals"`
	PlatformAPI []string `koanf:"platform_api" toml:"platform_api"`
}

// ModuleConfig is one entry of the module table.
type ModuleConfig struct {
	Tag      string   `koanf:"tag" toml:"tag"`
	Keywords []string `koanf:"keywords" toml:"keywords"`
}

// ClassificationConfig controls where unmatched functions go.
type ClassificationConfig struct {
	DefaultModule  string `koanf:"default_module" toml:"default_module"`
	FallbackPolicy string `koanf:"fallback_policy" toml:"fallback_policy" comment:"default-bucket or inherit-from-dependency"`
}

// ScanConfig controls which files are analyzed.
type ScanConfig struct {
	Extensions  []string `koanf:"extensions" toml:"extensions"`
	Include     []string `koanf:"include" toml:"include" comment:"optional glob allow-list, relative to the root"`
	MaxFileSize int64    `koanf:"max_file_size" toml:"max_file_size" comment:"bytes, 0 = unlimited"`
	Workers     int      `koanf:"workers" toml:"workers" comment:"0 = number of CPUs"`
}

// ExcludeConfig defines file exclusion rules.
type ExcludeConfig struct {
	Dirs      []string `koanf:"dirs" toml:"dirs"`
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" comment:"hours"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" comment:"text, json, markdown, toon or yaml"`
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			DependencyCount: 10,
			DependentCount:  15,
			Complexity:      0,
		},
		Symbols: SymbolConfig{
			Globals: []string{
				"appData",
				"schoolData",
				"complexityLevels",
				"errorTypes",
				"workTypes",
				"vprLevels",
				"vprCompetencies",
				"functionalLiteracyTypes",
				"literacyContexts",
				"gradesChartInstance",
				"complexityChartInstance",
				"saveTimeout",
				"currentStep",
				"criteriaMode",
			},
			PlatformAPI: []string{
				"document.",
				"getElementById",
				"querySelector",
				"addEventListener",
				"innerHTML",
				"appendChild",
				".style.",
			},
		},
		Modules: []ModuleConfig{
			{Tag: "core", Keywords: []string{"showNotification", "debounce", "saveData", "loadAppData", "initialize", "escapeHtml", "safe", "validate", "check"}},
			{Tag: "setup", Keywords: []string{"workType", "criteria", "step", "wizard", "selectWorkType", "updateWorkType", "nextStep", "prevStep"}},
			{Tag: "tasks", Keywords: []string{"task", "addTask", "removeTask", "duplicateTask", "taxonomy", "moveTask", "parseTask"}},
			{Tag: "students", Keywords: []string{"student", "addStudent", "class", "importSchool", "filterStudents", "moveStudent", "sortStudents"}},
			{Tag: "results", Keywords: []string{"result", "calculate", "grade", "score", "renderResults", "updateScore", "fillPattern", "bulkEdit", "copyRow"}},
			{Tag: "analytics", Keywords: []string{"analyze", "chart", "report", "generate", "recommendation", "statistics", "kpi", "dashboard", "performance"}},
			{Tag: "export", Keywords: []string{"export", "import", "print", "PDF", "Excel", "HTML", "JSON", "download", "saveAs"}},
			{Tag: "ui", Keywords: []string{"showModal", "tab", "notification", "tour", "pwa", "toggle", "show"}},
			{Tag: "errors", Keywords: []string{"error", "Error", "addError", "deleteError", "showError"}},
			{Tag: "charts", Keywords: []string{"chart", "Chart", "renderChart", "updateChart", "createChart"}},
		},
		Classification: ClassificationConfig{
			DefaultModule:  "core",
			FallbackPolicy: FallbackDefaultBucket,
		},
		Scan: ScanConfig{
			Extensions:  []string{".js", ".mjs", ".cjs", ".jsx", ".html", ".htm"},
			MaxFileSize: 0,
			Workers:     0,
		},
		Exclude: ExcludeConfig{
			Dirs: []string{
				"node_modules",
				".git",
				".vscode",
				".modsplit",
			},
			Patterns: []string{
				"*.min.js",
			},
			Gitignore: false,
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     ".modsplit/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// sliceKeys are list-valued keys that replace the default list entirely
// when set in a file.
var sliceKeys = []string{
	"symbols.globals",
	"symbols.platform_api",
	"modules",
	"scan.extensions",
	"scan.include",
	"exclude.dirs",
	"exclude.patterns",
}

// Load loads configuration from a file, layered over the defaults, and
// validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = kjson.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	raw, err := json.Marshal(k.Raw())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	cfg := DefaultConfig()
	for _, key := range sliceKeys {
		if k.Exists(key) {
			cfg.resetSlice(key)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) resetSlice(key string) {
	switch key {
	case "symbols.globals":
		c.Symbols.Globals = nil
	case "symbols.platform_api":
		c.Symbols.PlatformAPI = nil
	case "modules":
		c.Modules = nil
	case "scan.extensions":
		c.Scan.Extensions = nil
	case "scan.include":
		c.Scan.Include = nil
	case "exclude.dirs":
		c.Exclude.Dirs = nil
	case "exclude.patterns":
		c.Exclude.Patterns = nil
	}
}

// ConfigNames are the file names searched for, in order.
var ConfigNames = []string{
	"modsplit.toml",
	"modsplit.yaml",
	"modsplit.yml",
	"modsplit.json",
	".modsplit.toml",
	".modsplit.yaml",
	".modsplit.yml",
	".modsplit.json",
}

// LoadResult is the outcome of LoadConfig.
type LoadResult struct {
	Config *Config
	// Source is the file the config came from, empty for defaults.
	Source string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path    string
	baseDir string
}

// WithPath loads the given file instead of searching.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithBaseDir searches for a config file under dir instead of the working
// directory.
func WithBaseDir(dir string) LoadOption {
	return func(o *loadOptions) {
		o.baseDir = dir
	}
}

// LoadConfig loads the config from an explicit path or from the first file
// found in the base directory or its .modsplit directory. Without a file
// the defaults are returned. A file that exists but fails to load is an
// error, never silently replaced by defaults.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := &loadOptions{baseDir: "."}
	for _, opt := range opts {
		opt(o)
	}

	if o.path != "" {
		cfg, err := Load(o.path)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Source: o.path}, nil
	}

	searchDirs := []string{o.baseDir, filepath.Join(o.baseDir, ".modsplit")}
	for _, dir := range searchDirs {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				return nil, err
			}
			return &LoadResult{Config: cfg, Source: path}, nil
		}
	}

	return &LoadResult{Config: DefaultConfig()}, nil
}

// Validate enforces the rules the schema cannot express.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Thresholds.DependencyCount < 0 {
		add("thresholds.dependency_count must be >= 0")
	}
	if c.Thresholds.DependentCount < 0 {
		add("thresholds.dependent_count must be >= 0")
	}
	if c.Thresholds.Complexity < 0 {
		add("thresholds.complexity must be >= 0")
	}

	for i, sym := range c.Symbols.Globals {
		if strings.TrimSpace(sym) == "" {
			add("symbols.globals[%d] is empty", i)
		}
	}
	for i, p := range c.Symbols.PlatformAPI {
		if p == "" {
			add("symbols.platform_api[%d] is empty", i)
		}
	}

	if len(c.Modules) == 0 {
		add("modules must not be empty")
	}
	tags := make(map[string]bool, len(c.Modules))
	for i, m := range c.Modules {
		if m.Tag == "" {
			add("modules[%d].tag is empty", i)
			continue
		}
		if tags[m.Tag] {
			add("modules[%d].tag %q is duplicated", i, m.Tag)
		}
		tags[m.Tag] = true
		if len(m.Keywords) == 0 {
			add("modules[%d] (%s) has no keywords", i, m.Tag)
		}
		for j, kw := range m.Keywords {
			if kw == "" {
				add("modules[%d].keywords[%d] is empty", i, j)
			}
		}
	}

	if c.Classification.DefaultModule == "" {
		add("classification.default_module is empty")
	} else if len(c.Modules) > 0 && !tags[c.Classification.DefaultModule] {
		add("classification.default_module %q is not a module tag", c.Classification.DefaultModule)
	}
	switch c.Classification.FallbackPolicy {
	case FallbackDefaultBucket, FallbackInheritFromDependency:
	default:
		add("classification.fallback_policy %q is unknown", c.Classification.FallbackPolicy)
	}

	if len(c.Scan.Extensions) == 0 {
		add("scan.extensions must not be empty")
	}
	for i, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			add("scan.extensions[%d] %q must start with '.'", i, ext)
		}
	}
	for i, pattern := range c.Scan.Include {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			add("scan.include[%d] %q: %v", i, pattern, err)
		}
	}
	if c.Scan.MaxFileSize < 0 {
		add("scan.max_file_size must be >= 0")
	}
	if c.Scan.Workers < 0 {
		add("scan.workers must be >= 0")
	}

	if c.Cache.Enabled && c.Cache.Dir == "" {
		add("cache.dir is required when the cache is enabled")
	}
	if c.Cache.TTL < 0 {
		add("cache.ttl must be >= 0")
	}

	switch c.Output.Format {
	case "text", "json", "markdown", "toon", "yaml":
	default:
		add("output.format %q is unknown", c.Output.Format)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// IsExcludedDir reports whether a directory name is excluded.
func (c *Config) IsExcludedDir(name string) bool {
	for _, dir := range c.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}

// HasExtension reports whether path has one of the scanned extensions.
func (c *Config) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Scan.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
