package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/modsplit/internal/cache"
	"github.com/panbanda/modsplit/internal/output"
	"github.com/panbanda/modsplit/internal/progress"
	"github.com/panbanda/modsplit/internal/report"
	"github.com/panbanda/modsplit/internal/scanner"
	"github.com/panbanda/modsplit/pkg/analyzer/project"
	"github.com/panbanda/modsplit/pkg/config"
	"github.com/panbanda/modsplit/pkg/models"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze function dependencies and suggest modules",
		ArgsUsage: "[path...]",
		Description: `Analyzes JavaScript and HTML files. A single file prints its full report;
directories print a project summary with cross-file dependencies.

Examples:
  modsplit analyze app.js
  modsplit analyze -f json src/
  modsplit analyze --detailed --out-dir reports/ .`,
		Flags: append(outputFlags(),
			&cli.BoolFlag{
				Name:  "detailed",
				Usage: "Include every file's report in project output",
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "Also write per-file JSON reports and summary.json to this directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of files analyzed in parallel (default from config, 0 = CPUs)",
			},
		),
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := loaded.Config
	if c.IsSet("workers") {
		cfg.Scan.Workers = c.Int("workers")
	}

	paths := getPaths(c)
	spinner := progress.NewSpinner("Scanning files...",
		progress.WithWriter(c.App.ErrWriter),
		progress.WithQuiet(c.Bool("quiet")))
	root, files, single, err := collectFiles(cfg, paths)
	if err != nil {
		spinner.FinishError(err)
		return err
	}
	spinner.FinishSuccess()
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := progress.NewTracker("Analyzing dependencies...", len(files),
		progress.WithWriter(c.App.ErrWriter),
		progress.WithQuiet(c.Bool("quiet") || single))

	opts := []project.Option{
		project.WithLogger(newLogger(c)),
		project.WithProgress(tracker.TickFile),
	}
	if cfg.Cache.Enabled && !c.Bool("no-cache") {
		fc, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
		if err != nil {
			color.Yellow("Cache disabled: %v", err)
		} else {
			opts = append(opts, project.WithCache(fc))
		}
	}

	rep := project.New(cfg, opts...).AnalyzeFiles(ctx, root, files)

	if dir := c.String("out-dir"); dir != "" {
		meta := report.Metadata{
			Root:         root,
			GeneratedAt:  time.Now().UTC(),
			Version:      version,
			ConfigSource: loaded.Source,
			Fingerprint:  project.Fingerprint(cfg),
		}
		if err := report.Write(dir, rep, meta); err != nil {
			tracker.FinishError(err)
			return err
		}
	}

	if rep.Summary.Incomplete {
		tracker.FinishSkipped("interrupted")
	} else {
		tracker.FinishSuccess()
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if single {
		if len(rep.Files) == 0 {
			w := rep.Warnings[0]
			return fmt.Errorf("%s: %s", w.Path, w.Message)
		}
		if err := formatter.Output(output.NewFileView(&rep.Files[0])); err != nil {
			return err
		}
	} else {
		if err := formatter.Output(output.NewProjectView(rep, c.Bool("detailed"))); err != nil {
			return err
		}
	}

	messages := output.NewWriterFormatter(output.FormatText, c.App.ErrWriter, formatter.Colored())
	if !single && formatter.Format() == output.FormatText {
		printWarnings(messages, rep.Warnings)
	}
	if dir := c.String("out-dir"); dir != "" {
		messages.Success("Report data written to %s", dir)
	}
	if rep.Summary.Incomplete {
		return fmt.Errorf("analysis interrupted: %d of %d files analyzed", rep.Summary.AnalyzedFiles, rep.Summary.TotalFiles)
	}
	return nil
}

// collectFiles expands paths into the files to analyze. Explicit file
// paths pass the same extension and exclusion rules as scanned ones. A lone
// file path is reported on its own; otherwise report paths are relative to root,
// which is the only directory given or empty.
func collectFiles(cfg *config.Config, paths []string) (root string, files []string, single bool, err error) {
	scan := scanner.NewScanner(cfg)

	var dirs int
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return "", nil, false, fmt.Errorf("invalid path %s: %w", path, err)
		}
		if !info.IsDir() {
			ok, err := scan.ScanFile(path)
			if err != nil {
				return "", nil, false, fmt.Errorf("invalid path %s: %w", path, err)
			}
			if ok {
				files = append(files, path)
			}
			continue
		}
		dirs++
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", nil, false, fmt.Errorf("invalid path %s: %w", path, err)
		}
		found, err := scan.ScanDir(absPath)
		if err != nil {
			return "", nil, false, fmt.Errorf("failed to scan directory %s: %w", path, err)
		}
		files = append(files, found...)
		root = absPath
	}

	if len(paths) == 1 && dirs == 0 {
		return filepath.Dir(paths[0]), files, true, nil
	}
	if dirs != 1 || len(paths) != 1 {
		root = ""
	}
	return root, files, false, nil
}

func printWarnings(f *output.Formatter, warnings []models.Warning) {
	for _, w := range warnings {
		f.Warning("%s [%s] %s", w.Path, w.Kind, w.Message)
	}
}
