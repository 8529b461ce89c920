package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/panbanda/modsplit/internal/output"
	"github.com/panbanda/modsplit/pkg/analyzer/project"
	"github.com/urfave/cli/v2"
)

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"g"},
		Usage:     "Render a file's call graph as a Mermaid diagram grouped by module",
		ArgsUsage: "<file>",
		Flags:     outputFlags(),
		Action:    runGraphCmd,
	}
}

func runGraphCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("graph takes exactly one file")
	}
	path := c.Args().First()

	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	rep := project.New(cfg, project.WithLogger(newLogger(c))).
		AnalyzeFiles(context.Background(), filepath.Dir(path), []string{path})
	if len(rep.Files) == 0 {
		w := rep.Warnings[0]
		return fmt.Errorf("%s: %s", w.Path, w.Message)
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(&output.MermaidView{Report: &rep.Files[0]})
}
