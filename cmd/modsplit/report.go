package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/panbanda/modsplit/internal/output"
	"github.com/panbanda/modsplit/internal/report"
	"github.com/urfave/cli/v2"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Work with report directories written by analyze --out-dir",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Check that a report directory is complete and readable",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Report directory",
						Required: true,
					},
				},
				Action: runReportValidate,
			},
		},
	}
}

func runReportValidate(c *cli.Context) error {
	dataDir := c.String("data")
	messages := output.NewWriterFormatter(output.FormatText, c.App.Writer, !color.NoColor)

	problems := report.Validate(dataDir)
	if len(problems) > 0 {
		messages.Error("Report validation failed:")
		for _, p := range problems {
			fmt.Fprintf(c.App.Writer, "  - %s\n", p)
		}
		return fmt.Errorf("%d problem(s) in %s", len(problems), dataDir)
	}

	meta, summary, err := report.Load(dataDir)
	if err != nil {
		return err
	}
	messages.Success("Report valid: %s", dataDir)
	fmt.Fprintf(c.App.Writer, "  %d files, %d functions, %d problems (generated %s by %s)\n",
		len(summary.Files), summary.Summary.TotalFunctions, summary.Summary.TotalProblems,
		meta.GeneratedAt.Format("2006-01-02 15:04"), meta.Version)
	return nil
}
