package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/modsplit/internal/cache"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the per-file report cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache statistics",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Delete every cached report",
				Action: runCacheClear,
			},
		},
	}
}

// openCache opens the configured cache directory even when caching is
// disabled, so that leftovers can still be inspected and removed.
func openCache(c *cli.Context) (*cache.Cache, error) {
	loaded, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return cache.New(loaded.Config.Cache.Dir, loaded.Config.Cache.TTL, true)
}

func runCacheStats(c *cli.Context) error {
	fc, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := fc.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Directory: %s\n", fc.Dir())
	fmt.Fprintf(w, "Entries:   %d\n", stats.Entries)
	fmt.Fprintf(w, "Size:      %d bytes\n", stats.TotalSize)
	if stats.Entries > 0 {
		fmt.Fprintf(w, "Oldest:    %s\n", stats.OldestAge.Round(time.Second))
		fmt.Fprintf(w, "Newest:    %s\n", stats.NewestAge.Round(time.Second))
	}
	return nil
}

func runCacheClear(c *cli.Context) error {
	fc, err := openCache(c)
	if err != nil {
		return err
	}
	if err := fc.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	color.Green("Cache cleared: %s", fc.Dir())
	return nil
}
