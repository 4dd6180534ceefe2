package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotify-mcp/internal/ui"
	"github.com/urfave/cli/v3"
)

// CacheStats prints entry and hit/miss counters for the response cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	stats, err := r.cache.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	r.writePlainHeader(ui.Default.Title("Response Cache"))
	r.writePlain("Entries: %d\n", stats.Entries)
	r.writePlain("Hits:    %d\n", stats.Hits)
	r.writePlain("Misses:  %d\n", stats.Misses)
	return nil
}

// CacheClear drops every cached response. Stored credentials are untouched.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	entries := 0
	if stats, err := r.cache.Stats(); err == nil {
		entries = stats.Entries
	}

	if err := r.cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.writePlainln("%s", ui.Default.OK(fmt.Sprintf("✓ Cleared %d cached responses", entries)))
	return nil
}
