package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/store"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loaded, err := shared.LoadConfig("config.toml"); err == nil {
			config = loaded
		} else {
			logger.Warn("failed to parse config.toml, using defaults", "error", err)
		}
	}

	var kv store.KV
	if sqlite, err := store.NewSQLite(config.Store.Path); err == nil {
		defer sqlite.Close()
		kv = sqlite
	} else {
		logger.Warn("failed to open store, falling back to in-memory",
			"path", config.Store.Path, "error", err)
		kv = store.NewMemory()
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		KV:     kv,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "spotify-mcp",
		Usage:    "Spotify gateway for MCP agents",
		Version:  version,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrMissingCredentials) {
			logger.Fatal("Spotify credentials not configured; run `spotify-mcp setup` and fill in config.toml")
		}
		logger.Fatalf("application error: %v", err)
	}
}
