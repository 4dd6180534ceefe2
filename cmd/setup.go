package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/store"
	"github.com/desertthunder/spotify-mcp/internal/ui"
	"github.com/urfave/cli/v3"
)

// Setup writes a starter config file and initializes the store schema.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.writePlainln("%s", ui.Default.Warn("⚠ Config file already exists at "+configPath))
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlainln("%s", ui.Default.OK("✓ Config file created at "+configPath))
	}

	config := r.config
	if loaded, err := shared.LoadConfig(configPath); err == nil {
		config = loaded
	}

	r.logger.Info("initializing store", "path", config.Store.Path)
	kv, err := store.NewSQLite(config.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer kv.Close()

	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Spotify client_id and client_secret to %s\n", configPath)
	r.writePlain("2. Run `spotify-mcp auth login` to connect your account\n")
	r.writePlain("3. Point your MCP client at `spotify-mcp serve`\n")
	return nil
}
