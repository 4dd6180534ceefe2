package main

import (
	"context"

	"github.com/desertthunder/spotify-mcp/internal/tools"
	"github.com/urfave/cli/v3"
)

// Serve runs the MCP tool server on stdin/stdout until the client hangs
// up. Stdout carries the protocol stream, so all logging goes to stderr.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.connect(); err != nil {
		return err
	}

	if !r.auth.IsAuthenticated() {
		r.logger.Warn("no Spotify account connected; tools will ask for `spotify-mcp auth login`")
	}

	srv := tools.NewServer(tools.Deps{
		Auth:    r.auth,
		Spotify: r.spotify,
		Broker:  r.broker,
		Cache:   r.cache,
		Logger:  r.logger,
	}, version)

	r.logger.Info("serving MCP tools over stdio", "version", version)
	return tools.Serve(srv)
}
