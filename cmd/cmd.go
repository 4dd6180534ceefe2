// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand writes a starter config file and initializes the store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the store",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand runs the MCP tool server on stdin/stdout.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve MCP tools over stdio",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Serve,
	}
}

// authCommand manages the Spotify account connection lifecycle.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Spotify account connection",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show whether an account is connected",
				Action: r.AuthStatus,
			},
			{
				Name:   "disconnect",
				Usage:  "Forget the stored Spotify credentials",
				Action: r.AuthDisconnect,
			},
		},
	}
}

// cacheCommand inspects and clears the response cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the response cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cache entry and hit counters",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Drop every cached response",
				Action: r.CacheClear,
			},
		},
	}
}
