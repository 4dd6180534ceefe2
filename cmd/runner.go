package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/auth"
	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/preview"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/store"
	"github.com/jonboulle/clockwork"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	kv      store.KV
	clock   clockwork.Clock
	auth    *auth.Manager
	spotify *services.Spotify
	cache   *cache.Cache
	broker  *preview.Broker
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	KV      store.KV
	Clock   clockwork.Clock
	Auth    *auth.Manager
	Spotify *services.Spotify
	Cache   *cache.Cache
	Broker  *preview.Broker
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided dependencies, filling in defaults for anything unset.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.KV == nil {
		opts.KV = store.NewMemory()
	}
	if opts.Cache == nil {
		opts.Cache = cache.New(opts.KV, opts.Clock, opts.Logger)
	}

	return &Runner{
		config:  opts.Config,
		kv:      opts.KV,
		clock:   opts.Clock,
		auth:    opts.Auth,
		spotify: opts.Spotify,
		cache:   opts.Cache,
		broker:  opts.Broker,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, serveCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// connect builds the Spotify-facing dependency chain from the loaded
// configuration. Called lazily so commands that never touch the API
// (setup, cache) work without credentials.
func (r *Runner) connect() error {
	if r.auth != nil && r.spotify != nil && r.broker != nil {
		return nil
	}

	manager, err := auth.NewManager(r.config.Credentials.Spotify.Map(), r.kv, r.clock, r.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Spotify auth: %w", err)
	}

	retry := services.NewBackoff(r.config.Retry, r.clock, r.logger)

	r.auth = manager
	r.spotify = services.NewSpotify(manager, r.cache, retry, r.config.Cache, r.logger)
	r.broker = preview.NewBroker(r.spotify, r.config.Preview.Expiry(), r.clock, r.logger)
	return nil
}

// loadConfig re-reads configuration from the path given on the command
// line. The config loaded at startup stays in place when the flag does
// not point at a readable file.
func (r *Runner) loadConfig(cmd *cli.Command) {
	path := cmd.String("config")
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warnf("failed to load config from %v: %v", path, err)
		return
	}
	r.config = config
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
