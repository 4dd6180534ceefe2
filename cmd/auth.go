package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/spotify-mcp/internal/server"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/ui"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the OAuth2 authorization flow.
//
// Starts a local callback server, opens the browser for user consent,
// and persists the exchanged tokens in the store.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)
	if err := r.connect(); err != nil {
		return err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.auth.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(r.auth, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:    r.config.Server.Addr(),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("%s", ui.Default.Warn("⚠ Could not open browser automatically."))
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("authorization failed: %w", result.Error())
	}

	r.writePlainln("%s", ui.Default.OK("✓ Spotify account connected"))
	r.writePlain("You can now run: spotify-mcp serve\n")

	return nil
}

// AuthStatus reports whether a Spotify account is connected.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		r.writePlainln("%s", ui.Default.Warn("⚠ Spotify credentials not configured."))
		r.writePlain("Run `spotify-mcp setup` and fill in client_id and client_secret.\n")
		return nil
	}

	if r.auth.IsAuthenticated() {
		r.writePlainln("%s", ui.Default.OK("✓ Connected to Spotify"))
		return nil
	}

	r.writePlainln("%s", ui.Default.Warn("Not connected."))
	r.writePlain("Run: spotify-mcp auth login\n")
	return nil
}

// AuthDisconnect removes the stored tokens. The next `auth login` starts
// a fresh authorization.
func (r *Runner) AuthDisconnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		r.writePlainln("Nothing to disconnect.")
		return nil
	}

	if !r.auth.IsAuthenticated() {
		r.writePlainln("Nothing to disconnect.")
		return nil
	}

	if err := r.auth.Disconnect(); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}

	r.writePlainln("%s", ui.Default.OK("✓ Disconnected from Spotify"))
	return nil
}
