// package tools exposes the gateway's operations as MCP tools over
// stdio.
//
// Each tool is a thin mapping onto the services facade or the preview
// broker: argument extraction, one call, JSON result. Transport,
// retries, caching, and auth all live below this layer.
package tools

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/auth"
	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/preview"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "spotify-mcp"

// Deps are the wired components the tool handlers call into.
type Deps struct {
	Auth    *auth.Manager
	Spotify *services.Spotify
	Broker  *preview.Broker
	Cache   *cache.Cache
	Logger  *log.Logger
}

// NewServer builds the MCP server with every tool registered.
func NewServer(deps Deps, version string) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(nil)
	}

	s := server.NewMCPServer(serverName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	registerSearchTools(s, deps)
	registerCatalogTools(s, deps)
	registerLibraryTools(s, deps)
	registerPlaylistTools(s, deps)
	registerPlayerTools(s, deps)
	registerRecommendationTools(s, deps)
	registerAdminTools(s, deps)

	return s
}

// Serve runs the server over stdio until the client disconnects.
// Stdout belongs to the transport; all logging goes to stderr.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// jsonResult marshals a payload into a text result.
func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := shared.MarshalJSON(payload, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errResult maps an internal error onto agent-facing text. The agent
// sees what went wrong and what to do next, never raw HTTP detail.
func errResult(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, shared.ErrAuthRequired), errors.Is(err, shared.ErrRefreshFailed):
		return mcp.NewToolResultError("Spotify authorization required. Run `spotify-mcp auth login` in a terminal, then try again."), nil
	case errors.Is(err, shared.ErrRateLimited):
		return mcp.NewToolResultError("Spotify is rate limiting requests right now. Wait a moment and try again."), nil
	case errors.Is(err, shared.ErrPlanRestricted):
		return mcp.NewToolResultError("This operation requires a Spotify Premium subscription."), nil
	case errors.Is(err, shared.ErrPermissionDenied):
		return mcp.NewToolResultError("Spotify denied the request. The granted scopes may not cover this operation."), nil
	case errors.Is(err, shared.ErrNotFound):
		return mcp.NewToolResultError("Not found on Spotify. Check the ID and try again."), nil
	case errors.Is(err, shared.ErrPreviewNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("Confirmation failed: %v", err)), nil
	case errors.Is(err, shared.ErrInvalidInput):
		return mcp.NewToolResultError(fmt.Sprintf("Invalid input: %v", err)), nil
	case errors.Is(err, shared.ErrUpstreamUnavailable):
		return mcp.NewToolResultError("Spotify is unreachable right now. Try again shortly."), nil
	default:
		return mcp.NewToolResultError(err.Error()), nil
	}
}
