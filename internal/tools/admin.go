package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerAdminTools(s *server.MCPServer, deps Deps) {
	s.AddTool(mcp.NewTool("auth_status",
		mcp.WithDescription("Check whether Spotify credentials are stored"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Auth.IsAuthenticated() {
			return jsonResult(map[string]any{"authenticated": true})
		}
		return jsonResult(map[string]any{
			"authenticated": false,
			"hint":          "Run `spotify-mcp auth login` in a terminal to connect a Spotify account.",
		})
	})

	s.AddTool(mcp.NewTool("clear_cache",
		mcp.WithDescription("Drop every cached Spotify response"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := deps.Cache.Stats()
		if err != nil {
			return errResult(err)
		}
		if err := deps.Cache.Clear(); err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"cleared_entries": stats.Entries})
	})

	s.AddTool(mcp.NewTool("get_cache_stats",
		mcp.WithDescription("Report cache entry count and hit/miss counters"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := deps.Cache.Stats()
		if err != nil {
			return errResult(err)
		}
		return jsonResult(stats)
	})
}
