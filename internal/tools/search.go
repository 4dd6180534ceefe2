package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerSearchTools(s *server.MCPServer, deps Deps) {
	s.AddTool(mcp.NewTool("search_tracks",
		mcp.WithDescription("Search the Spotify catalog for tracks"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (1-50, default 20)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tracks, err := deps.Spotify.SearchTracks(ctx, query, req.GetInt("limit", 20))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"tracks": tracks})
	})

	s.AddTool(mcp.NewTool("search_artists",
		mcp.WithDescription("Search the Spotify catalog for artists"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (1-50, default 20)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		artists, err := deps.Spotify.SearchArtists(ctx, query, req.GetInt("limit", 20))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"artists": artists})
	})
}
