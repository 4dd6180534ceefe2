package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerLibraryTools(s *server.MCPServer, deps Deps) {
	s.AddTool(mcp.NewTool("get_user_profile",
		mcp.WithDescription("Get the authenticated user's Spotify profile"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		user, err := deps.Spotify.Profile(ctx)
		if err != nil {
			return errResult(err)
		}
		return jsonResult(user)
	})

	s.AddTool(mcp.NewTool("get_saved_tracks",
		mcp.WithDescription("Get tracks saved in the user's library"),
		mcp.WithNumber("limit", mcp.Description("Page size (1-50, default 20)")),
		mcp.WithNumber("offset", mcp.Description("Page offset (default 0)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, err := deps.Spotify.SavedTracks(ctx, req.GetInt("limit", 20), req.GetInt("offset", 0))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(page)
	})

	s.AddTool(mcp.NewTool("get_top_items",
		mcp.WithDescription("Get the user's top tracks or artists"),
		mcp.WithString("type", mcp.Required(), mcp.Description("Either tracks or artists"),
			mcp.Enum("tracks", "artists")),
		mcp.WithString("time_range", mcp.Description("short_term, medium_term, or long_term (default medium_term)"),
			mcp.Enum("short_term", "medium_term", "long_term")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (1-50, default 20)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		itemType, err := req.RequireString("type")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		timeRange := req.GetString("time_range", "medium_term")
		limit := req.GetInt("limit", 20)

		switch itemType {
		case "tracks":
			tracks, err := deps.Spotify.TopTracks(ctx, timeRange, limit)
			if err != nil {
				return errResult(err)
			}
			return jsonResult(map[string]any{"tracks": tracks})
		case "artists":
			artists, err := deps.Spotify.TopArtists(ctx, timeRange, limit)
			if err != nil {
				return errResult(err)
			}
			return jsonResult(map[string]any{"artists": artists})
		default:
			return mcp.NewToolResultError("type must be tracks or artists"), nil
		}
	})

	s.AddTool(mcp.NewTool("get_recently_played",
		mcp.WithDescription("Get the user's recently played tracks"),
		mcp.WithNumber("limit", mcp.Description("Maximum results (1-50, default 20)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		items, err := deps.Spotify.RecentlyPlayed(ctx, req.GetInt("limit", 20))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"items": items})
	})

	s.AddTool(mcp.NewTool("get_followed_artists",
		mcp.WithDescription("Get artists the user follows"),
		mcp.WithNumber("limit", mcp.Description("Maximum results (1-50, default 20)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		artists, err := deps.Spotify.FollowedArtists(ctx, req.GetInt("limit", 20))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"artists": artists})
	})

	s.AddTool(mcp.NewTool("get_available_markets",
		mcp.WithDescription("Get the country codes the Spotify catalog serves"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		markets, err := deps.Spotify.AvailableMarkets(ctx)
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"markets": markets})
	})
}
