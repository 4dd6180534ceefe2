package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerCatalogTools(s *server.MCPServer, deps Deps) {
	s.AddTool(mcp.NewTool("get_track",
		mcp.WithDescription("Get a track's details by ID"),
		mcp.WithString("track_id", mcp.Required(), mcp.Description("Spotify track ID")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		trackID, err := req.RequireString("track_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		track, err := deps.Spotify.Track(ctx, trackID)
		if err != nil {
			return errResult(err)
		}
		return jsonResult(track)
	})

	s.AddTool(mcp.NewTool("get_artist",
		mcp.WithDescription("Get an artist's details by ID"),
		mcp.WithString("artist_id", mcp.Required(), mcp.Description("Spotify artist ID")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		artistID, err := req.RequireString("artist_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		artist, err := deps.Spotify.Artist(ctx, artistID)
		if err != nil {
			return errResult(err)
		}
		return jsonResult(artist)
	})

	s.AddTool(mcp.NewTool("get_artist_top_tracks",
		mcp.WithDescription("Get an artist's most popular tracks"),
		mcp.WithString("artist_id", mcp.Required(), mcp.Description("Spotify artist ID")),
		mcp.WithString("market", mcp.Description("Two-letter country code (default US)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		artistID, err := req.RequireString("artist_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tracks, err := deps.Spotify.ArtistTopTracks(ctx, artistID, req.GetString("market", ""))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"tracks": tracks})
	})
}
