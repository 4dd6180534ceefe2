package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerPlaylistTools(s *server.MCPServer, deps Deps) {
	s.AddTool(mcp.NewTool("get_user_playlists",
		mcp.WithDescription("Get the user's playlists"),
		mcp.WithNumber("limit", mcp.Description("Page size (1-50, default 20)")),
		mcp.WithNumber("offset", mcp.Description("Page offset (default 0)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, err := deps.Spotify.Playlists(ctx, req.GetInt("limit", 20), req.GetInt("offset", 0))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(page)
	})

	s.AddTool(mcp.NewTool("get_playlist_tracks",
		mcp.WithDescription("Get the tracks in a playlist"),
		mcp.WithString("playlist_id", mcp.Required(), mcp.Description("Spotify playlist ID")),
		mcp.WithNumber("limit", mcp.Description("Page size (1-50, default 20)")),
		mcp.WithNumber("offset", mcp.Description("Page offset (default 0)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		playlistID, err := req.RequireString("playlist_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		page, err := deps.Spotify.PlaylistTracks(ctx, playlistID, req.GetInt("limit", 20), req.GetInt("offset", 0))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(page)
	})

	s.AddTool(mcp.NewTool("reorder_playlist_tracks",
		mcp.WithDescription("Move a range of tracks within a playlist"),
		mcp.WithString("playlist_id", mcp.Required(), mcp.Description("Spotify playlist ID")),
		mcp.WithNumber("range_start", mcp.Required(), mcp.Description("Index of the first track to move")),
		mcp.WithNumber("insert_before", mcp.Required(), mcp.Description("Index to insert the range before")),
		mcp.WithNumber("range_length", mcp.Description("Number of tracks to move (default 1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		playlistID, err := req.RequireString("playlist_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		snapshot, err := deps.Spotify.ReorderTracks(ctx, playlistID,
			req.GetInt("range_start", 0), req.GetInt("insert_before", 0), req.GetInt("range_length", 1))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"snapshot_id": snapshot})
	})

	s.AddTool(mcp.NewTool("preview_playlist_creation",
		mcp.WithDescription("Stage a playlist creation for user confirmation. Returns a correlation token and a summary; nothing is created until confirm_mutation is called with the token."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Playlist name")),
		mcp.WithString("description", mcp.Description("Playlist description")),
		mcp.WithBoolean("public", mcp.Description("Whether the playlist is public (default false)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		p, err := deps.Broker.PreviewCreatePlaylist(ctx, name,
			req.GetString("description", ""), req.GetBool("public", false))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(p)
	})

	s.AddTool(mcp.NewTool("preview_tracks_addition",
		mcp.WithDescription("Stage adding tracks to a playlist for user confirmation. Returns a correlation token and a summary; nothing changes until confirm_mutation is called with the token."),
		mcp.WithString("playlist_id", mcp.Required(), mcp.Description("Target playlist ID")),
		mcp.WithArray("track_ids", mcp.Required(), mcp.Description("Track IDs or spotify:track: URIs to add")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		playlistID, err := req.RequireString("playlist_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		p, err := deps.Broker.PreviewAddTracks(ctx, playlistID, req.GetStringSlice("track_ids", nil))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(p)
	})

	s.AddTool(mcp.NewTool("confirm_mutation",
		mcp.WithDescription("Execute a previously previewed mutation. The correlation token is single-use and expires."),
		mcp.WithString("correlation_token", mcp.Required(), mcp.Description("Token returned by a preview tool")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		token, err := req.RequireString("correlation_token")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := deps.Broker.Confirm(ctx, token)
		if err != nil {
			return errResult(err)
		}
		return jsonResult(result)
	})
}
