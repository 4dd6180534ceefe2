package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerPlayerTools(s *server.MCPServer, deps Deps) {
	s.AddTool(mcp.NewTool("get_playback_state",
		mcp.WithDescription("Get the current playback state (device, track, progress)"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		state, err := deps.Spotify.PlaybackState(ctx)
		if err != nil {
			return errResult(err)
		}
		return jsonResult(state)
	})

	s.AddTool(mcp.NewTool("get_current_playing",
		mcp.WithDescription("Get the currently playing track"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		state, err := deps.Spotify.CurrentlyPlaying(ctx)
		if err != nil {
			return errResult(err)
		}
		if state == nil {
			return mcp.NewToolResultText("Nothing is playing right now."), nil
		}
		return jsonResult(state)
	})

	s.AddTool(mcp.NewTool("get_available_devices",
		mcp.WithDescription("List the user's available playback devices"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		devices, err := deps.Spotify.Devices(ctx)
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"devices": devices})
	})

	s.AddTool(mcp.NewTool("play_track",
		mcp.WithDescription("Play a track, or resume playback when no track is given"),
		mcp.WithString("track_id", mcp.Description("Track ID or URI to play; omit to resume")),
		mcp.WithString("device_id", mcp.Description("Target device ID (optional)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		trackID := req.GetString("track_id", "")
		if err := deps.Spotify.Play(ctx, trackID, req.GetString("device_id", "")); err != nil {
			return errResult(err)
		}
		if trackID == "" {
			return mcp.NewToolResultText("Playback resumed."), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Playing %s.", trackID)), nil
	})

	s.AddTool(mcp.NewTool("pause_playback",
		mcp.WithDescription("Pause playback"),
		mcp.WithString("device_id", mcp.Description("Target device ID (optional)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := deps.Spotify.Pause(ctx, req.GetString("device_id", "")); err != nil {
			return errResult(err)
		}
		return mcp.NewToolResultText("Playback paused."), nil
	})

	s.AddTool(mcp.NewTool("next_track",
		mcp.WithDescription("Skip to the next track"),
		mcp.WithString("device_id", mcp.Description("Target device ID (optional)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := deps.Spotify.Next(ctx, req.GetString("device_id", "")); err != nil {
			return errResult(err)
		}
		return mcp.NewToolResultText("Skipped to the next track."), nil
	})

	s.AddTool(mcp.NewTool("previous_track",
		mcp.WithDescription("Skip back to the previous track"),
		mcp.WithString("device_id", mcp.Description("Target device ID (optional)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := deps.Spotify.Previous(ctx, req.GetString("device_id", "")); err != nil {
			return errResult(err)
		}
		return mcp.NewToolResultText("Skipped to the previous track."), nil
	})

	s.AddTool(mcp.NewTool("set_volume",
		mcp.WithDescription("Set playback volume"),
		mcp.WithNumber("volume_percent", mcp.Required(), mcp.Description("Volume percentage (0-100)")),
		mcp.WithString("device_id", mcp.Description("Target device ID (optional)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		volume := req.GetInt("volume_percent", -1)
		if err := deps.Spotify.SetVolume(ctx, volume, req.GetString("device_id", "")); err != nil {
			return errResult(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Volume set to %d%%.", volume)), nil
	})

	s.AddTool(mcp.NewTool("seek_position",
		mcp.WithDescription("Seek to a position in the current track"),
		mcp.WithNumber("position_ms", mcp.Required(), mcp.Description("Position in milliseconds")),
		mcp.WithString("device_id", mcp.Description("Target device ID (optional)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		position := req.GetInt("position_ms", -1)
		if err := deps.Spotify.Seek(ctx, position, req.GetString("device_id", "")); err != nil {
			return errResult(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Seeked to %dms.", position)), nil
	})

	s.AddTool(mcp.NewTool("set_repeat_mode",
		mcp.WithDescription("Set the repeat mode"),
		mcp.WithString("state", mcp.Required(), mcp.Description("Repeat mode: track, context, or off"),
			mcp.Enum("track", "context", "off")),
		mcp.WithString("device_id", mcp.Description("Target device ID (optional)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		state, err := req.RequireString("state")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := deps.Spotify.SetRepeat(ctx, state, req.GetString("device_id", "")); err != nil {
			return errResult(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Repeat mode set to %s.", state)), nil
	})

	s.AddTool(mcp.NewTool("set_shuffle",
		mcp.WithDescription("Toggle shuffle mode"),
		mcp.WithBoolean("state", mcp.Required(), mcp.Description("true to shuffle, false to play in order")),
		mcp.WithString("device_id", mcp.Description("Target device ID (optional)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		on := req.GetBool("state", false)
		if err := deps.Spotify.SetShuffle(ctx, on, req.GetString("device_id", "")); err != nil {
			return errResult(err)
		}
		if on {
			return mcp.NewToolResultText("Shuffle enabled."), nil
		}
		return mcp.NewToolResultText("Shuffle disabled."), nil
	})
}
