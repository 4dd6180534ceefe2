package tools

import (
	"context"

	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func recommendationQuery(req mcp.CallToolRequest) services.RecommendationQuery {
	query := services.RecommendationQuery{
		Limit:       req.GetInt("limit", 20),
		SeedArtists: req.GetStringSlice("seed_artists", nil),
		SeedGenres:  req.GetStringSlice("seed_genres", nil),
		SeedTracks:  req.GetStringSlice("seed_tracks", nil),
		Market:      req.GetString("market", ""),
	}

	// target_*/min_*/max_* audio feature tunables ride along as numbers.
	args := req.GetArguments()
	for name, value := range args {
		if !isTunable(name) {
			continue
		}
		if number, ok := value.(float64); ok {
			if query.Tunables == nil {
				query.Tunables = make(map[string]float64)
			}
			query.Tunables[name] = number
		}
	}
	return query
}

func isTunable(name string) bool {
	for _, prefix := range []string{"target_", "min_", "max_"} {
		if len(name) > len(prefix) && name[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

func registerRecommendationTools(s *server.MCPServer, deps Deps) {
	s.AddTool(mcp.NewTool("get_available_genres",
		mcp.WithDescription("List the genre seeds accepted by the recommendation engine"),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		genres, err := deps.Spotify.Genres(ctx)
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"genres": genres})
	})

	s.AddTool(mcp.NewTool("get_recommendations",
		mcp.WithDescription("Get track recommendations from seed artists, genres, and tracks (1-5 seeds total). Accepts target_/min_/max_ audio feature tunables."),
		mcp.WithArray("seed_artists", mcp.Description("Seed artist IDs")),
		mcp.WithArray("seed_genres", mcp.Description("Seed genre names")),
		mcp.WithArray("seed_tracks", mcp.Description("Seed track IDs")),
		mcp.WithString("market", mcp.Description("Two-letter country code (optional)")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (1-50, default 20)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tracks, err := deps.Spotify.Recommendations(ctx, recommendationQuery(req))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"tracks": tracks})
	})

	s.AddTool(mcp.NewTool("get_recommendations_by_mood",
		mcp.WithDescription("Get track recommendations tuned to a mood. Seeds are optional; random genre seeds are drawn when none are given."),
		mcp.WithString("mood", mcp.Required(), mcp.Description("Mood name"),
			mcp.Enum(services.Moods()...)),
		mcp.WithArray("seed_artists", mcp.Description("Seed artist IDs")),
		mcp.WithArray("seed_genres", mcp.Description("Seed genre names")),
		mcp.WithArray("seed_tracks", mcp.Description("Seed track IDs")),
		mcp.WithString("market", mcp.Description("Two-letter country code (optional)")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (1-50, default 20)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		mood, err := req.RequireString("mood")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tracks, err := deps.Spotify.RecommendationsByMood(ctx, mood, recommendationQuery(req))
		if err != nil {
			return errResult(err)
		}
		return jsonResult(map[string]any{"tracks": tracks})
	})
}
