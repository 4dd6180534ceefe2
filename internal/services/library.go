package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

var timeRanges = map[string]bool{
	"short_term":  true,
	"medium_term": true,
	"long_term":   true,
}

// Profile retrieves the authenticated user's profile.
func (s *Spotify) Profile(ctx context.Context) (*User, error) {
	return cache.Fetch(ctx, s.cache, OpGetUserProfile, nil, s.ttl.Browse(), func(ctx context.Context) (*User, error) {
		var user User
		if err := s.get(ctx, "/me", &user); err != nil {
			return nil, err
		}
		return &user, nil
	})
}

// SavedTracks retrieves a page of the user's saved tracks.
func (s *Spotify) SavedTracks(ctx context.Context, limit, offset int) (*Page[SavedTrack], error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	params := map[string]any{"limit": limit, "offset": offset}
	return cache.Fetch(ctx, s.cache, OpGetSavedTracks, params, s.ttl.Browse(), func(ctx context.Context) (*Page[SavedTrack], error) {
		endpoint := fmt.Sprintf("/me/tracks?limit=%d&offset=%d", limit, offset)

		var page Page[SavedTrack]
		if err := s.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		return &page, nil
	})
}

// TopTracks retrieves the user's top tracks over a time range
// (short_term, medium_term, or long_term).
func (s *Spotify) TopTracks(ctx context.Context, timeRange string, limit int) ([]Track, error) {
	if timeRange == "" {
		timeRange = "medium_term"
	}
	if !timeRanges[timeRange] {
		return nil, fmt.Errorf("%w: invalid time range %q", shared.ErrInvalidInput, timeRange)
	}
	limit = clampLimit(limit)

	params := map[string]any{"type": "tracks", "time_range": timeRange, "limit": limit}
	return cache.Fetch(ctx, s.cache, OpGetTopItems, params, s.ttl.Browse(), func(ctx context.Context) ([]Track, error) {
		endpoint := fmt.Sprintf("/me/top/tracks?time_range=%s&limit=%d", timeRange, limit)

		var page Page[Track]
		if err := s.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		return page.Items, nil
	})
}

// TopArtists retrieves the user's top artists over a time range.
func (s *Spotify) TopArtists(ctx context.Context, timeRange string, limit int) ([]Artist, error) {
	if timeRange == "" {
		timeRange = "medium_term"
	}
	if !timeRanges[timeRange] {
		return nil, fmt.Errorf("%w: invalid time range %q", shared.ErrInvalidInput, timeRange)
	}
	limit = clampLimit(limit)

	params := map[string]any{"type": "artists", "time_range": timeRange, "limit": limit}
	return cache.Fetch(ctx, s.cache, OpGetTopItems, params, s.ttl.Browse(), func(ctx context.Context) ([]Artist, error) {
		endpoint := fmt.Sprintf("/me/top/artists?time_range=%s&limit=%d", timeRange, limit)

		var page Page[Artist]
		if err := s.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		return page.Items, nil
	})
}

// RecentlyPlayed retrieves the user's recently played tracks.
func (s *Spotify) RecentlyPlayed(ctx context.Context, limit int) ([]PlayHistoryItem, error) {
	limit = clampLimit(limit)

	params := map[string]any{"limit": limit}
	return cache.Fetch(ctx, s.cache, OpGetRecentlyPlayed, params, s.ttl.Volatile(), func(ctx context.Context) ([]PlayHistoryItem, error) {
		endpoint := fmt.Sprintf("/me/player/recently-played?limit=%d", limit)

		var page Page[PlayHistoryItem]
		if err := s.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		return page.Items, nil
	})
}

// FollowedArtists retrieves artists the user follows.
func (s *Spotify) FollowedArtists(ctx context.Context, limit int) ([]Artist, error) {
	limit = clampLimit(limit)

	params := map[string]any{"limit": limit}
	return cache.Fetch(ctx, s.cache, OpGetFollowedArtists, params, s.ttl.Browse(), func(ctx context.Context) ([]Artist, error) {
		endpoint := fmt.Sprintf("/me/following?type=artist&limit=%d", limit)

		var response struct {
			Artists Page[Artist] `json:"artists"`
		}
		if err := s.get(ctx, endpoint, &response); err != nil {
			return nil, err
		}
		return response.Artists.Items, nil
	})
}

// AvailableMarkets retrieves the country codes the catalog serves.
func (s *Spotify) AvailableMarkets(ctx context.Context) ([]string, error) {
	return cache.Fetch(ctx, s.cache, OpGetMarkets, nil, s.ttl.Reference(), func(ctx context.Context) ([]string, error) {
		var response struct {
			Markets []string `json:"markets"`
		}
		if err := s.get(ctx, "/markets", &response); err != nil {
			return nil, err
		}
		return response.Markets, nil
	})
}
