package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// SearchTracks searches the catalog for tracks matching query.
func (s *Spotify) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrInvalidInput)
	}
	limit = clampLimit(limit)

	params := map[string]any{"query": query, "limit": limit}
	return cache.Fetch(ctx, s.cache, OpSearchTracks, params, s.ttl.Search(), func(ctx context.Context) ([]Track, error) {
		endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=%d", url.QueryEscape(query), limit)

		var results SearchResults
		if err := s.get(ctx, endpoint, &results); err != nil {
			return nil, err
		}
		if results.Tracks == nil {
			return []Track{}, nil
		}
		return results.Tracks.Items, nil
	})
}

// SearchArtists searches the catalog for artists matching query.
func (s *Spotify) SearchArtists(ctx context.Context, query string, limit int) ([]Artist, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", shared.ErrInvalidInput)
	}
	limit = clampLimit(limit)

	params := map[string]any{"query": query, "limit": limit}
	return cache.Fetch(ctx, s.cache, OpSearchArtists, params, s.ttl.Search(), func(ctx context.Context) ([]Artist, error) {
		endpoint := fmt.Sprintf("/search?q=%s&type=artist&limit=%d", url.QueryEscape(query), limit)

		var results SearchResults
		if err := s.get(ctx, endpoint, &results); err != nil {
			return nil, err
		}
		if results.Artists == nil {
			return []Artist{}, nil
		}
		return results.Artists.Items, nil
	})
}
