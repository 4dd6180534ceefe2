package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// Track retrieves a single track by ID.
func (s *Spotify) Track(ctx context.Context, trackID string) (*Track, error) {
	if trackID == "" {
		return nil, fmt.Errorf("%w: track id is required", shared.ErrInvalidInput)
	}

	params := map[string]any{"id": trackID}
	return cache.Fetch(ctx, s.cache, OpGetTrack, params, s.ttl.Browse(), func(ctx context.Context) (*Track, error) {
		var track Track
		if err := s.get(ctx, "/tracks/"+url.PathEscape(trackID), &track); err != nil {
			return nil, err
		}
		return &track, nil
	})
}

// SeveralTracks retrieves up to 50 tracks by ID in one call.
func (s *Spotify) SeveralTracks(ctx context.Context, trackIDs []string) ([]Track, error) {
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one track id is required", shared.ErrInvalidInput)
	}
	if len(trackIDs) > 50 {
		return nil, fmt.Errorf("%w: at most 50 track ids allowed", shared.ErrInvalidInput)
	}

	params := map[string]any{"ids": strings.Join(trackIDs, ",")}
	return cache.Fetch(ctx, s.cache, OpGetTrack, params, s.ttl.Browse(), func(ctx context.Context) ([]Track, error) {
		endpoint := "/tracks?ids=" + url.QueryEscape(strings.Join(trackIDs, ","))

		var response struct {
			Tracks []Track `json:"tracks"`
		}
		if err := s.get(ctx, endpoint, &response); err != nil {
			return nil, err
		}
		return response.Tracks, nil
	})
}

// Artist retrieves a single artist by ID.
func (s *Spotify) Artist(ctx context.Context, artistID string) (*Artist, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is required", shared.ErrInvalidInput)
	}

	params := map[string]any{"id": artistID}
	return cache.Fetch(ctx, s.cache, OpGetArtist, params, s.ttl.Browse(), func(ctx context.Context) (*Artist, error) {
		var artist Artist
		if err := s.get(ctx, "/artists/"+url.PathEscape(artistID), &artist); err != nil {
			return nil, err
		}
		return &artist, nil
	})
}

// ArtistTopTracks retrieves an artist's most popular tracks in a market.
func (s *Spotify) ArtistTopTracks(ctx context.Context, artistID, market string) ([]Track, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist id is required", shared.ErrInvalidInput)
	}
	if market == "" {
		market = "US"
	}

	params := map[string]any{"id": artistID, "market": market}
	return cache.Fetch(ctx, s.cache, OpGetArtist, params, s.ttl.Browse(), func(ctx context.Context) ([]Track, error) {
		endpoint := fmt.Sprintf("/artists/%s/top-tracks?market=%s", url.PathEscape(artistID), url.QueryEscape(market))

		var response struct {
			Tracks []Track `json:"tracks"`
		}
		if err := s.get(ctx, endpoint, &response); err != nil {
			return nil, err
		}
		return response.Tracks, nil
	})
}
