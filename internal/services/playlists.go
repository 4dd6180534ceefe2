package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// Playlists retrieves a page of the user's playlists.
func (s *Spotify) Playlists(ctx context.Context, limit, offset int) (*Page[Playlist], error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	params := map[string]any{"limit": limit, "offset": offset}
	return cache.Fetch(ctx, s.cache, OpGetUserPlaylists, params, s.ttl.Browse(), func(ctx context.Context) (*Page[Playlist], error) {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

		var page Page[Playlist]
		if err := s.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		return &page, nil
	})
}

// Playlist retrieves a single playlist by ID.
func (s *Spotify) Playlist(ctx context.Context, playlistID string) (*Playlist, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}

	params := map[string]any{"playlist_id": playlistID}
	return cache.Fetch(ctx, s.cache, OpGetPlaylist, params, s.ttl.Browse(), func(ctx context.Context) (*Playlist, error) {
		var playlist Playlist
		if err := s.get(ctx, "/playlists/"+url.PathEscape(playlistID), &playlist); err != nil {
			return nil, err
		}
		return &playlist, nil
	})
}

// PlaylistTracks retrieves a page of a playlist's tracks.
func (s *Spotify) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*Page[PlaylistTrack], error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	params := map[string]any{"playlist_id": playlistID, "limit": limit, "offset": offset}
	return cache.Fetch(ctx, s.cache, OpGetPlaylistTracks, params, s.ttl.Browse(), func(ctx context.Context) (*Page[PlaylistTrack], error) {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", url.PathEscape(playlistID), limit, offset)

		var page Page[PlaylistTrack]
		if err := s.get(ctx, endpoint, &page); err != nil {
			return nil, err
		}
		return &page, nil
	})
}

// CreatePlaylist creates a playlist owned by the authenticated user and
// invalidates the cached playlist listings.
func (s *Spotify) CreatePlaylist(ctx context.Context, name, description string, public bool) (*Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	user, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var playlist Playlist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(user.ID))
	if err := s.send(ctx, "POST", endpoint, body, &playlist); err != nil {
		return nil, err
	}

	s.invalidatePlaylists()
	return &playlist, nil
}

// AddTracks appends tracks to a playlist and invalidates the cached
// listings for it. Accepts bare track IDs or full spotify:track: URIs.
// Returns the new snapshot ID.
func (s *Spotify) AddTracks(ctx context.Context, playlistID string, trackIDs []string) (string, error) {
	if playlistID == "" {
		return "", fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if len(trackIDs) == 0 {
		return "", fmt.Errorf("%w: at least one track is required", shared.ErrInvalidInput)
	}
	if len(trackIDs) > 100 {
		return "", fmt.Errorf("%w: at most 100 tracks per request", shared.ErrInvalidInput)
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = TrackURI(id)
	}

	var response struct {
		SnapshotID string `json:"snapshot_id"`
	}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	if err := s.send(ctx, "POST", endpoint, map[string]any{"uris": uris}, &response); err != nil {
		return "", err
	}

	s.invalidatePlaylists()
	return response.SnapshotID, nil
}

// ReorderTracks moves a range of tracks within a playlist and
// invalidates its cached listings.
func (s *Spotify) ReorderTracks(ctx context.Context, playlistID string, rangeStart, insertBefore, rangeLength int) (string, error) {
	if playlistID == "" {
		return "", fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if rangeStart < 0 || insertBefore < 0 {
		return "", fmt.Errorf("%w: positions must be non-negative", shared.ErrInvalidInput)
	}
	if rangeLength <= 0 {
		rangeLength = 1
	}

	body := map[string]any{
		"range_start":   rangeStart,
		"insert_before": insertBefore,
		"range_length":  rangeLength,
	}

	var response struct {
		SnapshotID string `json:"snapshot_id"`
	}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	if err := s.send(ctx, "PUT", endpoint, body, &response); err != nil {
		return "", err
	}

	s.invalidatePlaylists()
	return response.SnapshotID, nil
}

// invalidatePlaylists drops every cached playlist read after a
// mutation. Invalidation failures are logged; the mutation already
// succeeded upstream.
func (s *Spotify) invalidatePlaylists() {
	for _, op := range []string{OpGetUserPlaylists, OpGetPlaylist, OpGetPlaylistTracks} {
		if err := s.cache.InvalidateOp(op); err != nil {
			s.logger.Warn("failed to invalidate cached reads", "op", op, "error", err)
		}
	}
}

// TrackURI normalizes a track reference into a spotify:track: URI.
func TrackURI(id string) string {
	if strings.HasPrefix(id, "spotify:") {
		return id
	}
	return "spotify:track:" + id
}
