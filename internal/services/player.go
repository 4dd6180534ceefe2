package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

var repeatStates = map[string]bool{
	"track":   true,
	"context": true,
	"off":     true,
}

// PlaybackState retrieves the current playback context. Not cached:
// progress moves every second.
func (s *Spotify) PlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	if err := s.get(ctx, "/me/player", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// CurrentlyPlaying retrieves the currently playing track, or nil when
// nothing is playing.
func (s *Spotify) CurrentlyPlaying(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	if err := s.get(ctx, "/me/player/currently-playing", &state); err != nil {
		return nil, err
	}
	if state.Item == nil {
		return nil, nil
	}
	return &state, nil
}

// Devices retrieves the user's available playback devices.
func (s *Spotify) Devices(ctx context.Context) ([]Device, error) {
	return cache.Fetch(ctx, s.cache, OpGetDevices, nil, s.ttl.Volatile(), func(ctx context.Context) ([]Device, error) {
		var response struct {
			Devices []Device `json:"devices"`
		}
		if err := s.get(ctx, "/me/player/devices", &response); err != nil {
			return nil, err
		}
		return response.Devices, nil
	})
}

// Play starts or resumes playback. With a track ID it plays that track;
// without one it resumes the current context. deviceID is optional.
func (s *Spotify) Play(ctx context.Context, trackID, deviceID string) error {
	var body map[string]any
	if trackID != "" {
		body = map[string]any{"uris": []string{TrackURI(trackID)}}
	}
	return s.send(ctx, "PUT", playerEndpoint("/me/player/play", deviceID), body, nil)
}

// Pause pauses playback on the active or given device.
func (s *Spotify) Pause(ctx context.Context, deviceID string) error {
	return s.send(ctx, "PUT", playerEndpoint("/me/player/pause", deviceID), nil, nil)
}

// Next skips to the next track.
func (s *Spotify) Next(ctx context.Context, deviceID string) error {
	return s.send(ctx, "POST", playerEndpoint("/me/player/next", deviceID), nil, nil)
}

// Previous skips back to the previous track.
func (s *Spotify) Previous(ctx context.Context, deviceID string) error {
	return s.send(ctx, "POST", playerEndpoint("/me/player/previous", deviceID), nil, nil)
}

// SetVolume sets playback volume as a percentage.
func (s *Spotify) SetVolume(ctx context.Context, percent int, deviceID string) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100", shared.ErrInvalidInput)
	}
	endpoint := fmt.Sprintf("/me/player/volume?volume_percent=%d", percent)
	if deviceID != "" {
		endpoint += "&device_id=" + url.QueryEscape(deviceID)
	}
	return s.send(ctx, "PUT", endpoint, nil, nil)
}

// Seek jumps to a position in the current track.
func (s *Spotify) Seek(ctx context.Context, positionMS int, deviceID string) error {
	if positionMS < 0 {
		return fmt.Errorf("%w: position must be non-negative", shared.ErrInvalidInput)
	}
	endpoint := fmt.Sprintf("/me/player/seek?position_ms=%d", positionMS)
	if deviceID != "" {
		endpoint += "&device_id=" + url.QueryEscape(deviceID)
	}
	return s.send(ctx, "PUT", endpoint, nil, nil)
}

// SetRepeat sets the repeat mode: track, context, or off.
func (s *Spotify) SetRepeat(ctx context.Context, state, deviceID string) error {
	if !repeatStates[state] {
		return fmt.Errorf("%w: repeat state must be track, context, or off", shared.ErrInvalidInput)
	}
	endpoint := "/me/player/repeat?state=" + url.QueryEscape(state)
	if deviceID != "" {
		endpoint += "&device_id=" + url.QueryEscape(deviceID)
	}
	return s.send(ctx, "PUT", endpoint, nil, nil)
}

// SetShuffle toggles shuffle mode.
func (s *Spotify) SetShuffle(ctx context.Context, on bool, deviceID string) error {
	endpoint := fmt.Sprintf("/me/player/shuffle?state=%t", on)
	if deviceID != "" {
		endpoint += "&device_id=" + url.QueryEscape(deviceID)
	}
	return s.send(ctx, "PUT", endpoint, nil, nil)
}

func playerEndpoint(path, deviceID string) string {
	if deviceID == "" {
		return path
	}
	return path + "?device_id=" + url.QueryEscape(deviceID)
}
