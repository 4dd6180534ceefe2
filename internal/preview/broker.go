// package preview implements the preview/confirm handshake for
// mutating operations.
//
// An agent first previews a mutation and receives a correlation token
// plus a human-readable summary; nothing upstream changes. Confirming
// the token within the expiry window executes the stored mutation
// exactly once. Tokens are single-use and never survive a restart.
package preview

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/services"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/jonboulle/clockwork"
)

// descriptionSuffix is appended to user-supplied playlist descriptions
// so playlists created through the gateway stay identifiable.
const descriptionSuffix = "Created with spotify-mcp"

// Kind names the mutation a pending preview will perform.
type Kind string

const (
	KindCreatePlaylist Kind = "create_playlist"
	KindAddTracks      Kind = "add_tracks"
)

// Preview is returned to the agent for relay to the end user.
type Preview struct {
	Token     string    `json:"correlation_token"`
	Kind      Kind      `json:"kind"`
	Summary   string    `json:"summary"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Result reports a confirmed, executed mutation.
type Result struct {
	Kind       Kind               `json:"kind"`
	Summary    string             `json:"summary"`
	Playlist   *services.Playlist `json:"playlist,omitempty"`
	SnapshotID string             `json:"snapshot_id,omitempty"`
}

// pending is a stored preview awaiting confirmation.
type pending struct {
	kind      Kind
	summary   string
	expiresAt time.Time

	create *createPlaylist
	add    *addTracks
}

type createPlaylist struct {
	name        string
	description string
	public      bool
}

type addTracks struct {
	playlistID   string
	playlistName string
	trackIDs     []string
}

// Broker holds pending previews and executes them on confirmation.
// Safe for concurrent use.
type Broker struct {
	spotify *services.Spotify
	clock   clockwork.Clock
	logger  *log.Logger
	expiry  time.Duration

	mu      sync.Mutex
	pending map[string]*pending
}

// NewBroker creates a Broker executing confirmed mutations through the
// given client.
func NewBroker(spotify *services.Spotify, expiry time.Duration, clock clockwork.Clock, logger *log.Logger) *Broker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if expiry <= 0 {
		expiry = 10 * time.Minute
	}
	return &Broker{
		spotify: spotify,
		clock:   clock,
		logger:  logger,
		expiry:  expiry,
		pending: make(map[string]*pending),
	}
}

// PreviewCreatePlaylist validates and stages a playlist creation.
func (b *Broker) PreviewCreatePlaylist(ctx context.Context, name, description string, public bool) (*Preview, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	description = withSuffix(strings.TrimSpace(description))

	visibility := "private"
	if public {
		visibility = "public"
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Create %s playlist %q", visibility, name)
	fmt.Fprintf(&summary, "\nDescription: %s", description)

	return b.stage(&pending{
		kind:    KindCreatePlaylist,
		summary: summary.String(),
		create:  &createPlaylist{name: name, description: description, public: public},
	})
}

// PreviewAddTracks validates and stages a track insertion. The target
// playlist and the tracks are resolved upstream so the summary shows
// real titles, not IDs.
func (b *Broker) PreviewAddTracks(ctx context.Context, playlistID string, trackIDs []string) (*Preview, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id is required", shared.ErrInvalidInput)
	}
	if len(trackIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one track is required", shared.ErrInvalidInput)
	}
	if len(trackIDs) > 100 {
		return nil, fmt.Errorf("%w: at most 100 tracks per request", shared.ErrInvalidInput)
	}

	playlist, err := b.spotify.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	var summary strings.Builder
	fmt.Fprintf(&summary, "Add %d track(s) to playlist %q", len(trackIDs), playlist.Name)
	for _, line := range b.trackLines(ctx, trackIDs) {
		fmt.Fprintf(&summary, "\n  %s", line)
	}

	return b.stage(&pending{
		kind:    KindAddTracks,
		summary: summary.String(),
		add: &addTracks{
			playlistID:   playlistID,
			playlistName: playlist.Name,
			trackIDs:     append([]string(nil), trackIDs...),
		},
	})
}

// Confirm executes the pending mutation for a correlation token. The
// token is consumed whether or not execution succeeds; a failed
// mutation must be previewed again.
func (b *Broker) Confirm(ctx context.Context, token string) (*Result, error) {
	b.mu.Lock()
	p, ok := b.pending[token]
	if ok {
		delete(b.pending, token)
	}
	b.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown or already confirmed token", shared.ErrPreviewNotFound)
	}
	if !b.clock.Now().Before(p.expiresAt) {
		return nil, fmt.Errorf("%w: preview expired, request a new one", shared.ErrPreviewNotFound)
	}

	switch p.kind {
	case KindCreatePlaylist:
		playlist, err := b.spotify.CreatePlaylist(ctx, p.create.name, p.create.description, p.create.public)
		if err != nil {
			return nil, err
		}
		b.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
		return &Result{
			Kind:     p.kind,
			Summary:  fmt.Sprintf("Created playlist %q (%s)", playlist.Name, playlist.ID),
			Playlist: playlist,
		}, nil

	case KindAddTracks:
		snapshot, err := b.spotify.AddTracks(ctx, p.add.playlistID, p.add.trackIDs)
		if err != nil {
			return nil, err
		}
		b.logger.Info("tracks added", "playlist", p.add.playlistID, "count", len(p.add.trackIDs))
		return &Result{
			Kind:       p.kind,
			Summary:    fmt.Sprintf("Added %d track(s) to %q", len(p.add.trackIDs), p.add.playlistName),
			SnapshotID: snapshot,
		}, nil
	}

	return nil, fmt.Errorf("unsupported mutation kind %q", p.kind)
}

// Pending reports how many unexpired previews are staged.
func (b *Broker) Pending() int {
	now := b.clock.Now()
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, p := range b.pending {
		if now.Before(p.expiresAt) {
			count++
		}
	}
	return count
}

// stage assigns a token and expiry, sweeps expired entries, and stores
// the preview.
func (b *Broker) stage(p *pending) (*Preview, error) {
	token := shared.GenerateID()
	p.expiresAt = b.clock.Now().Add(b.expiry)

	b.mu.Lock()
	b.sweepLocked()
	b.pending[token] = p
	b.mu.Unlock()

	b.logger.Debug("mutation staged", "kind", p.kind, "token", token, "expires_at", p.expiresAt)
	return &Preview{
		Token:     token,
		Kind:      p.kind,
		Summary:   p.summary,
		ExpiresAt: p.expiresAt,
	}, nil
}

// sweepLocked drops expired entries. Caller holds b.mu.
func (b *Broker) sweepLocked() {
	now := b.clock.Now()
	for token, p := range b.pending {
		if !now.Before(p.expiresAt) {
			delete(b.pending, token)
		}
	}
}

// trackLines resolves track titles for a summary, degrading to bare IDs
// when the lookup fails. Long lists are truncated.
func (b *Broker) trackLines(ctx context.Context, trackIDs []string) []string {
	const maxLines = 10

	shown := trackIDs
	if len(shown) > maxLines {
		shown = shown[:maxLines]
	}

	lines := make([]string, 0, maxLines+1)
	tracks, err := b.spotify.SeveralTracks(ctx, shown)
	if err != nil || len(tracks) != len(shown) {
		if err != nil {
			b.logger.Debug("failed to resolve track titles for preview", "error", err)
		}
		for _, id := range shown {
			lines = append(lines, id)
		}
	} else {
		for _, track := range tracks {
			artist := "unknown artist"
			if len(track.Artists) > 0 {
				artist = track.Artists[0].Name
			}
			lines = append(lines, fmt.Sprintf("%s - %s", track.Name, artist))
		}
	}

	if len(trackIDs) > maxLines {
		lines = append(lines, fmt.Sprintf("… and %d more", len(trackIDs)-maxLines))
	}
	return lines
}

// withSuffix appends the standard description suffix once.
func withSuffix(description string) string {
	if strings.Contains(description, descriptionSuffix) {
		return description
	}
	if description == "" {
		return descriptionSuffix
	}
	return description + " | " + descriptionSuffix
}
