// package auth owns the OAuth2 credential lifecycle for the single
// configured Spotify account.
//
// The manager persists one credential record through [store.KV] so
// tokens survive process restarts, and refreshes expiring access tokens
// transparently behind a single-flight gate.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/store"
	"github.com/jonboulle/clockwork"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// recordKey is the single credential record's key in the auth bucket.
	recordKey = "credentials"

	// expiryMargin treats tokens expiring within this window as already
	// expired, so a token returned to a caller stays valid for the
	// duration of the upstream call it authorizes.
	expiryMargin = 60 * time.Second
)

// Scopes covers every operation the tool surface exposes.
var Scopes = []string{
	"user-library-read",
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-private",
	"playlist-modify-public",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"user-read-recently-played",
	"user-top-read",
	"user-follow-read",
}

// Record is the persisted credential set for the configured account.
type Record struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
	Scopes       []string  `json:"scopes"`
}

// Manager performs authorization-code and refresh-token exchanges and
// hands out valid access tokens. Safe for concurrent use.
type Manager struct {
	config *oauth2.Config
	kv     store.KV
	clock  clockwork.Clock
	logger *log.Logger

	mu     sync.RWMutex
	record *Record

	flight singleflight.Group
}

// NewManager creates a Manager from Spotify OAuth2 credentials and loads
// any previously persisted record from the store.
func NewManager(credentials map[string]string, kv store.KV, clock clockwork.Clock, logger *log.Logger) (*Manager, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://127.0.0.1:8080/callback"
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Manager{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		kv:     kv,
		clock:  clock,
		logger: logger,
	}

	if err := m.load(); err != nil {
		return nil, err
	}

	return m, nil
}

// AuthURL returns the authorization URL for the user login flow. The
// state token should come from [shared.GenerateState].
func (m *Manager) AuthURL(state string) string {
	return m.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("show_dialog", "true"),
	)
}

// IsAuthenticated reports whether a credential record exists. It does
// not force a refresh.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.record != nil
}

// CompleteAuthorization exchanges an authorization code for the initial
// credential record and persists it.
func (m *Manager) CompleteAuthorization(ctx context.Context, code string) error {
	token, err := m.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	record := &Record{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Scopes:       Scopes,
	}

	if err := m.persist(record); err != nil {
		return err
	}

	m.logger.Info("authorization complete, credentials stored")
	return nil
}

// Token returns a valid access token, refreshing the stored record if
// it expires within the safety margin. Concurrent callers that observe
// an expired token share one refresh exchange.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.RLock()
	record := m.record
	m.mu.RUnlock()

	if record == nil {
		return "", shared.ErrAuthRequired
	}

	if m.fresh(record) {
		return record.AccessToken, nil
	}

	token, err, _ := m.flight.Do("refresh", func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}

	return token.(string), nil
}

// Disconnect clears the stored credential record. Subsequent calls fail
// with [shared.ErrAuthRequired] until the user re-authorizes.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	m.record = nil
	m.mu.Unlock()

	if err := m.kv.Delete(store.BucketAuth, recordKey); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	m.logger.Info("credentials cleared")
	return nil
}

// fresh reports whether the record's token is valid past the margin.
func (m *Manager) fresh(record *Record) bool {
	return m.clock.Now().Add(expiryMargin).Before(record.Expiry)
}

// refresh performs a refresh-token exchange and persists the result.
// Runs inside the single-flight gate; re-checks freshness first so
// waiters piggybacking on a just-finished refresh skip a second
// exchange.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	m.mu.RLock()
	record := m.record
	m.mu.RUnlock()

	if record == nil {
		return "", shared.ErrAuthRequired
	}
	if m.fresh(record) {
		return record.AccessToken, nil
	}

	if record.RefreshToken == "" {
		m.clear()
		return "", fmt.Errorf("%w: no refresh token stored", shared.ErrRefreshFailed)
	}

	source := m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: record.RefreshToken})
	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			// The refresh token itself was rejected. Clear the record so
			// later calls fail fast instead of retrying a doomed grant.
			m.clear()
			return "", fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
		}
		return "", fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}

	next := &Record{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Scopes:       record.Scopes,
	}
	// Spotify does not always rotate refresh tokens; keep the old one
	// when the response omits a replacement.
	if next.RefreshToken == "" {
		next.RefreshToken = record.RefreshToken
	}

	if err := m.persist(next); err != nil {
		return "", err
	}

	m.logger.Debug("access token refreshed", "expiry", next.Expiry)
	return next.AccessToken, nil
}

// load reads a previously persisted record, if any.
func (m *Manager) load() error {
	data, ok, err := m.kv.Get(store.BucketAuth, recordKey)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	if !ok {
		return nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("failed to decode stored credentials: %w", err)
	}

	m.mu.Lock()
	m.record = &record
	m.mu.Unlock()
	return nil
}

// persist writes the record to durable storage and swaps it in memory.
func (m *Manager) persist(record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := m.kv.Put(store.BucketAuth, recordKey, data); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}

	m.mu.Lock()
	m.record = record
	m.mu.Unlock()
	return nil
}

// clear drops the record after a rejected refresh. Store failures are
// logged rather than returned; the in-memory state is authoritative.
func (m *Manager) clear() {
	m.mu.Lock()
	m.record = nil
	m.mu.Unlock()

	if err := m.kv.Delete(store.BucketAuth, recordKey); err != nil {
		m.logger.Error("failed to clear stored credentials", "error", err)
	}
}
