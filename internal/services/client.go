package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// TokenProvider supplies a valid bearer token for outbound requests.
// Satisfied by auth.Manager.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// APIError is a non-2xx Spotify API response, parsed at the client
// boundary so callers never see raw HTTP details.
type APIError struct {
	Status     int
	Message    string
	Reason     string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("spotify API error: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("spotify API error: status %d", e.Status)
}

// Unwrap maps the upstream status onto the shared error taxonomy so
// callers classify with errors.Is and never inspect status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return shared.ErrAuthRequired
	case e.Status == http.StatusForbidden:
		if e.Reason == "PREMIUM_REQUIRED" || strings.Contains(strings.ToLower(e.Message), "premium") {
			return shared.ErrPlanRestricted
		}
		return shared.ErrPermissionDenied
	case e.Status == http.StatusNotFound:
		return shared.ErrNotFound
	case e.Status == http.StatusTooManyRequests:
		return shared.ErrRateLimited
	case e.Status >= 500:
		return shared.ErrUpstreamUnavailable
	}
	return nil
}

// Spotify is the typed Web API client. All methods are safe for
// concurrent use.
type Spotify struct {
	baseURL string
	client  *http.Client
	auth    TokenProvider
	cache   *cache.Cache
	retry   *Backoff
	ttl     shared.CacheConfig
	logger  *log.Logger
}

// Option customizes a Spotify client.
type Option func(*Spotify)

// WithBaseURL points the client at a different API root. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(s *Spotify) { s.baseURL = baseURL }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Spotify) { s.client = client }
}

// NewSpotify creates the API client facade.
func NewSpotify(auth TokenProvider, responses *cache.Cache, retry *Backoff, ttl shared.CacheConfig, logger *log.Logger, opts ...Option) *Spotify {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s := &Spotify{
		baseURL: spotifyBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		auth:    auth,
		cache:   responses,
		retry:   retry,
		ttl:     ttl,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// doRequest performs one authenticated request. body is JSON-encoded
// when non-nil; result is decoded from the response when non-nil and
// the upstream returned content.
func (s *Spotify) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	token, err := s.auth.Token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.apiError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			if errors.Is(err, io.EOF) {
				return nil // 200 with empty body (player endpoints)
			}
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// get runs an idempotent request through the retry layer.
func (s *Spotify) get(ctx context.Context, endpoint string, result any) error {
	return s.retry.Do(ctx, true, func(ctx context.Context) error {
		return s.doRequest(ctx, http.MethodGet, endpoint, nil, result)
	})
}

// send runs a mutating request. Mutations are paced but never retried:
// a retried write could double-apply.
func (s *Spotify) send(ctx context.Context, method, endpoint string, body, result any) error {
	return s.retry.Do(ctx, false, func(ctx context.Context) error {
		return s.doRequest(ctx, method, endpoint, body, result)
	})
}

// apiError reads an error response body into an APIError. Spotify wraps
// errors as {"error": {"status": ..., "message": ..., "reason": ...}}.
func (s *Spotify) apiError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
			apiErr.RetryAfter = time.Duration(seconds) * time.Second
		}
	}

	var payload struct {
		Error struct {
			Status  int    `json:"status"`
			Message string `json:"message"`
			Reason  string `json:"reason"`
		} `json:"error"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if err := json.Unmarshal(data, &payload); err == nil {
			apiErr.Message = payload.Error.Message
			apiErr.Reason = payload.Error.Reason
		}
	}

	s.logger.Debug("spotify API error",
		"status", apiErr.Status, "message", apiErr.Message, "reason", apiErr.Reason)
	return apiErr
}
