package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/desertthunder/spotify-mcp/internal/store"
	"github.com/jonboulle/clockwork"
)

type staticToken string

func (s staticToken) Token(ctx context.Context) (string, error) {
	return string(s), nil
}

func testCacheConfig() shared.CacheConfig {
	return shared.CacheConfig{
		VolatileSeconds:  30,
		SearchSeconds:    300,
		BrowseSeconds:    3600,
		ReferenceSeconds: 86400,
	}
}

func newTestSpotify(t *testing.T, handler http.Handler) *Spotify {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	responses := cache.New(store.NewMemory(), clockwork.NewFakeClock(), nil)
	return NewSpotify(staticToken("test_token"), responses, NewBackoff(fastRetryConfig(3), nil, nil),
		testCacheConfig(), nil, WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestErrorMapping(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"Unauthorized", http.StatusUnauthorized, `{"error":{"status":401,"message":"The access token expired"}}`, shared.ErrAuthRequired},
		{"Premium Required", http.StatusForbidden, `{"error":{"status":403,"message":"Player command failed: Premium required","reason":"PREMIUM_REQUIRED"}}`, shared.ErrPlanRestricted},
		{"Forbidden", http.StatusForbidden, `{"error":{"status":403,"message":"Insufficient client scope"}}`, shared.ErrPermissionDenied},
		{"Not Found", http.StatusNotFound, `{"error":{"status":404,"message":"Non existing id"}}`, shared.ErrNotFound},
		{"Server Error", http.StatusBadGateway, `{"error":{"status":502,"message":"Bad gateway"}}`, shared.ErrUpstreamUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))

			_, err := s.Track(ctx, "sometrack")
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	t.Run("Rate Limited Carries Retry After", func(t *testing.T) {
		s := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
		}))

		_, err := s.Track(ctx, "sometrack")
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError in chain, got %v", err)
		}
		if apiErr.RetryAfter.Seconds() != 3 {
			t.Errorf("expected 3s retry hint, got %v", apiErr.RetryAfter)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		responses := cache.New(store.NewMemory(), clockwork.NewFakeClock(), nil)
		s := NewSpotify(staticToken("t"), responses, NewBackoff(fastRetryConfig(1), nil, nil),
			testCacheConfig(), nil, WithBaseURL(srv.URL))

		_, err := s.Track(ctx, "sometrack")
		if !errors.Is(err, shared.ErrUpstreamUnavailable) {
			t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
		}
	})
}

func TestSearchTracks(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Query", func(t *testing.T) {
		s := newTestSpotify(t, http.NewServeMux())
		if _, err := s.SearchTracks(ctx, "", 10); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Parses And Caches Results", func(t *testing.T) {
		var hits atomic.Int64
		s := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if got := r.URL.Query().Get("q"); got != "bossa nova" {
				t.Errorf("expected query bossa nova, got %q", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test_token" {
				t.Errorf("unexpected auth header %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"tracks": map[string]any{
					"items": []map[string]any{{"id": "t1", "name": "Wave"}},
					"total": 1,
				},
			})
		}))

		for range 2 {
			tracks, err := s.SearchTracks(ctx, "bossa nova", 10)
			if err != nil {
				t.Fatalf("SearchTracks failed: %v", err)
			}
			if len(tracks) != 1 || tracks[0].Name != "Wave" {
				t.Errorf("unexpected tracks %+v", tracks)
			}
		}
		if hits.Load() != 1 {
			t.Errorf("expected 1 upstream call, got %d", hits.Load())
		}
	})
}

func TestPlaylistMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("Create Playlist Invalidates Listings", func(t *testing.T) {
		var listHits atomic.Int64
		mux := http.NewServeMux()
		mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"id": "user1"})
		})
		mux.HandleFunc("GET /me/playlists", func(w http.ResponseWriter, r *http.Request) {
			listHits.Add(1)
			json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "total": 0})
		})
		mux.HandleFunc("POST /users/user1/playlists", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			if body["name"] != "Morning Mix" {
				t.Errorf("unexpected name %v", body["name"])
			}
			if body["public"] != false {
				t.Errorf("expected private playlist, got %v", body["public"])
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": "pl1", "name": "Morning Mix"})
		})

		s := newTestSpotify(t, mux)

		if _, err := s.Playlists(ctx, 20, 0); err != nil {
			t.Fatalf("Playlists failed: %v", err)
		}
		if _, err := s.Playlists(ctx, 20, 0); err != nil {
			t.Fatalf("Playlists failed: %v", err)
		}
		if listHits.Load() != 1 {
			t.Fatalf("expected cached listing, got %d hits", listHits.Load())
		}

		playlist, err := s.CreatePlaylist(ctx, "Morning Mix", "easy tunes", false)
		if err != nil {
			t.Fatalf("CreatePlaylist failed: %v", err)
		}
		if playlist.ID != "pl1" {
			t.Errorf("unexpected playlist %+v", playlist)
		}

		if _, err := s.Playlists(ctx, 20, 0); err != nil {
			t.Fatalf("Playlists failed: %v", err)
		}
		if listHits.Load() != 2 {
			t.Errorf("expected listing refetch after create, got %d hits", listHits.Load())
		}
	})

	t.Run("Add Tracks Normalizes URIs", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("POST /playlists/pl1/tracks", func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				URIs []string `json:"uris"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			want := []string{"spotify:track:aaa", "spotify:track:bbb"}
			for i, uri := range body.URIs {
				if uri != want[i] {
					t.Errorf("uri %d: expected %q, got %q", i, want[i], uri)
				}
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"snapshot_id": "snap1"})
		})

		s := newTestSpotify(t, mux)
		snapshot, err := s.AddTracks(ctx, "pl1", []string{"aaa", "spotify:track:bbb"})
		if err != nil {
			t.Fatalf("AddTracks failed: %v", err)
		}
		if snapshot != "snap1" {
			t.Errorf("expected snap1, got %q", snapshot)
		}
	})

	t.Run("Add Tracks Validation", func(t *testing.T) {
		s := newTestSpotify(t, http.NewServeMux())
		if _, err := s.AddTracks(ctx, "pl1", nil); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty track list, got %v", err)
		}
		if _, err := s.AddTracks(ctx, "", []string{"aaa"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for missing playlist, got %v", err)
		}
	})
}

func TestPlayerValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestSpotify(t, http.NewServeMux())

	t.Run("Volume Range", func(t *testing.T) {
		for _, volume := range []int{-1, 101} {
			if err := s.SetVolume(ctx, volume, ""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput for volume %d, got %v", volume, err)
			}
		}
	})

	t.Run("Repeat State", func(t *testing.T) {
		if err := s.SetRepeat(ctx, "always", ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for bad repeat state, got %v", err)
		}
	})

	t.Run("Seek Position", func(t *testing.T) {
		if err := s.Seek(ctx, -5, ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for negative position, got %v", err)
		}
	})
}

func TestRecommendations(t *testing.T) {
	ctx := context.Background()

	t.Run("Seed Validation", func(t *testing.T) {
		s := newTestSpotify(t, http.NewServeMux())

		if _, err := s.Recommendations(ctx, RecommendationQuery{}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput without seeds, got %v", err)
		}

		query := RecommendationQuery{
			SeedArtists: []string{"a1", "a2"},
			SeedGenres:  []string{"jazz", "bossanova"},
			SeedTracks:  []string{"t1", "t2"},
		}
		if _, err := s.Recommendations(ctx, query); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput with 6 seeds, got %v", err)
		}
	})

	t.Run("Mood Tunables Applied", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/recommendations", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if got := q.Get("target_valence"); got != "0.8" {
				t.Errorf("expected target_valence 0.8 for happy, got %q", got)
			}
			if got := q.Get("target_energy"); got != "0.9" {
				t.Errorf("expected caller override target_energy 0.9, got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"tracks": []map[string]any{{"id": "r1", "name": "Rec"}},
			})
		})

		s := newTestSpotify(t, mux)
		tracks, err := s.RecommendationsByMood(ctx, "happy", RecommendationQuery{
			SeedGenres: []string{"pop"},
			Tunables:   map[string]float64{"target_energy": 0.9},
		})
		if err != nil {
			t.Fatalf("RecommendationsByMood failed: %v", err)
		}
		if len(tracks) != 1 || tracks[0].ID != "r1" {
			t.Errorf("unexpected tracks %+v", tracks)
		}
	})

	t.Run("Unknown Mood", func(t *testing.T) {
		s := newTestSpotify(t, http.NewServeMux())
		if _, err := s.RecommendationsByMood(ctx, "grumpy", RecommendationQuery{SeedGenres: []string{"pop"}}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for unknown mood, got %v", err)
		}
	})

	t.Run("Draws Genre Seeds When Missing", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/recommendations/available-genre-seeds", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"genres": []string{"ambient", "chill", "sleep"}})
		})
		mux.HandleFunc("/recommendations", func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("seed_genres"); got == "" {
				t.Error("expected default genre seeds to be drawn")
			}
			json.NewEncoder(w).Encode(map[string]any{"tracks": []any{}})
		})

		s := newTestSpotify(t, mux)
		if _, err := s.RecommendationsByMood(ctx, "calm", RecommendationQuery{}); err != nil {
			t.Fatalf("RecommendationsByMood failed: %v", err)
		}
	})
}
