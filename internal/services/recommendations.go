package services

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/spotify-mcp/internal/cache"
	"github.com/desertthunder/spotify-mcp/internal/shared"
)

// MoodParams maps a mood name onto recommendation tunables
// (target_/min_/max_ audio feature parameters).
var MoodParams = map[string]map[string]float64{
	"happy":     {"target_valence": 0.8, "target_energy": 0.7, "min_danceability": 0.5},
	"sad":       {"target_valence": 0.2, "max_energy": 0.5, "max_danceability": 0.5},
	"energetic": {"min_energy": 0.7, "target_tempo": 120, "target_valence": 0.7},
	"calm":      {"target_energy": 0.3, "target_acousticness": 0.7, "max_tempo": 100},
	"focus":     {"target_instrumentalness": 0.7, "max_speechiness": 0.3, "min_acousticness": 0.5, "target_energy": 0.3},
	"party":     {"target_danceability": 0.9, "target_energy": 0.9, "min_popularity": 50},
	"relax":     {"max_energy": 0.4, "target_acousticness": 0.6, "target_valence": 0.5},
	"sleep":     {"max_energy": 0.2, "max_loudness": -20, "target_instrumentalness": 0.8, "target_acousticness": 0.8},
	"workout":   {"min_energy": 0.7, "min_tempo": 130, "target_danceability": 0.6},
	"romantic":  {"target_valence": 0.6, "target_acousticness": 0.5, "max_tempo": 120, "min_speechiness": 0.1, "max_speechiness": 0.4},
	"studying":  {"target_instrumentalness": 0.6, "max_energy": 0.4, "max_valence": 0.5, "min_acousticness": 0.4},
	"upbeat":    {"target_energy": 0.8, "min_tempo": 120, "target_danceability": 0.7},
	"mellow":    {"target_energy": 0.4, "target_valence": 0.4, "target_acousticness": 0.6},
}

// Moods lists the supported mood names, sorted.
func Moods() []string {
	moods := make([]string, 0, len(MoodParams))
	for mood := range MoodParams {
		moods = append(moods, mood)
	}
	sort.Strings(moods)
	return moods
}

// RecommendationQuery parameterizes a recommendation request. At least
// one seed is required and at most five are allowed in total.
type RecommendationQuery struct {
	Limit       int
	SeedArtists []string
	SeedGenres  []string
	SeedTracks  []string
	Market      string
	Tunables    map[string]float64
}

func (q RecommendationQuery) seedCount() int {
	return len(q.SeedArtists) + len(q.SeedGenres) + len(q.SeedTracks)
}

func (q RecommendationQuery) validate() error {
	if q.seedCount() == 0 {
		return fmt.Errorf("%w: at least one seed artist, genre, or track is required", shared.ErrInvalidInput)
	}
	if q.seedCount() > 5 {
		return fmt.Errorf("%w: at most 5 seeds allowed in total", shared.ErrInvalidInput)
	}
	return nil
}

// cacheParams builds the canonical parameter map for a query. Seed
// lists are sorted so seed order never splits the cache.
func (q RecommendationQuery) cacheParams() map[string]any {
	params := map[string]any{
		"limit":        clampLimit(q.Limit),
		"seed_artists": sorted(q.SeedArtists),
		"seed_genres":  sorted(q.SeedGenres),
		"seed_tracks":  sorted(q.SeedTracks),
		"market":       q.Market,
	}
	for name, value := range q.Tunables {
		params[name] = value
	}
	return params
}

func (q RecommendationQuery) encode() string {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(clampLimit(q.Limit)))
	if len(q.SeedArtists) > 0 {
		values.Set("seed_artists", strings.Join(q.SeedArtists, ","))
	}
	if len(q.SeedGenres) > 0 {
		values.Set("seed_genres", strings.Join(q.SeedGenres, ","))
	}
	if len(q.SeedTracks) > 0 {
		values.Set("seed_tracks", strings.Join(q.SeedTracks, ","))
	}
	if q.Market != "" {
		values.Set("market", q.Market)
	}
	for name, value := range q.Tunables {
		values.Set(name, strconv.FormatFloat(value, 'f', -1, 64))
	}
	return values.Encode()
}

// Genres retrieves the available recommendation genre seeds.
func (s *Spotify) Genres(ctx context.Context) ([]string, error) {
	return cache.Fetch(ctx, s.cache, OpGetGenres, nil, s.ttl.Reference(), func(ctx context.Context) ([]string, error) {
		var response struct {
			Genres []string `json:"genres"`
		}
		if err := s.get(ctx, "/recommendations/available-genre-seeds", &response); err != nil {
			return nil, err
		}
		return response.Genres, nil
	})
}

// Recommendations retrieves track recommendations for the given seeds
// and tunables.
func (s *Spotify) Recommendations(ctx context.Context, query RecommendationQuery) ([]Track, error) {
	if err := query.validate(); err != nil {
		return nil, err
	}

	return cache.Fetch(ctx, s.cache, OpGetRecommendations, query.cacheParams(), s.ttl.Search(), func(ctx context.Context) ([]Track, error) {
		var response Recommendations
		if err := s.get(ctx, "/recommendations?"+query.encode(), &response); err != nil {
			return nil, err
		}
		return response.Tracks, nil
	})
}

// RecommendationsByMood retrieves recommendations tuned to a mood.
// Caller-supplied tunables override the mood's. Without seeds, up to
// three random genre seeds are drawn from the available set.
func (s *Spotify) RecommendationsByMood(ctx context.Context, mood string, query RecommendationQuery) ([]Track, error) {
	params, ok := MoodParams[mood]
	if !ok {
		return nil, fmt.Errorf("%w: unknown mood %q (valid moods: %s)",
			shared.ErrInvalidInput, mood, strings.Join(Moods(), ", "))
	}

	tunables := make(map[string]float64, len(params)+len(query.Tunables))
	for name, value := range params {
		tunables[name] = value
	}
	for name, value := range query.Tunables {
		tunables[name] = value
	}
	query.Tunables = tunables

	if query.seedCount() == 0 {
		genres, err := s.Genres(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to pick default genre seeds: %w", err)
		}
		if len(genres) > 0 {
			picks := rand.Perm(len(genres))
			count := min(3, len(genres))
			for _, i := range picks[:count] {
				query.SeedGenres = append(query.SeedGenres, genres[i])
			}
		}
	}

	return s.Recommendations(ctx, query)
}

func sorted(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
