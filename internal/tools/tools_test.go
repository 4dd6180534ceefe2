package tools

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/mark3labs/mcp-go/mcp"
)

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestErrResult(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"Auth Required", shared.ErrAuthRequired, "auth login"},
		{"Refresh Failed", fmt.Errorf("%w: revoked", shared.ErrRefreshFailed), "auth login"},
		{"Rate Limited", shared.ErrRateLimited, "rate limiting"},
		{"Plan Restricted", shared.ErrPlanRestricted, "Premium"},
		{"Not Found", shared.ErrNotFound, "Not found"},
		{"Invalid Input", fmt.Errorf("%w: bad volume", shared.ErrInvalidInput), "bad volume"},
		{"Preview Not Found", fmt.Errorf("%w: expired", shared.ErrPreviewNotFound), "expired"},
		{"Upstream Down", shared.ErrUpstreamUnavailable, "unreachable"},
		{"Unknown", errors.New("something odd"), "something odd"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := errResult(tc.err)
			if err != nil {
				t.Fatalf("errResult returned transport error: %v", err)
			}
			if !result.IsError {
				t.Error("expected error result")
			}
			if got := resultText(t, result); !strings.Contains(got, tc.want) {
				t.Errorf("expected %q in %q", tc.want, got)
			}
		})
	}
}

func TestRecommendationQuery(t *testing.T) {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{
		"limit":          float64(10),
		"seed_genres":    []any{"jazz", "soul"},
		"market":         "JP",
		"target_valence": 0.7,
		"min_energy":     0.4,
		"mood":           "happy",
		"max_tempo":      110.0,
	}

	query := recommendationQuery(req)
	if query.Limit != 10 {
		t.Errorf("expected limit 10, got %d", query.Limit)
	}
	if len(query.SeedGenres) != 2 || query.SeedGenres[0] != "jazz" {
		t.Errorf("unexpected seed genres %v", query.SeedGenres)
	}
	if query.Market != "JP" {
		t.Errorf("expected market JP, got %q", query.Market)
	}
	for name, want := range map[string]float64{"target_valence": 0.7, "min_energy": 0.4, "max_tempo": 110} {
		if got := query.Tunables[name]; got != want {
			t.Errorf("tunable %s: expected %v, got %v", name, want, got)
		}
	}
	if _, ok := query.Tunables["mood"]; ok {
		t.Error("mood must not leak into tunables")
	}
}

func TestIsTunable(t *testing.T) {
	for name, want := range map[string]bool{
		"target_valence": true,
		"min_energy":     true,
		"max_tempo":      true,
		"mood":           false,
		"limit":          false,
		"target_":        false,
	} {
		if got := isTunable(name); got != want {
			t.Errorf("isTunable(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestJSONResult(t *testing.T) {
	result, err := jsonResult(map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("jsonResult failed: %v", err)
	}
	if result.IsError {
		t.Error("expected success result")
	}
	if got := resultText(t, result); !strings.Contains(got, `"ok": true`) {
		t.Errorf("unexpected payload %q", got)
	}
}
