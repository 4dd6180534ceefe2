package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeAuthorizer struct {
	codes []string
	err   error
}

func (f *fakeAuthorizer) CompleteAuthorization(ctx context.Context, code string) error {
	f.codes = append(f.codes, code)
	return f.err
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Valid Callback", func(t *testing.T) {
		authorizer := &fakeAuthorizer{}
		h := NewOAuthHandler(authorizer, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?state=state123&code=code456", nil)
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Spotify Connected") {
			t.Error("expected success page")
		}
		if len(authorizer.codes) != 1 || authorizer.codes[0] != "code456" {
			t.Errorf("expected code456 delivered, got %v", authorizer.codes)
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Errorf("expected nil result error, got %v", result.Error())
		}
	})

	t.Run("Invalid State", func(t *testing.T) {
		authorizer := &fakeAuthorizer{}
		h := NewOAuthHandler(authorizer, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?state=wrong&code=code456", nil)
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if len(authorizer.codes) != 0 {
			t.Error("expected no exchange on bad state")
		}
		if result := <-h.Result(); result.Error() == nil {
			t.Error("expected result error for bad state")
		}
	})

	t.Run("Denied Authorization", func(t *testing.T) {
		h := NewOAuthHandler(&fakeAuthorizer{}, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?state=state123&error=access_denied&error_description=User%20denied", nil)
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied in result, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		authorizer := &fakeAuthorizer{err: errors.New("exchange blew up")}
		h := NewOAuthHandler(authorizer, "state123")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?state=state123&code=code456", nil)
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if result := <-h.Result(); result.Error() == nil {
			t.Error("expected result error")
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		authorizer := &fakeAuthorizer{}
		h := NewOAuthHandler(authorizer, "state123")

		first := httptest.NewRecorder()
		h.ServeHTTP(first, httptest.NewRequest("GET", "/callback?state=state123&code=one", nil))

		second := httptest.NewRecorder()
		h.ServeHTTP(second, httptest.NewRequest("GET", "/callback?state=state123&code=two", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", second.Code)
		}
		if len(authorizer.codes) != 1 {
			t.Errorf("expected exactly 1 exchange, got %d", len(authorizer.codes))
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle("GET", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for POST, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for GET, got %d", rec.Code)
		}
	})

	t.Run("Middleware Order", func(t *testing.T) {
		router := NewBasicRouter()

		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}
		router.Use(mw("outer"), mw("inner"))
		router.Handle("GET", "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ping", nil))

		want := []string{"outer", "inner", "handler"}
		for i, name := range want {
			if i >= len(order) || order[i] != name {
				t.Fatalf("expected order %v, got %v", want, order)
			}
		}
	})
}
