package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codeclash/internal/app/service"
	"codeclash/internal/domain/model"
	"codeclash/internal/platform/client"

	"github.com/go-chi/chi/v5"
)

func newProblemRouter(t *testing.T, upstreamURL string) http.Handler {
	t.Helper()
	searchService, err := service.NewSearchService()
	if err != nil {
		t.Fatalf("failed to load search dataset: %v", err)
	}
	h := NewProblemHandler(client.NewLeetCodeClient(upstreamURL), searchService)
	r := chi.NewRouter()
	r.Route("/problems", h.RegisterRoutes)
	return r
}

func TestGetProblemProxy(t *testing.T) {
	t.Run("returns the upstream problem", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("titleSlug") != "two-sum" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"titleSlug":"two-sum","questionTitle":"Two Sum","difficulty":"Easy","question":"<p>Given...</p>","topicTags":[{"name":"Array"},{"name":"Hash Table"}]}`))
		}))
		defer upstream.Close()

		router := newProblemRouter(t, upstream.URL)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/problems/two-sum", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var problem model.Problem
		if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if problem.Slug != "two-sum" || problem.Title != "Two Sum" {
			t.Errorf("unexpected problem: %+v", problem)
		}
		if len(problem.Topics) != 2 {
			t.Errorf("expected 2 topics, got %v", problem.Topics)
		}
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		router := newProblemRouter(t, upstream.URL)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/problems/two-sum", nil))

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("unknown problem maps to 404", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer upstream.Close()

		router := newProblemRouter(t, upstream.URL)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/problems/no-such-problem", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	router := newProblemRouter(t, "http://unused")

	t.Run("returns matches", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/problems/search?q=two+sum", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Results []model.ProblemSummary `json:"results"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(body.Results) == 0 || body.Results[0].Slug != "two-sum" {
			t.Errorf("expected two-sum first, got %v", body.Results)
		}
	})

	t.Run("missing query is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/problems/search", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}
