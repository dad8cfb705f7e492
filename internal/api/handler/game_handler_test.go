package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeclash/internal/app/service"
	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/platform/client"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type memGameRepo struct {
	bySlug map[string]*model.Game
}

func (r *memGameRepo) Create(ctx context.Context, game *model.Game) error {
	if _, exists := r.bySlug[game.Slug]; exists {
		return common.Errorf("slug taken: %w", common.ErrConflict)
	}
	copied := *game
	r.bySlug[game.Slug] = &copied
	return nil
}

func (r *memGameRepo) FindBySlug(ctx context.Context, slug string) (*model.Game, error) {
	game, ok := r.bySlug[slug]
	if !ok {
		return nil, common.Errorf("game %q: %w", slug, common.ErrNotFound)
	}
	copied := *game
	return &copied, nil
}

func (r *memGameRepo) FindByID(ctx context.Context, id string) (*model.Game, error) {
	for _, game := range r.bySlug {
		if game.ID == id {
			copied := *game
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memGameRepo) UpdateStatus(ctx context.Context, id string, status model.GameStatus, countdownEndsAt, startedAt, completedAt *time.Time) error {
	for _, game := range r.bySlug {
		if game.ID == id {
			game.Status = status
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *memGameRepo) SetProblem(ctx context.Context, id, problemSlug, problemTitle, problemDifficulty string) error {
	for _, game := range r.bySlug {
		if game.ID == id {
			game.ProblemSlug = &problemSlug
			game.ProblemTitle = &problemTitle
			game.ProblemDifficulty = &problemDifficulty
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *memGameRepo) ListDueCountdowns(ctx context.Context, now time.Time) ([]model.Game, error) {
	return nil, nil
}

type noopPresenceRepo struct{}

func (noopPresenceRepo) Beat(ctx context.Context, gameSlug, clientID string, userID *string, at time.Time) (bool, error) {
	return true, nil
}
func (noopPresenceRepo) Remove(ctx context.Context, gameSlug, clientID string) error { return nil }
func (noopPresenceRepo) ActiveCount(ctx context.Context, gameSlug string, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (noopPresenceRepo) ActiveEntries(ctx context.Context, gameSlug string, cutoff time.Time) ([]model.PresenceEntry, error) {
	return nil, nil
}
func (noopPresenceRepo) ReapStale(ctx context.Context, gameSlug string, cutoff time.Time) (int64, error) {
	return 0, nil
}
func (noopPresenceRepo) TrackedGames(ctx context.Context) ([]string, error) { return nil, nil }

type noopScoreRepo struct{}

func (noopScoreRepo) Upsert(ctx context.Context, score *model.GameScore) error { return nil }
func (noopScoreRepo) ListByGame(ctx context.Context, gameID string) ([]model.GameScore, error) {
	return nil, nil
}

type noopChatRepo struct{}

func (noopChatRepo) Create(ctx context.Context, msg *model.ChatMessage) error { return nil }
func (noopChatRepo) ListByGame(ctx context.Context, gameID string, limit int) ([]model.ChatMessage, error) {
	return nil, nil
}

func newGameRouter(t *testing.T, upstreamURL string, seed ...*model.Game) http.Handler {
	t.Helper()
	gameRepo := &memGameRepo{bySlug: make(map[string]*model.Game)}
	for _, game := range seed {
		if err := gameRepo.Create(context.Background(), game); err != nil {
			t.Fatalf("failed to seed game: %v", err)
		}
	}

	gameService := service.NewGameService(gameRepo, noopPresenceRepo{}, noopScoreRepo{}, noopChatRepo{}, zerolog.Nop())
	presenceService := service.NewPresenceService(noopPresenceRepo{}, gameService, zerolog.Nop())
	scoreService := service.NewScoreService(noopScoreRepo{}, gameRepo, zerolog.Nop())
	chatService := service.NewChatService(noopChatRepo{}, gameRepo)

	h := NewGameHandler(gameService, presenceService, scoreService, chatService, client.NewLeetCodeClient(upstreamURL))
	r := chi.NewRouter()
	r.Route("/games", h.RegisterRoutes)
	return r
}

func TestSetProblemEndpoint(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("titleSlug") != "two-sum" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"titleSlug":"two-sum","questionTitle":"Two Sum","difficulty":"Easy","question":"<p>Given...</p>"}`))
	}))
	defer upstream.Close()

	t.Run("attaches resolved problem metadata to a lobby game", func(t *testing.T) {
		router := newGameRouter(t, upstream.URL,
			&model.Game{ID: "g1", Slug: "lobby-game", Name: "Lobby Game", Status: model.StatusLobby})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/games/lobby-game/problem", strings.NewReader(`{"problem_slug":"two-sum"}`))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var game model.Game
		if err := json.Unmarshal(rec.Body.Bytes(), &game); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if game.ProblemSlug == nil || *game.ProblemSlug != "two-sum" {
			t.Errorf("expected problem slug two-sum, got %v", game.ProblemSlug)
		}
		if game.ProblemTitle == nil || *game.ProblemTitle != "Two Sum" {
			t.Errorf("expected problem title to be attached, got %v", game.ProblemTitle)
		}
		if game.ProblemDifficulty == nil || *game.ProblemDifficulty != "Easy" {
			t.Errorf("expected difficulty to be attached, got %v", game.ProblemDifficulty)
		}
	})

	t.Run("rejected once the game is active", func(t *testing.T) {
		router := newGameRouter(t, upstream.URL,
			&model.Game{ID: "g2", Slug: "running-game", Name: "Running Game", Status: model.StatusActive})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/games/running-game/problem", strings.NewReader(`{"problem_slug":"two-sum"}`))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("missing problem_slug is a 400", func(t *testing.T) {
		router := newGameRouter(t, upstream.URL,
			&model.Game{ID: "g3", Slug: "bare-game", Name: "Bare Game", Status: model.StatusLobby})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/games/bare-game/problem", strings.NewReader(`{}`))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown upstream problem maps to 404", func(t *testing.T) {
		router := newGameRouter(t, upstream.URL,
			&model.Game{ID: "g4", Slug: "waiting-game", Name: "Waiting Game", Status: model.StatusLobby})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/games/waiting-game/problem", strings.NewReader(`{"problem_slug":"no-such-problem"}`))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}
