package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"codeclash/internal/api/middleware"
	"codeclash/internal/app/service"
	"codeclash/internal/common"
	"codeclash/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// ProblemResolver fetches problem metadata for attachment to a game;
// satisfied by client.LeetCodeClient.
type ProblemResolver interface {
	GetProblem(ctx context.Context, slug string) (*model.Problem, error)
}

type GameHandler struct {
	gameService     *service.GameService
	presenceService *service.PresenceService
	scoreService    *service.ScoreService
	chatService     *service.ChatService
	problems        ProblemResolver
}

func NewGameHandler(
	gameService *service.GameService,
	presenceService *service.PresenceService,
	scoreService *service.ScoreService,
	chatService *service.ChatService,
	problems ProblemResolver,
) *GameHandler {
	return &GameHandler{
		gameService:     gameService,
		presenceService: presenceService,
		scoreService:    scoreService,
		chatService:     chatService,
		problems:        problems,
	}
}

func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.OptionalIdentity)

	r.Post("/", h.createGame)
	r.Route("/{gameSlug}", func(r chi.Router) {
		r.Get("/", h.getGame)
		r.Put("/", h.getOrCreateGame)
		r.Get("/snapshot", h.snapshot)
		r.Put("/problem", h.setProblem)
		r.Post("/start", h.startGame)
		r.Post("/finalize", h.finalizeGame)

		r.Post("/heartbeat", h.heartbeat)
		r.Post("/leave", h.leave)
		r.Get("/presence", h.presence)

		r.Post("/scores", h.submitScore)
		r.Get("/scores", h.leaderboard)

		r.Post("/chat", h.sendChat)
		r.Get("/chat", h.listChat)
	})
}

func (h *GameHandler) createGame(w http.ResponseWriter, r *http.Request) {
	var req service.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), middleware.UserIDPtrFromContext(r.Context()), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, game)
}

func (h *GameHandler) getGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameService.Get(r.Context(), chi.URLParam(r, "gameSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) getOrCreateGame(w http.ResponseWriter, r *http.Request) {
	game, created, err := h.gameService.GetOrCreate(r.Context(), chi.URLParam(r, "gameSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	common.RespondWithJSON(w, status, map[string]interface{}{
		"game":    game,
		"created": created,
	})
}

func (h *GameHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.gameService.Snapshot(r.Context(), chi.URLParam(r, "gameSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, snapshot)
}

func (h *GameHandler) setProblem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProblemSlug string `json:"problem_slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.ProblemSlug == "" {
		common.RespondWithError(w, http.StatusBadRequest, "problem_slug is required")
		return
	}

	problem, err := h.problems.GetProblem(r.Context(), req.ProblemSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	game, err := h.gameService.SetProblem(r.Context(), chi.URLParam(r, "gameSlug"), problem)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) startGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CountdownSeconds int `json:"countdown_seconds"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
			return
		}
	}

	game, err := h.gameService.Start(r.Context(), chi.URLParam(r, "gameSlug"), req.CountdownSeconds)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) finalizeGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.gameService.Finalize(r.Context(), chi.URLParam(r, "gameSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, game)
}

func (h *GameHandler) heartbeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID string `json:"client_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.presenceService.Heartbeat(r.Context(), chi.URLParam(r, "gameSlug"), req.ClientID, middleware.UserIDPtrFromContext(r.Context()))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *GameHandler) leave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID string `json:"client_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.presenceService.Leave(r.Context(), chi.URLParam(r, "gameSlug"), req.ClientID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "left"})
}

func (h *GameHandler) presence(w http.ResponseWriter, r *http.Request) {
	gameSlug := chi.URLParam(r, "gameSlug")

	count, err := h.presenceService.ActiveCount(r.Context(), gameSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	roster, err := h.presenceService.Roster(r.Context(), gameSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"active_count": count,
		"roster":       roster,
	})
}

func (h *GameHandler) submitScore(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	score, err := h.scoreService.Submit(r.Context(), chi.URLParam(r, "gameSlug"), middleware.UserIDPtrFromContext(r.Context()), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, score)
}

func (h *GameHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	scores, err := h.scoreService.Leaderboard(r.Context(), chi.URLParam(r, "gameSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}

func (h *GameHandler) sendChat(w http.ResponseWriter, r *http.Request) {
	var req service.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if username, ok := middleware.GetUsernameFromContext(r.Context()); ok {
		req.AuthorName = username
	}

	msg, err := h.chatService.Send(r.Context(), chi.URLParam(r, "gameSlug"), middleware.UserIDPtrFromContext(r.Context()), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, msg)
}

func (h *GameHandler) listChat(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chatService.List(r.Context(), chi.URLParam(r, "gameSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
