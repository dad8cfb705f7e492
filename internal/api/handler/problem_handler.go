package handler

import (
	"net/http"

	"codeclash/internal/app/service"
	"codeclash/internal/common"
	"codeclash/internal/platform/client"

	"github.com/go-chi/chi/v5"
)

type ProblemHandler struct {
	leetcode      *client.LeetCodeClient
	searchService *service.SearchService
}

func NewProblemHandler(leetcode *client.LeetCodeClient, searchService *service.SearchService) *ProblemHandler {
	return &ProblemHandler{leetcode: leetcode, searchService: searchService}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.search)            // GET /api/v1/problems/search?q=
	r.Get("/{problemSlug}", h.getProblem) // GET /api/v1/problems/two-sum
}

func (h *ProblemHandler) getProblem(w http.ResponseWriter, r *http.Request) {
	problemSlug := chi.URLParam(r, "problemSlug")
	if problemSlug == "" {
		common.RespondWithError(w, http.StatusBadRequest, "problem slug is required")
		return
	}

	problem, err := h.leetcode.GetProblem(r.Context(), problemSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := h.searchService.Search(query)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
