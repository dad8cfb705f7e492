package handler

import (
	"encoding/json"
	"net/http"

	"codeclash/internal/app/service"
	"codeclash/internal/common"
	"codeclash/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type TestCaseHandler struct {
	testCaseService *service.TestCaseService
}

func NewTestCaseHandler(testCaseService *service.TestCaseService) *TestCaseHandler {
	return &TestCaseHandler{testCaseService: testCaseService}
}

func (h *TestCaseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/{problemSlug}", h.getTestCases)
	r.Post("/{problemSlug}", h.generateTestCases)
	r.Put("/{problemSlug}", h.saveTestCases)
}

func (h *TestCaseHandler) getTestCases(w http.ResponseWriter, r *http.Request) {
	set, err := h.testCaseService.Get(r.Context(), chi.URLParam(r, "problemSlug"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, set)
}

func (h *TestCaseHandler) generateTestCases(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProblemTitle string `json:"problem_title"`
		Force        bool   `json:"force"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
			return
		}
	}

	set, err := h.testCaseService.GetOrGenerate(r.Context(), chi.URLParam(r, "problemSlug"), req.ProblemTitle, req.Force)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, set)
}

func (h *TestCaseHandler) saveTestCases(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TestCases []model.TestCase `json:"testCases"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	set, err := h.testCaseService.Save(r.Context(), chi.URLParam(r, "problemSlug"), req.TestCases)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, set)
}
