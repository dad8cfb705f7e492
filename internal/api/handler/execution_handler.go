package handler

import (
	"encoding/json"
	"net/http"

	"codeclash/internal/app/service"
	"codeclash/internal/common"

	"github.com/go-chi/chi/v5"
)

type ExecutionHandler struct {
	executionService  *service.ExecutionService
	evaluationService *service.EvaluationService
}

func NewExecutionHandler(executionService *service.ExecutionService, evaluationService *service.EvaluationService) *ExecutionHandler {
	return &ExecutionHandler{
		executionService:  executionService,
		evaluationService: evaluationService,
	}
}

func (h *ExecutionHandler) RegisterRoutes(r chi.Router) {
	r.Post("/execute", h.execute)
	r.Post("/evaluate", h.evaluate)
}

func (h *ExecutionHandler) execute(w http.ResponseWriter, r *http.Request) {
	var req service.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.executionService.Run(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *ExecutionHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req service.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.evaluationService.Evaluate(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
