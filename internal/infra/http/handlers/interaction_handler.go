package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type InteractionHandler struct {
	UseCase *usecase.InteractionUseCase
}

func NewInteractionHandler(uc *usecase.InteractionUseCase) *InteractionHandler {
	return &InteractionHandler{UseCase: uc}
}

func (h *InteractionHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.UseCase.List(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *InteractionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.InteractionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	item, err := h.UseCase.Log(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordInteraction()
	writeJSON(w, http.StatusCreated, item)
}
