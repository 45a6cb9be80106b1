package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	CreateUC *usecase.CreateLeadUseCase
	UpdateUC *usecase.UpdateLeadUseCase
	Queries  *usecase.LeadQueryUseCase
}

func NewLeadHandler(create *usecase.CreateLeadUseCase, update *usecase.UpdateLeadUseCase, queries *usecase.LeadQueryUseCase) *LeadHandler {
	return &LeadHandler{
		CreateUC: create,
		UpdateUC: update,
		Queries:  queries,
	}
}

// filterFromQuery lê ?query=&status=&source=&from=&to= da URL.
func filterFromQuery(r *http.Request) usecase.LeadFilterInput {
	q := r.URL.Query()
	return usecase.LeadFilterInput{
		Query:  q.Get("query"),
		Status: q.Get("status"),
		Source: q.Get("source"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Queries.List(r.Context(), middleware.UserFromContext(r.Context()), filterFromQuery(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	lead, err := h.CreateUC.Execute(r.Context(), middleware.UserFromContext(r.Context()), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	middleware.RecordLeadCreated()
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Queries.Get(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Update atende o formulário de edição e o arrastar do kanban (só status).
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON")
		return
	}

	lead, err := h.UpdateUC.Execute(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Queries.Delete(r.Context(), middleware.UserFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
