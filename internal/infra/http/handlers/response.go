package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details []FieldProblem `json:"details,omitempty"`
}

type FieldProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeUseCaseError traduz o erro do use case em status HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var (
		authErr   *usecase.AuthenticationError
		formatErr *usecase.UnsupportedFormatError
		verrs     usecase.ValidationErrors
		verr      usecase.ValidationError
		domainErr *usecase.DomainError
		techErr   *usecase.TechnicalError
	)

	switch {
	case errors.As(err, &authErr):
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
	case errors.As(err, &formatErr):
		writeErrorResponse(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", formatErr.Error())
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "VALIDATION_ERROR",
			Details: fieldProblems(verrs),
		})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "VALIDATION_ERROR",
			Details: fieldProblems(usecase.ValidationErrors{verr}),
		})
	case errors.Is(err, entity.ErrLeadNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Lead not found")
	case errors.As(err, &domainErr):
		status := http.StatusBadRequest
		if domainErr.Code == "REPORT_NOT_FOUND" {
			status = http.StatusNotFound
		}
		writeErrorResponse(w, status, domainErr.Code, domainErr.Message)
	case errors.As(err, &techErr):
		writeErrorResponse(w, http.StatusInternalServerError, techErr.Code, "Internal server error")
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func fieldProblems(errs usecase.ValidationErrors) []FieldProblem {
	out := make([]FieldProblem, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldProblem{Field: e.Field, Message: e.Error()})
	}
	return out
}
