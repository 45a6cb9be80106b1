package handlers

import (
	"errors"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type ImportHandler struct {
	UseCase        *usecase.ImportLeadsUseCase
	MaxUploadBytes int64
}

func NewImportHandler(uc *usecase.ImportLeadsUseCase, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{UseCase: uc, MaxUploadBytes: maxUploadBytes}
}

// Import recebe multipart/form-data com o campo "file".
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	principal := middleware.UserFromContext(r.Context())
	if principal.UserID == "" {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorResponse(w, http.StatusBadRequest, "FILE_TOO_LARGE", "File exceeds the upload limit")
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "NO_FILE", "No file provided")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "NO_FILE", "No file provided")
		return
	}
	defer file.Close()

	report, err := h.UseCase.Execute(r.Context(), usecase.ImportLeadsInput{
		Principal: principal,
		Filename:  header.Filename,
		File:      file,
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ImportHandler) Last(w http.ResponseWriter, r *http.Request) {
	report, err := h.UseCase.LastReport(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
