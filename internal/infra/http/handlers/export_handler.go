package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/spreadsheet"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	UseCase *usecase.ExportLeadsUseCase
	Log     *logrus.Logger
	Now     func() time.Time
}

func NewExportHandler(uc *usecase.ExportLeadsUseCase, log *logrus.Logger) *ExportHandler {
	return &ExportHandler{UseCase: uc, Log: log, Now: time.Now}
}

func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.UseCase.CSVRows(r.Context(), middleware.UserFromContext(r.Context()), filterFromQuery(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteCSV(&buf, rows); err != nil {
		h.Log.WithError(err).Error("❌ falha ao gerar CSV")
		writeErrorResponse(w, http.StatusInternalServerError, "EXPORT_ERROR", "Internal server error")
		return
	}
	h.send(w, "text/csv; charset=utf-8", usecase.ExportFilename("csv", h.Now()), buf.Bytes())
}

func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	rows, err := h.UseCase.XLSXRows(r.Context(), middleware.UserFromContext(r.Context()), filterFromQuery(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteXLSX(&buf, rows); err != nil {
		h.Log.WithError(err).Error("❌ falha ao gerar XLSX")
		writeErrorResponse(w, http.StatusInternalServerError, "EXPORT_ERROR", "Internal server error")
		return
	}
	h.send(w, xlsxContentType, usecase.ExportFilename("xlsx", h.Now()), buf.Bytes())
}

// send só escreve depois do arquivo pronto, assim um erro ainda vira JSON.
func (h *ExportHandler) send(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
