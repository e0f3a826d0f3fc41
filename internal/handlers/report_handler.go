package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"ledger-backend/internal/services"
	"ledger-backend/internal/timeutil"
	"ledger-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Service *services.ExportService
}

func NewReportHandler(s *services.ExportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func (h *ReportHandler) StatementCSV(w http.ResponseWriter, r *http.Request) {
	customer := mux.Vars(r)["name"]
	data, err := h.Service.StatementCSV(r.Context(), customer)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	writeDownload(w, "text/csv; charset=utf-8", statementFilename(customer, "csv"), data)
}

func (h *ReportHandler) StatementPDF(w http.ResponseWriter, r *http.Request) {
	customer := mux.Vars(r)["name"]
	data, err := h.Service.StatementPDF(r.Context(), customer)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	writeDownload(w, "application/pdf", statementFilename(customer, "pdf"), data)
}

// ArchiveStatement stores the statement in object storage; ?format=csv|pdf
func (h *ReportHandler) ArchiveStatement(w http.ResponseWriter, r *http.Request) {
	location, err := h.Service.ArchiveStatement(r.Context(), mux.Vars(r)["name"], r.URL.Query().Get("format"))
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]string{"location": location})
}

func statementFilename(customer, ext string) string {
	return fmt.Sprintf("statement_%s_%s.%s", customer, timeutil.Now().Format("20060102"), ext)
}

func writeDownload(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
