package handlers

import (
	"encoding/json"
	"net/http"

	"ledger-backend/internal/models"
	"ledger-backend/internal/services"
	"ledger-backend/pkg/utils"

	"github.com/gorilla/mux"
)

const idempotencyHeader = "Idempotency-Key"

type LedgerHandler struct {
	Ledger   *services.LedgerService
	Clearing *services.ClearingService
	Voids    *services.VoidService
}

func NewLedgerHandler(ledger *services.LedgerService, clearing *services.ClearingService, voids *services.VoidService) *LedgerHandler {
	return &LedgerHandler{Ledger: ledger, Clearing: clearing, Voids: voids}
}

// SubmitDocument posts one document. A replayed Idempotency-Key answers 200
// with the entry the first request created.
func (h *LedgerHandler) SubmitDocument(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, replayed, err := h.Ledger.SubmitDocument(r.Context(), req, r.Header.Get(idempotencyHeader))
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, createdStatus(!replayed), entry)
}

func (h *LedgerHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Ledger.GetEntry(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}

func (h *LedgerHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Ledger.GetStatement(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, lines)
}

func (h *LedgerHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Ledger.GetDashboard(r.Context(), r.URL.Query().Get("salesman"))
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, dashboard)
}

func (h *LedgerHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	var req models.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := h.Clearing.ApplyPayment(r.Context(), mux.Vars(r)["id"], req.Amount)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, status)
}

func (h *LedgerHandler) ApplyContractPayment(w http.ResponseWriter, r *http.Request) {
	var req models.ContractPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	statuses, err := h.Clearing.ApplyPaymentToContract(r.Context(), req)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, statuses)
}

func (h *LedgerHandler) VoidEntry(w http.ResponseWriter, r *http.Request) {
	var req models.VoidEntryRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	entry, err := h.Voids.VoidEntry(r.Context(), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}

// ListVoided backs the audit centre, optionally narrowed by ?customer=
func (h *LedgerHandler) ListVoided(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.ListVoided(r.Context(), r.URL.Query().Get("customer"))
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, entries)
}
