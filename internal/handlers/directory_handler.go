package handlers

import (
	"encoding/json"
	"net/http"

	"ledger-backend/internal/models"
	"ledger-backend/internal/services"
	"ledger-backend/pkg/utils"
)

type DirectoryHandler struct {
	Service *services.DirectoryService
}

func NewDirectoryHandler(s *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{Service: s}
}

// CreateSalesman answers 201 for a new salesman and 200 when the name already existed
func (h *DirectoryHandler) CreateSalesman(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSalesmanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	salesman, created, err := h.Service.CreateSalesman(r.Context(), req.Name)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, createdStatus(created), salesman)
}

func (h *DirectoryHandler) ListSalesmen(w http.ResponseWriter, r *http.Request) {
	salesmen, err := h.Service.ListSalesmen(r.Context())
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, salesmen)
}

func (h *DirectoryHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, created, err := h.Service.CreateCustomer(r.Context(), req.Name, req.Salesman)
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, createdStatus(created), customer)
}

// ListCustomers filters by ?salesman=<name>; omitted or ALL lists everyone
func (h *DirectoryHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Service.ListCustomers(r.Context(), r.URL.Query().Get("salesman"))
	if err != nil {
		utils.RespondAppError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, customers)
}

func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
