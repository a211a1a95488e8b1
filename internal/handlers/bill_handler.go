package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"
	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type BillHandler struct {
	billingService *services.BillingService
	logger         zerolog.Logger
}

func NewBillHandler(db *sql.DB, logger zerolog.Logger) *BillHandler {
	return &BillHandler{
		billingService: services.NewBillingService(db, logger),
		logger:         logger,
	}
}

func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	bill, err := h.billingService.CreateBill(&req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, bill)
}

func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	billID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_bill_id", "Invalid bill ID")
		return
	}

	bill, err := h.billingService.GetBillByID(billID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bill)
}

func (h *BillHandler) GetBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.billingService.GetAllBills()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, bills)
}

func (h *BillHandler) DeleteBill(w http.ResponseWriter, r *http.Request) {
	billID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_bill_id", "Invalid bill ID")
		return
	}

	if err := h.billingService.DeleteBill(billID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
