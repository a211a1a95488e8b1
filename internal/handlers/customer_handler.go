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

type CustomerHandler struct {
	customerService *services.CustomerService
	logger          zerolog.Logger
}

func NewCustomerHandler(db *sql.DB, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: services.NewCustomerService(db, logger),
		logger:          logger,
	}
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(&req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_customer_id", "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomerByID(customerID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) GetCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.GetAllCustomers()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_customer_id", "Invalid customer ID")
		return
	}

	var req models.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(customerID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, customer)
}

// DeleteCustomer force-deletes the customer and every bill they own. Clients
// wanting to warn first should call HasBills beforehand.
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_customer_id", "Invalid customer ID")
		return
	}

	if err := h.customerService.DeleteCustomer(customerID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) HasBills(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_customer_id", "Invalid customer ID")
		return
	}

	hasBills, err := h.customerService.HasAssociatedBills(customerID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"has_bills": hasBills})
}
