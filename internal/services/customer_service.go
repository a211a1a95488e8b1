package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Nethmini-Hirunika/Pahana-Edu-Billing/internal/models"

	"github.com/rs/zerolog"
)

type CustomerService struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewCustomerService(db *sql.DB, logger zerolog.Logger) *CustomerService {
	return &CustomerService{
		db:     db,
		logger: logger,
	}
}

func (s *CustomerService) CreateCustomer(req *models.CustomerRequest) (*models.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("customer name is required: %w", ErrInvalidArgument)
	}

	result, err := s.db.Exec(
		"INSERT INTO customers (name, address, phone, email, created_at) VALUES (?, ?, ?, ?, ?)",
		req.Name, req.Address, req.Phone, req.Email, time.Now(),
	)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error creating customer")
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	customerID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get customer ID: %w", err)
	}

	customer, err := s.GetCustomerByID(int(customerID))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("customer_id", customer.ID).Str("name", customer.Name).Msg("Customer created")
	return customer, nil
}

func (s *CustomerService) GetCustomerByID(customerID int) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.QueryRow(
		"SELECT id, name, address, phone, email, created_at FROM customers WHERE id = ?",
		customerID,
	).Scan(&customer.ID, &customer.Name, &customer.Address, &customer.Phone, &customer.Email, &customer.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer with id %d: %w", customerID, ErrNotFound)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("customer_id", customerID).Msg("Error fetching customer")
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &customer, nil
}

func (s *CustomerService) GetAllCustomers() ([]*models.Customer, error) {
	rows, err := s.db.Query("SELECT id, name, address, phone, email, created_at FROM customers ORDER BY id")
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching customers")
		return nil, fmt.Errorf("database error: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		var customer models.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Address, &customer.Phone, &customer.Email, &customer.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning customer: %w", err)
		}
		customers = append(customers, &customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

func (s *CustomerService) UpdateCustomer(customerID int, req *models.CustomerRequest) (*models.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("customer name is required: %w", ErrInvalidArgument)
	}

	if _, err := s.GetCustomerByID(customerID); err != nil {
		return nil, err
	}

	_, err := s.db.Exec(
		"UPDATE customers SET name = ?, address = ?, phone = ?, email = ? WHERE id = ?",
		req.Name, req.Address, req.Phone, req.Email, customerID,
	)
	if err != nil {
		s.logger.Error().Err(err).Int("customer_id", customerID).Msg("Error updating customer")
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return s.GetCustomerByID(customerID)
}

// DeleteCustomer removes the customer together with every bill they own, as
// one transaction. Bills cannot outlive their customer. This is force-delete
// semantics: callers that want to refuse deleting customers with billing
// history must check HasAssociatedBills first.
func (s *CustomerService) DeleteCustomer(customerID int) error {
	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting customer delete transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRow("SELECT id FROM customers WHERE id = ?", customerID).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("customer with id %d: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch customer: %w", err)
	}

	if _, err := tx.Exec(
		"DELETE FROM bill_items WHERE bill_id IN (SELECT id FROM bills WHERE customer_id = ?)",
		customerID,
	); err != nil {
		return fmt.Errorf("failed to delete bill items: %w", err)
	}

	result, err := tx.Exec("DELETE FROM bills WHERE customer_id = ?", customerID)
	if err != nil {
		return fmt.Errorf("failed to delete bills: %w", err)
	}
	billsDeleted, _ := result.RowsAffected()

	if _, err := tx.Exec("DELETE FROM customers WHERE id = ?", customerID); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing customer delete")
		return fmt.Errorf("failed to commit customer delete: %w", err)
	}

	s.logger.Info().
		Int("customer_id", customerID).
		Int64("bills_deleted", billsDeleted).
		Msg("Customer deleted with associated bills")
	return nil
}

// HasAssociatedBills reports whether the customer owns at least one bill.
// Read-only; an unknown customer simply has no bills.
func (s *CustomerService) HasAssociatedBills(customerID int) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM bills WHERE customer_id = ?", customerID).Scan(&count)
	if err != nil {
		s.logger.Error().Err(err).Int("customer_id", customerID).Msg("Error counting customer bills")
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}
